// internal/engine/engine.go
package engine

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/Parhamfakhar1/natiq/internal/core"
	"github.com/Parhamfakhar1/natiq/internal/evaluation"
	"github.com/Parhamfakhar1/natiq/internal/memory"
	"github.com/Parhamfakhar1/natiq/internal/model"
	"github.com/Parhamfakhar1/natiq/internal/perception"
	"github.com/Parhamfakhar1/natiq/internal/security"
	"github.com/Parhamfakhar1/natiq/internal/utils"
)

// Cache stores computed answers by key. Purge is called whenever the
// dossier changes.
type Cache interface {
	Get(key string) (core.Answer, bool)
	Add(key string, answer core.Answer)
	Purge()
}

// Observer is told about every answer, e.g. to export metrics.
type Observer interface {
	ObserveAnswer(answer core.Answer, elapsed time.Duration)
}

// Recorder persists interactions, e.g. to the archive.
type Recorder interface {
	Record(ctx context.Context, question string, answer core.Answer) error
}

// Options - وابستگی‌های موتور؛ همه اختیاری‌اند
type Options struct {
	Dossier    *memory.Dossier
	Vocabulary *perception.Vocabulary
	Guard      *security.PrivacyGuard
	Templates  model.Templates

	Cache    Cache
	Observer Observer
	Recorder Recorder

	// سبک پیش‌فرض وقتی درخواست سبکی تعیین نکرده
	DefaultStyle model.Style

	Scoring     evaluation.Config
	ScoreRand   evaluation.Rand
	ClosingRand model.Rand

	Logger *zerolog.Logger
}

// Stats - آمار تجمعی موتور
type Stats struct {
	TotalQuestions int64                 `json:"total_questions"`
	CacheHits      int64                 `json:"cache_hits"`
	RecordErrors   int64                 `json:"record_errors"`
	ByIntent       map[core.Intent]int64 `json:"by_intent"`
}

// IntentInfo describes one entry of the decision list.
type IntentInfo struct {
	Intent core.Intent `json:"intent"`
	Rule   string      `json:"rule"`
	Order  int         `json:"order"`
}

// Engine - پایپ‌لاین کامل پاسخ‌گویی:
// نرمال‌سازی -> استخراج -> طبقه‌بندی -> جست‌وجو در پرونده -> ساخت پاسخ -> امتیاز
type Engine struct {
	normalizer *perception.Normalizer
	vocabulary perception.Vocabulary
	extractor  atomic.Pointer[perception.Extractor]
	classifier *perception.Classifier
	dossier    *memory.Dossier
	composer   *model.Composer
	scorer     *evaluation.Scorer
	style      model.Style

	cache    Cache
	observer Observer
	recorder Recorder
	group    singleflight.Group
	logger   zerolog.Logger

	// با هر تغییر پرونده یکی زیاد می‌شود؛ پاسخی که حین تغییر ساخته شده در کش نمی‌رود
	generation atomic.Uint64

	statsMu sync.Mutex
	stats   Stats
}

func New(opts Options) (*Engine, error) {
	dossier := opts.Dossier
	if dossier == nil {
		var err error
		dossier, err = memory.NewDossier(memory.DefaultRecords(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create dossier: %w", err)
		}
	}

	vocabulary := perception.DefaultVocabulary()
	if opts.Vocabulary != nil {
		vocabulary = *opts.Vocabulary
	}

	guard := opts.Guard
	if guard == nil {
		guard = security.NewPrivacyGuard()
	}

	composer, err := model.NewComposer(opts.Templates, opts.ClosingRand)
	if err != nil {
		return nil, fmt.Errorf("failed to create composer: %w", err)
	}

	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	e := &Engine{
		normalizer: perception.NewNormalizer(nil, nil),
		vocabulary: vocabulary,
		classifier: perception.NewClassifier(perception.DefaultRules(guard)),
		dossier:    dossier,
		composer:   composer,
		scorer:     evaluation.NewScorer(opts.Scoring, opts.ScoreRand),
		style:      model.ParseStyle(string(opts.DefaultStyle)),
		cache:      opts.Cache,
		observer:   opts.Observer,
		recorder:   opts.Recorder,
		logger:     logger.With().Str("component", "engine").Logger(),
		stats:      Stats{ByIntent: make(map[core.Intent]int64)},
	}

	// نام‌های پرونده جزو واژگان اشخاص‌اند و با هر تغییر به‌روز می‌شوند
	e.refreshExtractor(dossier.Names())
	dossier.OnChange(func(names []string) {
		e.refreshExtractor(names)
		e.generation.Add(1)
		if e.cache != nil {
			e.cache.Purge()
		}
	})

	return e, nil
}

// Answer runs the whole pipeline. It never fails: the worst case is the
// clarification text.
func (e *Engine) Answer(ctx context.Context, question string, c core.Context) core.Answer {
	start := time.Now()
	style := e.style
	if c.Style != "" {
		style = model.ParseStyle(c.Style)
	}
	normalized := e.normalizer.Normalize(question)

	var (
		answer core.Answer
		cached bool
	)
	if e.cache == nil {
		answer = e.compute(normalized, style)
	} else {
		key := cacheKey(normalized, style)
		gen := e.generation.Load()
		if hit, ok := e.cache.Get(key); ok {
			answer, cached = hit, true
		} else {
			flight := fmt.Sprintf("%s#%d", key, gen)
			v, _, _ := e.group.Do(flight, func() (any, error) {
				if hit, ok := e.cache.Get(key); ok {
					return hit, nil
				}
				computed := e.compute(normalized, style)
				if e.generation.Load() == gen {
					e.cache.Add(key, computed)
				}
				return computed, nil
			})
			answer = v.(core.Answer)
		}
	}

	elapsed := time.Since(start)
	answer.Metadata.RequestID = utils.GenerateID()
	answer.Metadata.Cached = cached
	answer.Metadata.Style = string(style)
	answer.Metadata.DurationMS = float64(elapsed.Microseconds()) / 1000
	answer.Metadata.Timestamp = start

	e.record(answer)
	if e.observer != nil {
		e.observer.ObserveAnswer(answer, elapsed)
	}
	if e.recorder != nil {
		if err := e.recorder.Record(ctx, question, answer); err != nil {
			e.logger.Warn().Err(err).Str("request_id", answer.Metadata.RequestID).Msg("Failed to record interaction")
			e.statsMu.Lock()
			e.stats.RecordErrors++
			e.statsMu.Unlock()
		}
	}

	e.logger.Debug().
		Str("request_id", answer.Metadata.RequestID).
		Str("question_hash", utils.HashSHA256(question)[:16]).
		Str("user_id", c.UserID).
		Str("intent", string(answer.Analysis.Intent)).
		Bool("found", answer.Metadata.LookupFound).
		Bool("cached", cached).
		Dur("elapsed", elapsed).
		Msg("Question answered")

	return answer
}

func (e *Engine) compute(normalized string, style model.Style) (answer core.Answer) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().Interface("panic", r).Msg("Pipeline panicked, answering with clarification")
			answer = core.Answer{
				Response: e.composer.Compose(core.IntentGeneral, core.LookupResult{}, core.NewEntitySet(), style),
				Analysis: core.Analysis{Intent: core.IntentGeneral, Entities: core.NewEntitySet(), Normalized: normalized},
				Scores:   core.Scores{Depth: 1},
			}
		}
	}()

	entities := e.extractor.Load().Extract(normalized)
	intent := e.classifier.Classify(normalized, entities)
	lookup := e.dossier.Lookup(intent, entities)

	return core.Answer{
		Response: e.composer.Compose(intent, lookup, entities, style),
		Analysis: core.Analysis{
			Intent:     intent,
			Entities:   entities,
			Normalized: normalized,
		},
		Scores: e.scorer.Score(normalized, intent, lookup.Found),
		Metadata: core.Metadata{
			LookupFound: lookup.Found,
			Person:      lookup.Person,
		},
	}
}

// Explain classifies question and names the winning rule.
func (e *Engine) Explain(question string) perception.Classification {
	normalized := e.normalizer.Normalize(question)
	return e.classifier.Explain(normalized, e.extractor.Load().Extract(normalized))
}

// Catalogue lists the decision list in evaluation order, ending with the
// fallback.
func (e *Engine) Catalogue() []IntentInfo {
	rules := e.classifier.Rules()
	out := make([]IntentInfo, 0, len(rules)+1)
	for i, r := range rules {
		out = append(out, IntentInfo{Intent: r.Intent, Rule: r.Name, Order: i + 1})
	}
	return append(out, IntentInfo{Intent: core.IntentGeneral, Rule: perception.FallbackRule, Order: len(rules) + 1})
}

// Topics returns the topics the engine can explain.
func (e *Engine) Topics() []string {
	return e.composer.Topics()
}

func (e *Engine) Dossier() *memory.Dossier {
	return e.dossier
}

func (e *Engine) Stats() Stats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()

	out := e.stats
	out.ByIntent = maps.Clone(e.stats.ByIntent)
	return out
}

func (e *Engine) record(answer core.Answer) {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()

	e.stats.TotalQuestions++
	if answer.Metadata.Cached {
		e.stats.CacheHits++
	}
	e.stats.ByIntent[answer.Analysis.Intent]++
}

func (e *Engine) refreshExtractor(names []string) {
	vocab := e.vocabulary.WithPersons(names...)
	// نام ثبت‌شده ممکن است با متن نرمال‌شده فرق داشته باشد
	for _, name := range names {
		if normalized := e.normalizer.Normalize(name); normalized != "" && normalized != name {
			vocab.Persons = append(vocab.Persons, perception.Term{Surface: normalized, Label: name})
		}
	}
	e.extractor.Store(perception.NewExtractor(vocab))
}

func cacheKey(normalized string, style model.Style) string {
	return utils.HashSHA256(string(style) + "\x00" + normalized)
}
