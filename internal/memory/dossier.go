// internal/memory/dossier.go
package memory

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/Parhamfakhar1/natiq/internal/core"
)

var (
	ErrInvalidRecord   = errors.New("invalid knowledge record")
	ErrDuplicateRecord = errors.New("knowledge record already exists")
)

//go:embed dossier.yaml
var defaultDossierYAML []byte

type dossierFile struct {
	Records []core.KnowledgeRecord `yaml:"records"`
}

// RecordStore persists records added at runtime.
type RecordStore interface {
	Save(ctx context.Context, record core.KnowledgeRecord) error
}

// Dossier - جدول ثابت پرونده‌ها با جست‌وجوی دقیق بر اساس نام.
// خواندن بدون قفل و روی یک snapshot تغییرناپذیر انجام می‌شود؛
// نوشتن snapshot تازه می‌سازد و آن را به‌صورت اتمی جایگزین می‌کند.
type Dossier struct {
	snapshot atomic.Pointer[map[string]core.KnowledgeRecord]

	mu        sync.Mutex
	base      map[string]core.KnowledgeRecord
	added     map[string]core.KnowledgeRecord
	store     RecordStore
	listeners []func(names []string)
}

// NewDossier builds a dossier from base records. store may be nil, in
// which case Add keeps records in memory only.
func NewDossier(base []core.KnowledgeRecord, store RecordStore) (*Dossier, error) {
	d := &Dossier{
		base:  make(map[string]core.KnowledgeRecord),
		added: make(map[string]core.KnowledgeRecord),
		store: store,
	}
	if err := d.Replace(base); err != nil {
		return nil, err
	}
	return d, nil
}

// DefaultRecords returns the built-in dossier.
func DefaultRecords() []core.KnowledgeRecord {
	records, err := parseDossier(defaultDossierYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded dossier is invalid: %v", err))
	}
	return records
}

// LoadDossierFile reads a YAML dossier from disk.
func LoadDossierFile(path string) ([]core.KnowledgeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dossier file: %w", err)
	}
	records, err := parseDossier(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dossier file %s: %w", path, err)
	}
	return records, nil
}

func parseDossier(data []byte) ([]core.KnowledgeRecord, error) {
	var file dossierFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	for i := range file.Records {
		file.Records[i] = canonical(file.Records[i])
		if err := validate(file.Records[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return file.Records, nil
}

// Lookup consults the table only for the person_* intents. The first
// extracted person (in sorted order) that has a record wins; any other
// case is reported as not found.
func (d *Dossier) Lookup(intent core.Intent, entities core.EntitySet) core.LookupResult {
	if !intent.IsPersonal() {
		return core.LookupResult{}
	}

	persons := entities.Persons.Sorted()
	records := *d.snapshot.Load()
	for _, name := range persons {
		if rec, ok := records[name]; ok {
			clone := cloneRecord(rec)
			return core.LookupResult{Found: true, Person: name, Record: &clone}
		}
	}

	result := core.LookupResult{}
	if len(persons) > 0 {
		result.Person = persons[0]
	}
	return result
}

// Get returns the record stored under the exact name.
func (d *Dossier) Get(name string) (core.KnowledgeRecord, bool) {
	rec, ok := (*d.snapshot.Load())[name]
	if !ok {
		return core.KnowledgeRecord{}, false
	}
	return cloneRecord(rec), true
}

// Names returns every person with a record, sorted.
func (d *Dossier) Names() []string {
	records := *d.snapshot.Load()
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (d *Dossier) Len() int {
	return len(*d.snapshot.Load())
}

// Add stores a new record, persisting it first when a store is attached.
func (d *Dossier) Add(ctx context.Context, record core.KnowledgeRecord) error {
	record = canonical(record)
	if err := validate(record); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := (*d.snapshot.Load())[record.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRecord, record.Name)
	}
	if d.store != nil {
		if err := d.store.Save(ctx, record); err != nil {
			return fmt.Errorf("failed to persist record: %w", err)
		}
	}
	d.added[record.Name] = cloneRecord(record)
	d.publishLocked()
	return nil
}

// Restore loads previously persisted records without writing them back.
func (d *Dossier) Restore(records []core.KnowledgeRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, rec := range records {
		rec = canonical(rec)
		if err := validate(rec); err != nil {
			return err
		}
		d.added[rec.Name] = cloneRecord(rec)
	}
	d.publishLocked()
	return nil
}

// Replace swaps the base records, e.g. after the dossier file changed.
// Runtime additions are kept.
func (d *Dossier) Replace(base []core.KnowledgeRecord) error {
	next := make(map[string]core.KnowledgeRecord, len(base))
	for _, rec := range base {
		rec = canonical(rec)
		if err := validate(rec); err != nil {
			return err
		}
		next[rec.Name] = cloneRecord(rec)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.base = next
	d.publishLocked()
	return nil
}

// OnChange registers fn to be called with the sorted names after every
// change of the table.
func (d *Dossier) OnChange(fn func(names []string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

func (d *Dossier) publishLocked() {
	merged := make(map[string]core.KnowledgeRecord, len(d.base)+len(d.added))
	for name, rec := range d.base {
		merged[name] = rec
	}
	for name, rec := range d.added {
		merged[name] = rec
	}
	d.snapshot.Store(&merged)

	if len(d.listeners) == 0 {
		return
	}
	names := d.Names()
	for _, fn := range d.listeners {
		fn(names)
	}
	log.Debug().Int("records", len(merged)).Msg("Dossier snapshot published")
}

func canonical(rec core.KnowledgeRecord) core.KnowledgeRecord {
	rec.Name = strings.Join(strings.Fields(rec.Name), " ")
	rec.Profession = strings.TrimSpace(rec.Profession)
	rec.Background = strings.TrimSpace(rec.Background)
	return rec
}

func validate(rec core.KnowledgeRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	return nil
}

func cloneRecord(rec core.KnowledgeRecord) core.KnowledgeRecord {
	rec.Expertise = slices.Clone(rec.Expertise)
	rec.Achievements = slices.Clone(rec.Achievements)
	rec.Projects = slices.Clone(rec.Projects)
	return rec
}
