// pkg/api/server.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/Parhamfakhar1/natiq/internal/core"
	"github.com/Parhamfakhar1/natiq/internal/engine"
	"github.com/Parhamfakhar1/natiq/internal/memory"
	"github.com/Parhamfakhar1/natiq/internal/monitoring"
	"github.com/Parhamfakhar1/natiq/internal/utils"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	headerRequestID = "X-Request-ID"
)

// Dependencies - اجزای مورد نیاز سرور؛ Metrics اختیاری است
type Dependencies struct {
	Engine  *engine.Engine
	Metrics *monitoring.Metrics
}

// Server - سرور HTTP مبتنی بر fasthttp
type Server struct {
	config   Config
	engine   *engine.Engine
	metrics  *monitoring.Metrics
	limiter  *RateLimiter
	server   *fasthttp.Server
	promHTTP fasthttp.RequestHandler
	started  time.Time
}

type errorResponse struct {
	Error string `json:"error"`
}

type intentsResponse struct {
	Intents []engine.IntentInfo `json:"intents"`
	Topics  []string            `json:"topics"`
}

type healthResponse struct {
	Status        string       `json:"status"`
	UptimeSeconds float64      `json:"uptime_seconds"`
	Records       int          `json:"records"`
	RateClients   int          `json:"rate_limited_clients"`
	Stats         engine.Stats `json:"stats"`
}

func NewServer(config Config, deps Dependencies) (*Server, error) {
	if deps.Engine == nil {
		return nil, errors.New("api: engine is required")
	}

	s := &Server{
		config:  config,
		engine:  deps.Engine,
		metrics: deps.Metrics,
		limiter: NewRateLimiter(config.RateLimit, config.RateBurst, config.ClientIdleTTL),
		started: time.Now(),
	}
	if s.metrics != nil {
		s.promHTTP = fasthttpadaptor.NewFastHTTPHandler(s.metrics.Handler())
	}

	s.server = &fasthttp.Server{
		Name:               "natiq",
		Handler:            s.Handler(),
		ReadTimeout:        config.ReadTimeout,
		WriteTimeout:       config.WriteTimeout,
		MaxRequestBodySize: config.MaxBodyBytes,
	}
	return s, nil
}

// Handler returns the routed handler wrapped with logging and rate limiting.
func (s *Server) Handler() fasthttp.RequestHandler {
	return s.logging(s.rateLimit(s.route))
}

func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("🌐 HTTP API listening")
	return s.server.ListenAndServe(addr)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.server.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.ShutdownWithContext(ctx)
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/api/ask":
		if !ctx.IsPost() {
			s.methodNotAllowed(ctx, fasthttp.MethodPost)
			return
		}
		s.handleAsk(ctx)

	case "/api/intents":
		if !ctx.IsGet() {
			s.methodNotAllowed(ctx, fasthttp.MethodGet)
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, intentsResponse{
			Intents: s.engine.Catalogue(),
			Topics:  s.engine.Topics(),
		})

	case "/api/health":
		if !ctx.IsGet() {
			s.methodNotAllowed(ctx, fasthttp.MethodGet)
			return
		}
		writeJSON(ctx, fasthttp.StatusOK, healthResponse{
			Status:        "ok",
			UptimeSeconds: time.Since(s.started).Seconds(),
			Records:       s.engine.Dossier().Len(),
			RateClients:   s.limiter.Clients(),
			Stats:         s.engine.Stats(),
		})

	case "/api/knowledge":
		switch {
		case ctx.IsGet():
			s.handleListKnowledge(ctx)
		case ctx.IsPost():
			s.handleAddKnowledge(ctx)
		default:
			s.methodNotAllowed(ctx, fasthttp.MethodGet+", "+fasthttp.MethodPost)
		}

	case "/metrics":
		if s.promHTTP == nil {
			writeError(ctx, fasthttp.StatusNotFound, "metrics are disabled")
			return
		}
		s.promHTTP(ctx)

	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

func (s *Server) handleAsk(ctx *fasthttp.RequestCtx) {
	body := ctx.PostBody()

	// بدنه‌ی نامعتبر هم پاسخ می‌گیرد (پرسش خالی)
	var question string
	var c core.Context
	if gjson.ValidBytes(body) {
		question = gjson.GetBytes(body, "question").String()
		c.Style = gjson.GetBytes(body, "context.style").String()
		c.UserID = gjson.GetBytes(body, "context.user_id").String()
	}
	if s.config.MaxQuestionRunes > 0 {
		question = utils.Truncate(question, s.config.MaxQuestionRunes)
	}

	answer := s.engine.Answer(ctx, question, c)
	ctx.Response.Header.Set(headerRequestID, answer.Metadata.RequestID)
	writeJSON(ctx, fasthttp.StatusOK, answer)
}

func (s *Server) handleListKnowledge(ctx *fasthttp.RequestCtx) {
	dossier := s.engine.Dossier()
	names := dossier.Names()
	records := make([]core.KnowledgeRecord, 0, len(names))
	for _, name := range names {
		if rec, ok := dossier.Get(name); ok {
			records = append(records, rec)
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, records)
}

func (s *Server) handleAddKnowledge(ctx *fasthttp.RequestCtx) {
	if !s.config.AllowKnowledgeWrites {
		writeError(ctx, fasthttp.StatusForbidden, "knowledge writes are disabled")
		return
	}

	body := ctx.PostBody()
	if !gjson.ValidBytes(body) {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
		return
	}

	rec := core.KnowledgeRecord{
		Name:         gjson.GetBytes(body, "name").String(),
		Profession:   gjson.GetBytes(body, "profession").String(),
		Expertise:    stringList(gjson.GetBytes(body, "expertise")),
		Achievements: stringList(gjson.GetBytes(body, "achievements")),
		Projects:     stringList(gjson.GetBytes(body, "projects")),
		Background:   gjson.GetBytes(body, "background").String(),
	}

	err := s.engine.Dossier().Add(ctx, rec)
	switch {
	case errors.Is(err, memory.ErrInvalidRecord):
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
	case errors.Is(err, memory.ErrDuplicateRecord):
		writeError(ctx, fasthttp.StatusConflict, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("Failed to add knowledge record")
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to store record")
	default:
		saved, ok := s.engine.Dossier().Get(utils.NormalizeSpaces(rec.Name))
		if !ok {
			saved = rec
		}
		log.Info().Str("name", saved.Name).Msg("📚 Knowledge record added")
		writeJSON(ctx, fasthttp.StatusCreated, saved)
	}
}

func (s *Server) methodNotAllowed(ctx *fasthttp.RequestCtx, allow string) {
	ctx.Response.Header.Set(fasthttp.HeaderAllow, allow)
	writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
}

func (s *Server) rateLimit(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		// متریک‌ها و سلامت محدود نمی‌شوند
		path := string(ctx.Path())
		if path == "/metrics" || path == "/api/health" {
			next(ctx)
			return
		}
		if !s.limiter.Allow(ctx.RemoteIP().String()) {
			if s.metrics != nil {
				s.metrics.RateLimited()
			}
			writeError(ctx, fasthttp.StatusTooManyRequests, "too many requests")
			return
		}
		next(ctx)
	}
}

func (s *Server) logging(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		log.Debug().
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Int("status", ctx.Response.StatusCode()).
			Str("remote", ctx.RemoteIP().String()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}

func stringList(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	items := r.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}
	return out
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		status = fasthttp.StatusInternalServerError
		data = []byte(fmt.Sprintf(`{"error":%q}`, "encoding failed"))
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType(contentTypeJSON)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, errorResponse{Error: msg})
}
