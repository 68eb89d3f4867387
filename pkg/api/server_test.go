package api

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/Parhamfakhar1/natiq/internal/core"
	"github.com/Parhamfakhar1/natiq/internal/engine"
	"github.com/Parhamfakhar1/natiq/internal/memory"
	"github.com/Parhamfakhar1/natiq/internal/monitoring"
)

type pinnedRand struct{}

func (pinnedRand) IntN(int) int { return 0 }
func (pinnedRand) Float64() float64 { return 0.5 }

func newTestEngine(t *testing.T, metrics *monitoring.Metrics) *engine.Engine {
	t.Helper()
	opts := engine.Options{
		Cache:       memory.NewAnswerCache(100, time.Minute),
		ScoreRand:   pinnedRand{},
		ClosingRand: pinnedRand{},
	}
	if metrics != nil {
		opts.Observer = metrics
	}
	e, err := engine.New(opts)
	require.NoError(t, err)
	return e
}

func newTestServer(t *testing.T, config Config) (*Server, *monitoring.Metrics) {
	t.Helper()
	metrics := monitoring.NewMetrics(monitoring.DefaultConfig())
	s, err := NewServer(config, Dependencies{Engine: newTestEngine(t, metrics), Metrics: metrics})
	require.NoError(t, err)
	return s, metrics
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RateLimit = 0
	return cfg
}

func doFrom(h fasthttp.RequestHandler, ip, method, path, body string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, &net.TCPAddr{IP: net.ParseIP(ip), Port: 40000}, nil)
	h(ctx)
	return ctx
}

func do(h fasthttp.RequestHandler, method, path, body string) *fasthttp.RequestCtx {
	return doFrom(h, "10.0.0.1", method, path, body)
}

func decodeAnswer(t *testing.T, ctx *fasthttp.RequestCtx) core.Answer {
	t.Helper()
	var answer core.Answer
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &answer))
	return answer
}

func TestNewServer_RequiresEngine(t *testing.T) {
	_, err := NewServer(DefaultConfig(), Dependencies{})
	assert.Error(t, err)
}

func TestServer_Ask(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	h := s.Handler()

	ctx := do(h, fasthttp.MethodPost, "/api/ask", `{"question": "رامین اجلال کیست؟", "context": {"style": "friendly", "user_id": "u-1"}}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Header.ContentType()), "application/json")

	answer := decodeAnswer(t, ctx)
	assert.Equal(t, core.IntentPersonIntro, answer.Analysis.Intent)
	assert.True(t, answer.Metadata.LookupFound)
	assert.Equal(t, "friendly", answer.Metadata.Style)
	assert.NotEmpty(t, answer.Response)
	assert.Equal(t, answer.Metadata.RequestID, string(ctx.Response.Header.Peek(headerRequestID)))
}

func TestServer_AskMalformedBody(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	h := s.Handler()

	for _, body := range []string{"{not json", "", `{"question": 42}`} {
		ctx := do(h, fasthttp.MethodPost, "/api/ask", body)
		require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), body)

		answer := decodeAnswer(t, ctx)
		assert.Equal(t, core.IntentGeneral, answer.Analysis.Intent, body)
		assert.NotEmpty(t, answer.Response, body)
	}
}

func TestServer_AskTruncatesQuestion(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQuestionRunes = 4
	s, _ := newTestServer(t, cfg)

	ctx := do(s.Handler(), fasthttp.MethodPost, "/api/ask", `{"question": "سلام دوست من"}`)
	answer := decodeAnswer(t, ctx)
	assert.Equal(t, "سلام", answer.Analysis.Normalized)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	h := s.Handler()

	tests := []struct {
		method, path, allow string
	}{
		{fasthttp.MethodGet, "/api/ask", fasthttp.MethodPost},
		{fasthttp.MethodPost, "/api/intents", fasthttp.MethodGet},
		{fasthttp.MethodDelete, "/api/health", fasthttp.MethodGet},
		{fasthttp.MethodPut, "/api/knowledge", "GET, POST"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			ctx := do(h, tt.method, tt.path, "")
			assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
			assert.Equal(t, tt.allow, string(ctx.Response.Header.Peek(fasthttp.HeaderAllow)))
		})
	}
}

func TestServer_NotFound(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	ctx := do(s.Handler(), fasthttp.MethodGet, "/api/unknown", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestServer_Intents(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	ctx := do(s.Handler(), fasthttp.MethodGet, "/api/intents", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var got intentsResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
	require.NotEmpty(t, got.Intents)
	assert.Equal(t, core.IntentPersonalLife, got.Intents[0].Intent)
	assert.Equal(t, core.IntentGeneral, got.Intents[len(got.Intents)-1].Intent)
	assert.Contains(t, got.Topics, "هوش مصنوعی")
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	h := s.Handler()
	do(h, fasthttp.MethodPost, "/api/ask", `{"question": "سلام"}`)

	ctx := do(h, fasthttp.MethodGet, "/api/health", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var got healthResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &got))
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, 1, got.Records)
	assert.Equal(t, int64(1), got.Stats.TotalQuestions)
	assert.GreaterOrEqual(t, got.UptimeSeconds, 0.0)
}

func TestServer_ListKnowledge(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	ctx := do(s.Handler(), fasthttp.MethodGet, "/api/knowledge", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var records []core.KnowledgeRecord
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "رامین اجلال", records[0].Name)
}

func TestServer_AddKnowledgeDisabled(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	ctx := do(s.Handler(), fasthttp.MethodPost, "/api/knowledge", `{"name": "سارا محمدی"}`)
	assert.Equal(t, fasthttp.StatusForbidden, ctx.Response.StatusCode())
	assert.Equal(t, 1, s.engine.Dossier().Len())
}

func TestServer_AddKnowledge(t *testing.T) {
	cfg := testConfig()
	cfg.AllowKnowledgeWrites = true
	s, _ := newTestServer(t, cfg)
	h := s.Handler()

	body := `{"name": "  سارا   محمدی ", "profession": "معمار", "expertise": ["طراحی شهری"], "projects": ["موزه"]}`
	ctx := do(h, fasthttp.MethodPost, "/api/knowledge", body)
	require.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())

	var saved core.KnowledgeRecord
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &saved))
	assert.Equal(t, "سارا محمدی", saved.Name)
	assert.Equal(t, []string{"طراحی شهری"}, saved.Expertise)

	ask := do(h, fasthttp.MethodPost, "/api/ask", `{"question": "سارا محمدی کیست؟"}`)
	answer := decodeAnswer(t, ask)
	assert.True(t, answer.Metadata.LookupFound)
	assert.Contains(t, answer.Response, "معمار")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"duplicate", `{"name": "سارا محمدی"}`, fasthttp.StatusConflict},
		{"empty name", `{"name": "  "}`, fasthttp.StatusBadRequest},
		{"invalid json", `{"name":`, fasthttp.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := do(h, fasthttp.MethodPost, "/api/knowledge", tt.body)
			assert.Equal(t, tt.want, ctx.Response.StatusCode())
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	h := s.Handler()
	do(h, fasthttp.MethodPost, "/api/ask", `{"question": "سلام"}`)

	ctx := do(h, fasthttp.MethodGet, "/metrics", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `natiq_questions_total{intent="greeting"} 1`)
}

func TestServer_MetricsDisabled(t *testing.T) {
	s, err := NewServer(testConfig(), Dependencies{Engine: newTestEngine(t, nil)})
	require.NoError(t, err)

	ctx := do(s.Handler(), fasthttp.MethodGet, "/metrics", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 0.001
	cfg.RateBurst = 2
	s, _ := newTestServer(t, cfg)
	h := s.Handler()

	ask := func(ip string) int {
		return doFrom(h, ip, fasthttp.MethodPost, "/api/ask", `{"question": "سلام"}`).Response.StatusCode()
	}

	assert.Equal(t, fasthttp.StatusOK, ask("10.0.0.7"))
	assert.Equal(t, fasthttp.StatusOK, ask("10.0.0.7"))
	assert.Equal(t, fasthttp.StatusTooManyRequests, ask("10.0.0.7"))
	assert.Equal(t, fasthttp.StatusOK, ask("10.0.0.8"))

	// سلامت و متریک‌ها محدود نمی‌شوند
	health := doFrom(h, "10.0.0.7", fasthttp.MethodGet, "/api/health", "")
	assert.Equal(t, fasthttp.StatusOK, health.Response.StatusCode())

	metrics := doFrom(h, "10.0.0.7", fasthttp.MethodGet, "/metrics", "")
	assert.Contains(t, string(metrics.Response.Body()), "natiq_rate_limited_total 1")
}

func TestServer_ServeAndShutdown(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ln) }()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://" + ln.Addr().String() + "/api/health")
	req.SetConnectionClose()
	require.NoError(t, fasthttp.DoTimeout(req, resp, 2*time.Second))
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
