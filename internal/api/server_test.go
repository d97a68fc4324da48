package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimmerbailey/clarifier/internal/gate"
	"github.com/bimmerbailey/clarifier/internal/llm"
	"github.com/bimmerbailey/clarifier/internal/recommend"
)

// fakeProvider implements llm.Provider for testing.
type fakeProvider struct {
	content string
	err     error
}

func (f *fakeProvider) Chat(_ context.Context, _ []llm.Message, opts *llm.ChatOptions) (*llm.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: f.content, Model: opts.Model}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestServer(t *testing.T, p llm.Provider, mutate func(*Options)) http.Handler {
	t.Helper()
	svc, err := recommend.NewService(p, quietLogger(), 0)
	require.NoError(t, err)

	opts := Options{
		Gate:         gate.New("abc"),
		Recommender:  svc,
		ModelID:      "anthropic.claude-3",
		Strategy:     "local",
		ProviderName: p.Name(),
		ConfigSource: "environment",
	}
	if mutate != nil {
		mutate(&opts)
	}
	s, err := NewServer(opts, quietLogger())
	require.NoError(t, err)
	return s.Handler()
}

func post(t *testing.T, h http.Handler, path, key, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(gate.HeaderName, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

const okReply = `{"recommended_objective":"Reduce p95 login latency below 1s","rationale":"adds a metric"}`

func TestRecommendation_Success(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &fakeProvider{content: okReply}, nil)
	rec := post(t, h, "/recommendation", "abc", `{"objective":"make login faster","context":"mobile"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp recommend.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "make login faster", resp.Objective)
	assert.Equal(t, "Reduce p95 login latency below 1s", resp.RecommendedObjective)
	assert.Equal(t, "anthropic.claude-3", resp.ModelID)
	assert.NotEmpty(t, resp.ID)
}

func TestRecommendation_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		provider   *fakeProvider
		mutate     func(*Options)
		key        string
		body       string
		wantStatus int
		wantDetail string
	}{
		{
			name:       "wrong key",
			provider:   &fakeProvider{content: okReply},
			key:        "abcd",
			body:       `{"objective":"x"}`,
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Invalid API key",
		},
		{
			name:       "missing key",
			provider:   &fakeProvider{content: okReply},
			body:       `{"objective":"x"}`,
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Invalid API key",
		},
		{
			name:       "model not configured",
			provider:   &fakeProvider{content: okReply},
			mutate:     func(o *Options) { o.ModelID = "" },
			key:        "abc",
			body:       `{"objective":"x"}`,
			wantStatus: http.StatusInternalServerError,
			wantDetail: "BEDROCK_MODEL_ID is not configured",
		},
		{
			name:       "invalid json",
			provider:   &fakeProvider{content: okReply},
			key:        "abc",
			body:       `{"objective":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "blank objective",
			provider:   &fakeProvider{content: okReply},
			key:        "abc",
			body:       `{"objective":"   "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "provider failure",
			provider:   &fakeProvider{err: llm.ErrProviderUnavailable},
			key:        "abc",
			body:       `{"objective":"x"}`,
			wantStatus: http.StatusBadGateway,
			wantDetail: "inference failed",
		},
		{
			name:       "unusable reply",
			provider:   &fakeProvider{content: "sorry"},
			key:        "abc",
			body:       `{"objective":"x"}`,
			wantStatus: http.StatusBadGateway,
			wantDetail: "inference failed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newTestServer(t, tt.provider, tt.mutate)
			rec := post(t, h, "/recommendation", tt.key, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			got := detail(t, rec)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, got)
			} else {
				assert.NotEmpty(t, got)
			}
		})
	}
}

func TestRecommendation_OpenGate(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &fakeProvider{content: okReply}, func(o *Options) { o.Gate = gate.New("") })
	rec := post(t, h, "/recommendation", "", `{"objective":"x"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecommendation_EnvPrefix(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &fakeProvider{content: okReply}, func(o *Options) { o.EnvPrefix = "Staging" })

	assert.Equal(t, http.StatusOK, post(t, h, "/staging/recommendation", "abc", `{"objective":"x"}`).Code)
	assert.Equal(t, http.StatusOK, post(t, h, "/recommendation", "abc", `{"objective":"x"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(t, h, "/staging/recommendation", "", `{"objective":"x"}`).Code)
}

func TestRecommendation_NoEnvPrefix(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &fakeProvider{content: okReply}, nil)
	rec := post(t, h, "/staging/recommendation", "abc", `{"objective":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &fakeProvider{}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, healthResponse{Status: "ok", Strategy: "local", Provider: "fake", ConfigSource: "environment"}, body)
}

func TestNewServer_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewServer(Options{}, quietLogger())
	assert.Error(t, err)

	svc, err := recommend.NewService(&fakeProvider{}, quietLogger(), 0)
	require.NoError(t, err)
	_, err = NewServer(Options{Gate: gate.New(""), Recommender: svc}, nil)
	assert.Error(t, err)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	svc, err := recommend.NewService(&fakeProvider{}, quietLogger(), 0)
	require.NoError(t, err)
	s, err := NewServer(Options{Gate: gate.New(""), Recommender: svc, ShutdownTimeout: time.Second}, quietLogger())
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// blockingProvider holds each Chat call until release is closed.
type blockingProvider struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingProvider) Chat(ctx context.Context, _ []llm.Message, opts *llm.ChatOptions) (*llm.Response, error) {
	close(b.started)
	select {
	case <-b.release:
		return &llm.Response{Content: okReply, Model: opts.Model}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *blockingProvider) Name() string { return "blocking" }

func TestServe_DrainsInFlightRequests(t *testing.T) {
	t.Parallel()

	p := &blockingProvider{started: make(chan struct{}), release: make(chan struct{})}
	svc, err := recommend.NewService(p, quietLogger(), 0)
	require.NoError(t, err)
	s, err := NewServer(Options{
		Gate:            gate.New(""),
		Recommender:     svc,
		ModelID:         "anthropic.claude-3",
		ShutdownTimeout: 5 * time.Second,
	}, quietLogger())
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, listener) }()

	type result struct {
		status int
		err    error
	}
	results := make(chan result, 1)
	go func() {
		resp, err := http.Post("http://"+listener.Addr().String()+"/recommendation",
			"application/json", strings.NewReader(`{"objective":"make login faster"}`))
		if err != nil {
			results <- result{err: err}
			return
		}
		resp.Body.Close()
		results <- result{status: resp.StatusCode}
	}()

	select {
	case <-p.started:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the provider")
	}

	cancel()
	time.Sleep(50 * time.Millisecond)
	close(p.release)

	select {
	case r := <-results:
		require.NoError(t, r.err)
		assert.Equal(t, http.StatusOK, r.status)
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight request did not complete")
	}

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
