package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/datallboy/gotube/internal/api/controllers"
	"github.com/datallboy/gotube/internal/app"
	"github.com/datallboy/gotube/internal/domain"
	"github.com/datallboy/gotube/internal/engine"
	"github.com/datallboy/gotube/internal/infra/config"
	"github.com/datallboy/gotube/internal/resolver"
	"github.com/labstack/echo/v5"
)

type nopLog struct{}

func (nopLog) Debug(string, ...any)    {}
func (nopLog) Info(string, ...any)     {}
func (nopLog) Warn(string, ...any)     {}
func (nopLog) Error(string, ...any)    {}
func (nopLog) Progress(string, ...any) {}

type fakeRunner struct {
	submitted []engine.BatchRequest
	channels  []string
	active    map[string]bool
}

func (r *fakeRunner) Submit(req engine.BatchRequest, channel string) string {
	r.submitted = append(r.submitted, req)
	r.channels = append(r.channels, channel)
	return "run-1"
}

func (r *fakeRunner) Cancel(id string) bool {
	return r.active[id]
}

func (r *fakeRunner) Active() []engine.ActiveRun {
	var runs []engine.ActiveRun
	for id := range r.active {
		runs = append(runs, engine.ActiveRun{ID: id, Targets: 2, StartedAt: time.Now()})
	}
	return runs
}

type fakePlanner struct {
	channel string
	mode    resolver.Mode
}

func (p *fakePlanner) Plan(ctx context.Context, channelURL string, mode resolver.Mode, cookies domain.CookieConfig) ([]domain.Phase, error) {
	p.channel, p.mode = channelURL, mode
	return domain.SinglePhase(domain.NewTargets("https://yt/playlist?list=P")), nil
}

type fakeStore struct {
	runs map[string]*domain.Run
}

func (s *fakeStore) CreateRun(ctx context.Context, run *domain.Run) error     { return nil }
func (s *fakeStore) FinishRun(ctx context.Context, run *domain.Run) error     { return nil }
func (s *fakeStore) SaveJob(ctx context.Context, job *domain.JobResult) error { return nil }
func (s *fakeStore) Close() error                                             { return nil }

func (s *fakeStore) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	if r, ok := s.runs[id]; ok {
		return r, nil
	}
	return nil, domain.ErrRunNotFound
}

func (s *fakeStore) ListRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	var out []*domain.Run
	for _, r := range s.runs {
		out = append(out, r)
	}
	return out, nil
}

type testServer struct {
	e       *echo.Echo
	runner  *fakeRunner
	planner *fakePlanner
	app     *app.Context
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Download: config.DownloadConfig{
			OutDir:        t.TempDir(),
			Quality:       "1080p",
			AudioFormat:   "mp3",
			Fragments:     4,
			Parallel:      2,
			PlaylistStart: 2,
			PlaylistEnd:   8,
			RetryUnit:     time.Second,
			MaxAttempts:   3,
		},
		Engine: config.EngineConfig{UseAria2c: true},
	}

	appCtx := app.NewContext(cfg, nopLog{})
	appCtx.Tools.Aria2c = "/usr/bin/aria2c"
	appCtx.Store = &fakeStore{runs: map[string]*domain.Run{
		"abc": {ID: "abc", Status: domain.RunCompleted, Jobs: []domain.JobResult{{ID: "j1", Outcome: domain.OutcomeOK}}},
	}}

	s := &testServer{
		e:       echo.New(),
		runner:  &fakeRunner{active: map[string]bool{"live": true}},
		planner: &fakePlanner{},
		app:     appCtx,
	}
	RegisterRoutes(s.e, appCtx, s.runner, s.planner)
	return s
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func TestListRuns(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/runs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp controllers.RunListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Runs) != 1 || resp.Runs[0].ID != "abc" {
		t.Errorf("unexpected runs: %+v", resp.Runs)
	}

	if rec := s.do(http.MethodGet, "/api/runs?limit=zero", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", rec.Code)
	}
}

func TestGetRun(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/runs/abc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var run domain.Run
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatal(err)
	}
	if run.ID != "abc" || len(run.Jobs) != 1 {
		t.Errorf("unexpected run: %+v", run)
	}

	if rec := s.do(http.MethodGet, "/api/runs/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing run status = %d", rec.Code)
	}
}

func TestHistoryDisabled(t *testing.T) {
	s := newTestServer(t)
	s.app.Store = nil

	if rec := s.do(http.MethodGet, "/api/runs", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSubmitURLs(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/batches", `{"urls":["https://yt/watch?v=1"," ","https://yt/playlist?list=A"],"quality":"audio"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var resp controllers.SubmitResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID != "run-1" {
		t.Errorf("id = %q", resp.ID)
	}

	req := s.runner.submitted[0]
	if len(req.Phases) != 1 || len(req.Phases[0].Targets) != 2 {
		t.Errorf("unexpected phases: %+v", req.Phases)
	}
	if !req.Options.AudioOnly || req.Options.PlaylistStart != 2 {
		t.Errorf("unexpected options: %+v", req.Options)
	}
	if req.Aria2cPath != "/usr/bin/aria2c" {
		t.Errorf("aria2c not wired: %q", req.Aria2cPath)
	}
}

func TestSubmitChannelAll(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/batches", `{"channel":"https://yt/@c","mode":"all"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	req := s.runner.submitted[0]
	if req.Plan == nil || req.Phases != nil {
		t.Fatal("channel batches are planned lazily")
	}
	if req.Options.PlaylistStart != 0 || req.Options.PlaylistEnd != 0 {
		t.Error("full-channel mode ignores the playlist range")
	}
	if s.runner.channels[0] != "https://yt/@c" {
		t.Errorf("channel = %q", s.runner.channels[0])
	}

	phases, err := req.Plan(context.Background(), domain.CookieConfig{})
	if err != nil || len(phases) != 1 {
		t.Fatalf("plan failed: %v %v", phases, err)
	}
	if s.planner.channel != "https://yt/@c" || s.planner.mode != resolver.ModeAll {
		t.Errorf("planner called with %q %q", s.planner.channel, s.planner.mode)
	}
}

func TestSubmitValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"empty", `{"urls":[]}`},
		{"blank urls", `{"urls":["  "]}`},
		{"bad mode", `{"channel":"https://yt/@c","mode":"shorts"}`},
	}
	for _, tt := range tests {
		if rec := s.do(http.MethodPost, "/api/batches", tt.body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", tt.name, rec.Code)
		}
	}
	if len(s.runner.submitted) != 0 {
		t.Error("invalid requests must not be queued")
	}
}

func TestSubmitMissingCookieFile(t *testing.T) {
	s := newTestServer(t)
	s.app.Config.Cookies = config.CookieConfig{Mode: "file", Value: filepath.Join(t.TempDir(), "nope.txt")}

	rec := s.do(http.MethodPost, "/api/batches", `{"urls":["https://yt/watch?v=1"]}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "cookie") {
		t.Errorf("status = %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCancelAndActive(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(http.MethodDelete, "/api/batches/live", ""); rec.Code != http.StatusAccepted {
		t.Errorf("cancel live status = %d", rec.Code)
	}
	if rec := s.do(http.MethodDelete, "/api/batches/gone", ""); rec.Code != http.StatusNotFound {
		t.Errorf("cancel unknown status = %d", rec.Code)
	}

	rec := s.do(http.MethodGet, "/api/active", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp controllers.ActiveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Runs) != 1 || resp.Runs[0].ID != "live" {
		t.Errorf("unexpected active runs: %+v", resp.Runs)
	}
}
