package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/datallboy/gotube/internal/app"
	"github.com/segmentio/ksuid"
)

// ActiveRun describes a batch that is still running.
type ActiveRun struct {
	ID        string    `json:"id"`
	Targets   int       `json:"targets"`
	Channel   string    `json:"channel,omitempty"`
	StartedAt time.Time `json:"started_at"`
	Stopping  bool      `json:"stopping"`
}

type activeRun struct {
	info   ActiveRun
	cancel context.CancelFunc
}

// RunManager runs submitted batches in the background, each with its own
// cancel func so it can be stopped by ID.
type RunManager struct {
	mu     sync.RWMutex
	batch  *Batch
	log    app.Logger
	active map[string]*activeRun
	wg     sync.WaitGroup

	baseCtx context.Context
}

// NewRunManager ties every submitted run to ctx, so cancelling ctx stops them all.
func NewRunManager(ctx context.Context, appCtx *app.Context, batch *Batch) *RunManager {
	return &RunManager{
		batch:   batch,
		log:     appCtx.Logger,
		active:  make(map[string]*activeRun),
		baseCtx: ctx,
	}
}

// Submit starts req in the background and returns its run ID. channel is
// only used for display.
func (m *RunManager) Submit(req BatchRequest, channel string) string {
	if req.RunID == "" {
		req.RunID = ksuid.New().String()
	}

	targets := 0
	for _, p := range req.Phases {
		targets += len(p.Targets)
	}

	runCtx, cancel := context.WithCancel(m.baseCtx)
	ar := &activeRun{
		info: ActiveRun{
			ID:        req.RunID,
			Targets:   targets,
			Channel:   channel,
			StartedAt: time.Now(),
		},
		cancel: cancel,
	}

	m.mu.Lock()
	m.active[req.RunID] = ar
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()

		if _, err := m.batch.Run(runCtx, req); err != nil {
			m.log.Error("Run %s aborted: %v", req.RunID, err)
		}

		m.mu.Lock()
		delete(m.active, req.RunID)
		m.mu.Unlock()
	}()

	return req.RunID
}

// Cancel requests a cooperative stop. It returns false for unknown or finished runs.
func (m *RunManager) Cancel(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	ar, ok := m.active[id]
	if !ok {
		return false
	}

	ar.info.Stopping = true
	ar.cancel()
	return true
}

// Active returns a snapshot of running batches, oldest first.
func (m *RunManager) Active() []ActiveRun {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]ActiveRun, 0, len(m.active))
	for _, ar := range m.active {
		runs = append(runs, ar.info)
	}

	// KSUIDs sort chronologically
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].ID < runs[j].ID
	})
	return runs
}

// Wait blocks until every submitted run has returned.
func (m *RunManager) Wait() {
	m.wg.Wait()
}

