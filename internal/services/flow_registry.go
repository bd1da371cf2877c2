package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careline-platform/service-dashboard/internal/workflow"
)

// FlowRegistryConfig holds configuration for the flow registry.
type FlowRegistryConfig struct {
	TTL           time.Duration // How long an untouched flow survives
	SweepInterval time.Duration // How often to evict idle flows
}

// FlowRegistry keeps the in-progress refund workflows, one per started
// form, keyed by flow id and scoped to the owning user. A workflow is
// confined to one user's dashboard session; idle flows are evicted after
// the TTL.
type FlowRegistry struct {
	config FlowRegistryConfig
	logger *zap.Logger

	mu    sync.Mutex
	flows map[uuid.UUID]*flowEntry

	// Lifecycle management
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

type flowEntry struct {
	flow    *workflow.RefundFlow
	owner   string
	touched time.Time
}

// NewFlowRegistry creates a new flow registry.
func NewFlowRegistry(cfg FlowRegistryConfig, logger *zap.Logger) *FlowRegistry {
	if cfg.TTL == 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FlowRegistry{
		config:   cfg,
		logger:   logger,
		flows:    make(map[uuid.UUID]*flowEntry),
		stopChan: make(chan struct{}),
	}
}

// Put registers a flow for the owner and returns its id.
func (r *FlowRegistry) Put(owner string, flow *workflow.RefundFlow) uuid.UUID {
	id := uuid.New()

	r.mu.Lock()
	r.flows[id] = &flowEntry{flow: flow, owner: owner, touched: time.Now()}
	r.mu.Unlock()

	r.logger.Debug("Flow registered",
		zap.String("flow_id", id.String()),
		zap.String("case_id", flow.CaseID()))
	return id
}

// Get returns the owner's flow by id. Flows belonging to another user
// are invisible.
func (r *FlowRegistry) Get(owner string, id uuid.UUID) (*workflow.RefundFlow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.flows[id]
	if !ok || entry.owner != owner {
		return nil, false
	}
	entry.touched = time.Now()
	return entry.flow, true
}

// Remove discards the owner's flow, returning whether it existed. Used
// by the cancel control and after a completed submission.
func (r *FlowRegistry) Remove(owner string, id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.flows[id]
	if !ok || entry.owner != owner {
		return false
	}
	delete(r.flows, id)
	return true
}

// Len returns the number of live flows.
func (r *FlowRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.flows)
}

// Start launches the background eviction loop.
func (r *FlowRegistry) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.config.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stopChan:
				return
			case <-ticker.C:
				r.sweep()
			}
		}
	}()
}

// Stop terminates the eviction loop and waits for it to exit.
func (r *FlowRegistry) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopChan)
	r.wg.Wait()
}

// sweep evicts flows untouched for longer than the TTL.
func (r *FlowRegistry) sweep() {
	cutoff := time.Now().Add(-r.config.TTL)

	r.mu.Lock()
	evicted := 0
	for id, entry := range r.flows {
		if entry.touched.Before(cutoff) {
			delete(r.flows, id)
			evicted++
		}
	}
	r.mu.Unlock()

	if evicted > 0 {
		r.logger.Debug("Evicted idle refund flows", zap.Int("count", evicted))
	}
}
