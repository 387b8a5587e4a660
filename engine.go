package todobackend

import (
	"context"
	"time"

	"github.com/vimalpatra/todo-backend/abuse"
	"github.com/vimalpatra/todo-backend/docstore"
	"github.com/vimalpatra/todo-backend/jwt"
	"github.com/vimalpatra/todo-backend/password"
)

// Engine is the assembled backend core: credential verification, session
// storage, token issuance and abuse tracking behind one handle. Build one
// with [New] and treat it as immutable afterwards.
type Engine struct {
	config       Config
	store        *docstore.Store
	users        *userStore
	tracker      *abuse.Tracker
	jwtManager   *jwt.Manager
	passwordHash *password.Argon2
	audit        *auditDispatcher
	metrics      *Metrics
}

// Documents exposes the underlying document store so the host application
// can keep its own collections in the same namespace.
func (e *Engine) Documents() *docstore.Store {
	return e.store
}

// Close flushes and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.IP == "" {
		event.IP = clientIPFromContext(ctx)
	}
	e.audit.Emit(ctx, event)
}
