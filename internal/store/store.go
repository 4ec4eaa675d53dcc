// Package store holds the entity stores: state containers that each own
// one in-memory collection and synchronize it through the repository
// layer. Every store follows the same contract: a loading flag is up
// while a gateway call is in flight, failures set a human-readable
// error string AND return the error, and a failed fetch leaves the
// prior collection untouched. Stores never read each other's
// collections; cross-entity references are resolved at the API layer.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/persistence"
	apperrors "github.com/civic-kit/complaint-service/pkg/util"
)

// base carries the pieces every entity store shares: the loading/error
// state, the per-call gateway deadline, and the optional snapshot
// cache. The embedding store's collection is guarded by the same mutex.
type base struct {
	name      string
	timeout   time.Duration
	snapshots *persistence.SnapshotCache
	logger    *zap.Logger

	mu       sync.RWMutex
	inflight int
	lastErr  string
}

func newBase(name string, timeout time.Duration, snapshots *persistence.SnapshotCache, logger *zap.Logger) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{name: name, timeout: timeout, snapshots: snapshots, logger: logger}
}

// begin marks an operation in flight. Concurrent operations are
// counted, not serialized: stores never coordinate or block each other,
// and two rapid calls to the same operation both proceed.
func (b *base) begin() {
	b.mu.Lock()
	b.inflight++
	b.mu.Unlock()
}

// finish ends an operation. On failure the error is normalized to a
// DomainError, recorded as the store's error string, and returned so
// the caller can also decide whether to surface it.
func (b *base) finish(err error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inflight--
	if err == nil {
		return nil
	}
	mapped := apperrors.ToDomainError(err)
	b.lastErr = mapped.Message
	b.logger.Warn("store operation failed",
		zap.String("store", b.name),
		zap.String("code", mapped.Code),
		zap.Error(mapped))
	return mapped
}

// Loading reports whether any operation is in flight.
func (b *base) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.inflight > 0
}

// Err returns the last recorded error message, empty when none.
func (b *base) Err() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

// ClearError resets the error string; callers use it before retrying.
func (b *base) ClearError() {
	b.mu.Lock()
	b.lastErr = ""
	b.mu.Unlock()
}

// withDeadline bounds a gateway call. A hung call surfaces as a
// GATEWAY_TIMEOUT error instead of leaving the store loading forever.
func (b *base) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}

// saveSnapshot caches the collection best-effort. The database remains
// the source of truth; snapshot failures are logged and swallowed.
func (b *base) saveSnapshot(collection any) {
	if b.snapshots == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := b.snapshots.Save(ctx, b.name, collection); err != nil {
		b.logger.Debug("snapshot save failed", zap.String("store", b.name), zap.Error(err))
	}
}

// loadSnapshot restores a cached collection into dest, reporting
// whether anything was loaded.
func (b *base) loadSnapshot(ctx context.Context, dest any) bool {
	if b.snapshots == nil {
		return false
	}
	if err := b.snapshots.Load(ctx, b.name, dest); err != nil {
		if err != persistence.ErrSnapshotMiss {
			b.logger.Debug("snapshot load failed", zap.String("store", b.name), zap.Error(err))
		}
		return false
	}
	return true
}
