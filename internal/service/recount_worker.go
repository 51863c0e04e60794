package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MukkuChemjong/youtube-api/internal/repository"
)

// RecountWorker listens for PostgreSQL NOTIFY on the 'whitelist_changes'
// channel and batches total_channels recounts per owner. The synchronous
// recount after each mutation usually lands first; this worker is the
// convergence path for recounts that raced a concurrent mutation or were
// lost to a crashed request.
type RecountWorker struct {
	pool    *pgxpool.Pool
	prefs   *repository.PreferencesRepo
	cache   *CacheService
	batchMs time.Duration

	mu      sync.Mutex
	pending map[string]struct{} // owner IDs waiting for a recount
}

// NewRecountWorker creates a recount worker with the given batch window.
func NewRecountWorker(pool *pgxpool.Pool, prefs *repository.PreferencesRepo, cache *CacheService, batchWindow time.Duration) *RecountWorker {
	if batchWindow <= 0 {
		batchWindow = 2 * time.Second
	}
	return &RecountWorker{
		pool:    pool,
		prefs:   prefs,
		cache:   cache,
		batchMs: batchWindow,
		pending: make(map[string]struct{}),
	}
}

// Start begins listening for whitelist_changes notifications and processing
// batches. Blocks until the context is cancelled.
func (w *RecountWorker) Start(ctx context.Context) {
	log.Printf("recount-worker: starting (batch window=%s)", w.batchMs)

	for {
		if err := w.listenLoop(ctx); err != nil {
			if ctx.Err() != nil {
				log.Println("recount-worker: stopping (context cancelled)")
				return
			}
			log.Printf("recount-worker: listen error, reconnecting in 5s: %v", err)
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				log.Println("recount-worker: stopping (context cancelled)")
				return
			}
		}
	}
}

// listenLoop acquires a dedicated connection, LISTENs on whitelist_changes,
// and accumulates owner ids for the flush loop.
func (w *RecountWorker) listenLoop(ctx context.Context) error {
	conn, err := w.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, "LISTEN whitelist_changes")
	if err != nil {
		return err
	}
	log.Println("recount-worker: listening on whitelist_changes")

	flushCtx, flushCancel := context.WithCancel(ctx)
	defer flushCancel()
	go w.flushLoop(flushCtx)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		owner := notification.Payload
		if owner == "" {
			continue
		}

		w.mu.Lock()
		w.pending[owner] = struct{}{}
		w.mu.Unlock()
	}
}

// flushLoop periodically drains the pending set and recounts.
func (w *RecountWorker) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(w.batchMs)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			// Final flush before exit
			w.flush(context.Background())
			return
		}
	}
}

// flush drains the pending set and recomputes each owner's total.
func (w *RecountWorker) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}

	// Swap out the pending map
	batch := w.pending
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	recounted := 0
	for owner := range batch {
		if _, err := w.prefs.RecomputeTotalChannels(ctx, owner); err != nil {
			log.Printf("recount-worker: recount error for owner: %v", err)
			continue
		}

		if w.cache != nil {
			if err := w.cache.InvalidateOwner(ctx, owner); err != nil {
				log.Printf("recount-worker: cache invalidate error: %v", err)
			}
		}

		recounted++
	}

	if recounted > 0 {
		log.Printf("recount-worker: batch complete — %d owners recounted (from %d notifications)",
			recounted, len(batch))
	}
}
