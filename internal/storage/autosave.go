package storage

import (
	"context"
	"sync"
	"time"

	"github.com/provek/interview-sim/internal/entity"
	"go.uber.org/zap"
)

// Autosaver persists session snapshots in the background: a short debounce
// after every change plus a periodic sweep, so a crash loses at most a few
// seconds of interview. Sessions still on the landing screen are not worth
// persisting and are skipped.
type Autosaver struct {
	store    Store
	interval time.Duration
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	pending map[string]*entity.Session

	notifyCh chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
}

func NewAutosaver(store Store, interval, debounce time.Duration, logger *zap.Logger) *Autosaver {
	return &Autosaver{
		store:    store,
		interval: interval,
		debounce: debounce,
		logger:   logger,
		pending:  make(map[string]*entity.Session),
		notifyCh: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (a *Autosaver) Start() {
	a.wg.Add(1)
	go a.run()
}

// Notify queues a session snapshot for the next flush. The session is
// cloned so later engine mutations cannot race the write.
func (a *Autosaver) Notify(session *entity.Session) {
	if session == nil || session.CurrentState == entity.StateLanding {
		return
	}

	a.mu.Lock()
	a.pending[session.ID] = session.Clone()
	a.mu.Unlock()

	select {
	case a.notifyCh <- struct{}{}:
	default:
	}
}

// Stop flushes anything still pending and shuts the loop down.
func (a *Autosaver) Stop(ctx context.Context) {
	close(a.done)
	a.wg.Wait()
	a.flush(ctx)
}

func (a *Autosaver) run() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	debounce := time.NewTimer(a.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-a.notifyCh:
			debounce.Reset(a.debounce)
		case <-debounce.C:
			a.flush(context.Background())
		case <-ticker.C:
			a.flush(context.Background())
		case <-a.done:
			return
		}
	}
}

func (a *Autosaver) flush(ctx context.Context) {
	a.mu.Lock()
	batch := a.pending
	a.pending = make(map[string]*entity.Session)
	a.mu.Unlock()

	for id, session := range batch {
		if err := a.store.Save(ctx, session); err != nil {
			a.logger.Error("autosave failed",
				zap.String("session_id", id),
				zap.Error(err),
			)
		}
	}
}
