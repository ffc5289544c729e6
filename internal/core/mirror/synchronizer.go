package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dashblogger/admin-console/internal/api/metrics"
	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/ports"
)

const (
	DefaultFallbackLimit = 100
	updatesBuffer        = 16
)

var ErrAlreadySubscribed = errors.New("synchronizer already subscribed")

// LoadMode reports which step of the snapshot load succeeded.
type LoadMode string

const (
	LoadFull    LoadMode = "full"
	LoadPartial LoadMode = "partial"
	LoadEmpty   LoadMode = "empty"
)

// LoadResult describes the outcome of LoadSnapshot.
type LoadResult struct {
	Count int      `json:"count"`
	Mode  LoadMode `json:"mode"`
}

// Event is emitted on Updates after a notification changed the mirror.
type Event struct {
	Change domain.Change
	Size   int
}

// Synchronizer loads the users collection into a Mirror and keeps it current
// from a single change stream.
type Synchronizer struct {
	store         ports.UserStore
	mirror        *Mirror
	fallbackLimit int
	log           zerolog.Logger

	updates chan Event

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSynchronizer creates a Synchronizer feeding m from store. A
// fallbackLimit <= 0 selects DefaultFallbackLimit.
func NewSynchronizer(store ports.UserStore, m *Mirror, fallbackLimit int, log zerolog.Logger) *Synchronizer {
	if fallbackLimit <= 0 {
		fallbackLimit = DefaultFallbackLimit
	}
	return &Synchronizer{
		store:         store,
		mirror:        m,
		fallbackLimit: fallbackLimit,
		log:           log,
		updates:       make(chan Event, updatesBuffer),
	}
}

// Mirror returns the mirror this synchronizer feeds.
func (s *Synchronizer) Mirror() *Mirror { return s.mirror }

// Updates delivers one Event per effective mirror change. When the reader
// falls behind, the oldest pending events are dropped; every event is a
// signal to re-derive views from the whole mirror, so only the latest matters.
func (s *Synchronizer) Updates() <-chan Event { return s.updates }

// LoadSnapshot fills the mirror with the full collection. When that fails it
// retries once with the first fallbackLimit records, and when that fails too
// the mirror is cleared and the joined error is returned. The mirror is usable
// in every case.
func (s *Synchronizer) LoadSnapshot(ctx context.Context) (LoadResult, error) {
	users, err := s.store.List(ctx, 0)
	if err == nil {
		return s.loaded(users, LoadFull), nil
	}
	s.log.Warn().Err(err).Msg("full user load failed, trying partial load")

	users, ferr := s.store.List(ctx, s.fallbackLimit)
	if ferr == nil {
		return s.loaded(users, LoadPartial), nil
	}

	s.mirror.Clear()
	metrics.MirrorSnapshotLoadsTotal.WithLabelValues(string(LoadEmpty)).Inc()
	metrics.MirrorUsers.Set(0)
	return LoadResult{Mode: LoadEmpty}, fmt.Errorf("load snapshot: %w", errors.Join(err, ferr))
}

func (s *Synchronizer) loaded(users []*domain.User, mode LoadMode) LoadResult {
	s.mirror.Load(users)
	n := s.mirror.Len()
	metrics.MirrorSnapshotLoadsTotal.WithLabelValues(string(mode)).Inc()
	metrics.MirrorUsers.Set(float64(n))
	s.log.Info().Int("users", n).Str("mode", string(mode)).Msg("user snapshot loaded")
	return LoadResult{Count: n, Mode: mode}
}

// Start opens the change stream, then loads the snapshot, then applies the
// notifications that queued up meanwhile. A write committed while the
// snapshot is read is either in it or replayed on top of it. A failed
// snapshot is logged and leaves the mirror empty; only a failed subscription
// is returned.
func (s *Synchronizer) Start(ctx context.Context) (LoadResult, error) {
	loaded := make(chan struct{})
	if err := s.subscribe(ctx, loaded); err != nil {
		return LoadResult{}, err
	}
	res, err := s.LoadSnapshot(ctx)
	close(loaded)
	if err != nil {
		s.log.Error().Err(err).Msg("user snapshot unavailable")
	}
	return res, nil
}

// Subscribe opens the change stream and applies notifications on a single
// goroutine until Unsubscribe is called, ctx ends or the store closes the
// stream.
func (s *Synchronizer) Subscribe(ctx context.Context) error {
	return s.subscribe(ctx, nil)
}

func (s *Synchronizer) subscribe(ctx context.Context, hold <-chan struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrAlreadySubscribed
	}

	watchCtx, cancel := context.WithCancel(ctx)
	changes, err := s.store.Watch(watchCtx)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe: %w", err)
	}

	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	go s.consume(watchCtx, changes, hold, done)
	return nil
}

// Unsubscribe stops the change stream and waits for the consumer to exit. It
// is safe to call when not subscribed and to call more than once.
func (s *Synchronizer) Unsubscribe() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Subscribed reports whether a change stream is attached and still open.
func (s *Synchronizer) Subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Synchronizer) consume(ctx context.Context, changes <-chan domain.Change, hold <-chan struct{}, done chan struct{}) {
	defer close(done)
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return
		}
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ch, ok := <-changes:
			if !ok {
				if ctx.Err() == nil {
					s.log.Warn().Msg("user change stream closed")
				}
				s.detach(done)
				return
			}
			s.handle(ch)
		}
	}
}

// detach releases the subscription owned by done, unless Unsubscribe or a
// newer Subscribe already replaced it.
func (s *Synchronizer) detach(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != done {
		return
	}
	s.cancel()
	s.cancel, s.done = nil, nil
}

func (s *Synchronizer) handle(ch domain.Change) {
	if !s.mirror.Apply(ch) {
		metrics.MirrorNotificationsTotal.WithLabelValues(string(ch.Kind), "ignored").Inc()
		s.log.Debug().Str("kind", string(ch.Kind)).Str("uid", ch.ID).Msg("notification ignored")
		return
	}

	size := s.mirror.Len()
	metrics.MirrorNotificationsTotal.WithLabelValues(string(ch.Kind), "applied").Inc()
	metrics.MirrorUsers.Set(float64(size))

	ev := Event{Change: ch, Size: size}
	select {
	case s.updates <- ev:
	default:
		// single producer: after dropping the oldest there is room
		select {
		case <-s.updates:
		default:
		}
		s.updates <- ev
	}
}
