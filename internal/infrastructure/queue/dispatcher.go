package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dashblogger/admin-console/internal/api/metrics"
	"github.com/dashblogger/admin-console/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

var (
	ErrQueueFull    = errors.New("verification queue full")
	ErrQueueStopped = errors.New("verification queue stopped")
)

// Dispatcher hands verification mails to a fixed set of workers that publish
// them to the broker. Messages are sharded by user id, so mails for one user
// go out in request order.
type Dispatcher struct {
	workers   []chan domain.VerificationMessage
	publisher Publisher
	log       zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher Publisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.VerificationMessage, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.VerificationMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Stop has drained their queues.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// SendVerification queues msg without blocking. It implements
// ports.VerificationSender.
func (d *Dispatcher) SendVerification(_ context.Context, msg domain.VerificationMessage) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrQueueStopped
	}

	select {
	case d.workers[d.shardIndex(msg.UID)] <- msg:
		return nil
	default:
		metrics.VerificationJobsTotal.WithLabelValues("dropped").Inc()
		return ErrQueueFull
	}
}

// Stop refuses new messages and waits for the queued ones to be published.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(uid string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(uid))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.VerificationMessage) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := d.publisher.Publish(VerificationRouting, msg); err != nil {
				metrics.VerificationJobsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("uid", msg.UID).
					Int("worker_id", id).
					Msg("verification mail publish failed")
				continue
			}
			metrics.VerificationJobsTotal.WithLabelValues("ok").Inc()
		}
	}
}
