package notify

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tradeyard/marketplace-api/internal/api/metrics"
	"github.com/tradeyard/marketplace-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Sender delivers a single notification to its recipient.
type Sender interface {
	Send(ctx context.Context, n ports.Notification) error
}

// Dispatcher routes notifications to a fixed set of workers using consistent
// hashing on the recipient ID, so notifications to the same actor are
// delivered in the order they were enqueued. It implements ports.Notifier:
// enqueueing never blocks the caller and delivery failures stay inside the
// dispatcher.
type Dispatcher struct {
	workers []chan ports.Notification
	sender  Sender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender Sender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.Notification, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify enqueues a notification for its recipient's worker. When the worker
// queue is full the notification is dropped and logged; the caller is never
// blocked and never sees the failure.
func (d *Dispatcher) Notify(n ports.Notification) {
	idx := d.shardIndex(n.RecipientID)
	select {
	case d.workers[idx] <- n:
		metrics.NotifyQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("recipient_id", n.RecipientID).
			Str("subject", n.Subject).
			Msg("notification queue full, dropping")
	}
}

// shardIndex maps a recipient ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipientID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.Notification) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotifyQueueDepth.WithLabelValues(workerID).Dec()
			if err := d.sender.Send(ctx, n); err != nil {
				metrics.NotificationsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("recipient_id", n.RecipientID).
					Int("worker_id", id).
					Msg("notification delivery failed")
				continue
			}
			metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		}
	}
}
