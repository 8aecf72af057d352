package notification

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Sender delivers one message over one channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, m Message) error
}

// Dispatcher delivers messages in the background. Enqueue never blocks the
// booking path; a full queue drops the message.
type Dispatcher struct {
	queue   chan Message
	senders []Sender
	workers int
	log     *zap.Logger

	wg sync.WaitGroup
}

func NewDispatcher(queueSize, workers int, log *zap.Logger, senders ...Sender) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		queue:   make(chan Message, queueSize),
		senders: senders,
		workers: workers,
		log:     log,
	}
}

func (d *Dispatcher) Enqueue(m Message) bool {
	select {
	case d.queue <- m:
		return true
	default:
		d.log.Warn("notification queue full, message dropped",
			zap.String("type", string(m.Type)),
			zap.String("recipient", m.RecipientEmail),
		)
		return false
	}
}

// Run starts the workers and blocks until ctx is cancelled. Messages still
// queued at that point are delivered before Run returns.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.log.Info("notification dispatcher started", zap.Int("workers", d.workers))
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
	<-ctx.Done()
	d.wg.Wait()
	d.drain()
	d.log.Info("notification dispatcher stopped")
	return nil
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case m := <-d.queue:
			d.deliver(ctx, m)
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case m := <-d.queue:
			d.deliver(context.Background(), m)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, m Message) {
	for _, s := range d.senders {
		if err := s.Send(ctx, m); err != nil {
			d.log.Error("notification delivery failed",
				zap.String("sender", s.Name()),
				zap.String("type", string(m.Type)),
				zap.String("recipient", m.RecipientEmail),
				zap.Error(err),
			)
		}
	}
}
