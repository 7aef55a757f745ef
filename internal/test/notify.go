package test

import (
	"context"
	"sync"

	"github.com/polkiloo/quickmart/internal/domain/model"
)

// PublisherStub records published status events.
type PublisherStub struct {
	sync.Mutex
	PublishFn func(context.Context, model.StatusEvent) error
	Events    []model.StatusEvent
	Closed    bool
}

// Publish stores event unless PublishFn rejects it.
func (p *PublisherStub) Publish(ctx context.Context, event model.StatusEvent) error {
	if p.PublishFn != nil {
		if err := p.PublishFn(ctx, event); err != nil {
			return err
		}
	}
	p.Lock()
	defer p.Unlock()
	p.Events = append(p.Events, event)
	return nil
}

// Close marks publisher closed.
func (p *PublisherStub) Close() error {
	p.Lock()
	defer p.Unlock()
	p.Closed = true
	return nil
}

// Published returns a snapshot of stored events.
func (p *PublisherStub) Published() []model.StatusEvent {
	p.Lock()
	defer p.Unlock()
	return append([]model.StatusEvent(nil), p.Events...)
}
