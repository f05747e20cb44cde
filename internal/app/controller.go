package app

import (
	"sync"

	"github.com/bft-labs/calcpad/internal/domain"
	"github.com/bft-labs/calcpad/internal/ports"
)

// Controller owns one calculator state. It applies input events one at a
// time and publishes the render model after every event.
type Controller struct {
	mu        sync.Mutex
	state     *domain.State
	logger    ports.Logger
	listeners []ports.RenderListener
}

// NewController creates a controller with a fresh state whose history keeps
// at most historyLimit entries.
func NewController(historyLimit int, logger ports.Logger) *Controller {
	return &Controller{
		state:  domain.NewState(historyLimit),
		logger: logger,
	}
}

// Subscribe registers l to receive the render model after every event.
func (c *Controller) Subscribe(l ports.RenderListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Dispatch applies e and returns the resulting render model.
func (c *Controller) Dispatch(e domain.Event) domain.RenderModel {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.state.Calculations()
	if !c.state.Apply(e) {
		c.logger.Warn("unknown input event", ports.Int("kind", int(e.Kind)))
	} else {
		c.logger.Debug("input event",
			ports.String("event", e.String()),
			ports.String("display", c.state.Display()),
		)
	}

	if c.state.Calculations() != before {
		if entries := c.state.History(); len(entries) > 0 {
			c.logger.Info("calculation recorded",
				ports.String("expression", entries[0].Expression),
				ports.String("result", entries[0].Result.String()),
				ports.Int("history", len(entries)),
			)
		}
	}

	model := domain.Render(c.state)
	for _, l := range c.listeners {
		l.OnRender(model)
	}
	return model
}

// Render returns the current render model without changing state.
func (c *Controller) Render() domain.RenderModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Render(c.state)
}
