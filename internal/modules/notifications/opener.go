package notifications

import (
	"context"
	"errors"
	"sync"
	"time"
)

const (
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

// Link is a deep link to be opened by the client, optionally after Delay.
type Link struct {
	Channel string
	To      string
	URL     string
	Delay   time.Duration
}

type Opener interface {
	Open(ctx context.Context, l Link) error
}

type OpenerFunc func(ctx context.Context, l Link) error

func (f OpenerFunc) Open(ctx context.Context, l Link) error { return f(ctx, l) }

// Collector keeps opened links in order so they can be handed to the browser.
type Collector struct {
	mu    sync.Mutex
	links []Link
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) Open(_ context.Context, l Link) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links = append(c.links, l)
	return nil
}

func (c *Collector) Links() []Link {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Link, len(c.links))
	copy(out, c.links)
	return out
}

// Multi opens the link on every non-nil opener, continuing past failures.
func Multi(openers ...Opener) Opener {
	return OpenerFunc(func(ctx context.Context, l Link) error {
		var errs []error
		for _, o := range openers {
			if o == nil {
				continue
			}
			if err := o.Open(ctx, l); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
