package notification

import (
	"sync"

	"assetscan/models"
	"assetscan/utils"

	"github.com/google/uuid"
)

// Channel holds at most one pending notification. A new message replaces
// an unconsumed one; Notify never blocks.
type Channel struct {
	mu     sync.Mutex
	ch     chan models.Notification
	clock  utils.Clock
	closed bool
}

func NewChannel(clk utils.Clock) *Channel {
	if clk == nil {
		clk = utils.NewSystemClock()
	}
	return &Channel{
		ch:    make(chan models.Notification, 1),
		clock: clk,
	}
}

// Notify enqueues message, superseding any pending one.
func (c *Channel) Notify(message string) {
	n := models.Notification{
		ID:        uuid.New().String(),
		Message:   message,
		CreatedAt: c.clock.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	// drop the stale message if the reader has not taken it yet
	select {
	case <-c.ch:
	default:
	}
	c.ch <- n
}

// C returns the receive side for readers that want to block.
func (c *Channel) C() <-chan models.Notification {
	return c.ch
}

// Poll takes the pending notification, if any.
func (c *Channel) Poll() (models.Notification, bool) {
	select {
	case n := <-c.ch:
		return n, true
	default:
		return models.Notification{}, false
	}
}

// Close drops any pending message and ignores later notifications.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	select {
	case <-c.ch:
	default:
	}
}
