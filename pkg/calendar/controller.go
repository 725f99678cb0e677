package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/moritzgrimm/raumboard/pkg/models"
)

// EventLister is the slice of the backend client the controller needs.
type EventLister interface {
	ListEvents(ctx context.Context, start, end time.Time) ([]models.Event, error)
}

// Controller recomputes the visible date range whenever the view mode or
// reference date changes and fetches the events for it. Every refresh carries
// a generation number; a fetch that completes after a newer one was issued is
// discarded, so rapid view or date switching cannot let a stale response
// overwrite fresher state.
type Controller struct {
	mu         sync.Mutex
	lister     EventLister
	view       models.ViewMode
	refDate    time.Time
	generation uint64
	onEvents   func([]models.Event)
}

// NewController creates a controller in month view. onEvents receives each
// fresh event list wholesale.
func NewController(lister EventLister, onEvents func([]models.Event)) *Controller {
	return &Controller{
		lister:   lister,
		view:     models.ViewMonth,
		onEvents: onEvents,
	}
}

// View returns the active view mode.
func (c *Controller) View() models.ViewMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// SetView switches the view mode. The caller follows up with Refresh.
func (c *Controller) SetView(view models.ViewMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = view
}

// ReferenceDate returns the date the visible range is derived from.
func (c *Controller) ReferenceDate() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refDate
}

// SetReferenceDate moves the reference date the range is derived from.
func (c *Controller) SetReferenceDate(ref time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refDate = ref
}

// Range returns the current visible bounds.
func (c *Controller) Range() (time.Time, time.Time) {
	c.mu.Lock()
	view, ref := c.view, c.refDate
	c.mu.Unlock()
	return RangeFor(view, ref)
}

// Refresh fetches the events for the current range and delivers them through
// onEvents. On failure the previous list stays untouched and the error is
// returned for logging. A result that lost the race against a newer refresh
// is dropped silently.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	view, ref := c.view, c.refDate
	c.mu.Unlock()

	start, end := RangeFor(view, ref)
	events, err := c.lister.ListEvents(ctx, start, end)
	if err != nil {
		return err
	}

	c.mu.Lock()
	stale := gen != c.generation
	c.mu.Unlock()
	if stale {
		return nil
	}

	c.onEvents(events)
	return nil
}
