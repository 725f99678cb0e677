package imagecache

import (
	"context"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"github.com/moritzgrimm/raumboard/pkg/models"
)

// placeholderSVG is shown for rooms without a stored image. Kept inline so
// the binary needs no asset files.
const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="300" height="200" viewBox="0 0 300 200">
<rect width="300" height="200" fill="#e5e5e5"/>
<path d="M100 140l40-50 30 35 20-22 40 37z" fill="#b0b0b0"/>
<circle cx="110" cy="70" r="14" fill="#b0b0b0"/>
<text x="150" y="185" font-size="14" fill="#8a8a8a" text-anchor="middle">Kein Bild</text>
</svg>`

// Fetcher retrieves the stored image for a room on a date.
type Fetcher interface {
	FetchRoomImage(ctx context.Context, roomNumber string, date time.Time) ([]byte, error)
}

// Cache maps room numbers to displayable image handles for the currently
// selected date. It owns the handles it hands out: installing a new image for
// a room releases the previous handle so fetched bytes do not accumulate.
type Cache struct {
	mu          sync.Mutex
	fetcher     Fetcher
	placeholder *Handle
	entries     map[string]*Handle
}

// New creates an empty cache backed by fetcher.
func New(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher:     fetcher,
		placeholder: newStaticHandle(fyne.NewStaticResource("placeholder.svg", []byte(placeholderSVG))),
		entries:     make(map[string]*Handle),
	}
}

// Resolve fetches the image for (room, date) and installs it as the room's
// current handle. Any failure falls back to the placeholder; image fetching
// never produces a user-visible error.
func (c *Cache) Resolve(ctx context.Context, roomNumber string, date time.Time) *Handle {
	data, err := c.fetcher.FetchRoomImage(ctx, roomNumber, date)
	if err != nil {
		log.Printf("No image for room %s on %s: %v", roomNumber, date.Format("2006-01-02"), err)
		return c.install(roomNumber, c.placeholder)
	}
	return c.install(roomNumber, newHandle("raum-"+roomNumber+".jpg", data))
}

// ResolveAll refreshes every room's image for the given date. Called whenever
// the selected date or the room catalog changes.
func (c *Cache) ResolveAll(ctx context.Context, rooms []models.Room, date time.Time) {
	for _, room := range rooms {
		c.Resolve(ctx, room.Number, date)
	}
}

// StoreLocal installs a locally created handle for a room, e.g. the image the
// user just attached to a successful booking.
func (c *Cache) StoreLocal(roomNumber, name string, data []byte) *Handle {
	return c.install(roomNumber, newHandle(name, data))
}

// Resource returns the room's current displayable content, the placeholder
// when nothing is cached.
func (c *Cache) Resource(roomNumber string) fyne.Resource {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.entries[roomNumber]; ok {
		return h.Resource()
	}
	return c.placeholder.Resource()
}

// Placeholder returns the shared fallback resource.
func (c *Cache) Placeholder() fyne.Resource {
	return c.placeholder.Resource()
}

// ReleaseAll revokes every live handle. Called on shutdown.
func (c *Cache) ReleaseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for room, h := range c.entries {
		h.Release()
		delete(c.entries, room)
	}
}

// install replaces the room's handle and releases the superseded one.
func (c *Cache) install(roomNumber string, h *Handle) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.entries[roomNumber]; ok && old != h {
		old.Release()
	}
	c.entries[roomNumber] = h
	return h
}
