package imagecache

import (
	"fyne.io/fyne/v2"
	"github.com/google/uuid"
)

// Handle is a revocable display handle for fetched image bytes. A handle is
// exclusively owned by the cache entry it belongs to; installing a new handle
// for the same room releases the one it supersedes.
type Handle struct {
	resource *fyne.StaticResource
	released bool
	static   bool // placeholder handles are shared and never released
}

// newHandle wraps raw image bytes in a displayable resource. The resource
// name is unique per handle so the canvas notices the content changed.
func newHandle(name string, data []byte) *Handle {
	if name == "" {
		name = "image"
	}
	return &Handle{
		resource: fyne.NewStaticResource(uuid.NewString()+"-"+name, data),
	}
}

// newStaticHandle wraps a shared, non-revocable resource such as the
// placeholder image.
func newStaticHandle(res *fyne.StaticResource) *Handle {
	return &Handle{resource: res, static: true}
}

// Resource returns the displayable content. Released handles must not be
// handed to the canvas; callers always go through the cache, which never
// returns a released handle.
func (h *Handle) Resource() fyne.Resource { return h.resource }

// Released reports whether the handle has been revoked.
func (h *Handle) Released() bool { return h.released }

// Release revokes the handle and drops its bytes. Releasing the shared
// placeholder or an already released handle is a no-op.
func (h *Handle) Release() {
	if h == nil || h.static || h.released {
		return
	}
	h.released = true
	h.resource.StaticContent = nil
}
