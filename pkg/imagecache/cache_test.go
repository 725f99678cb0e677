package imagecache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moritzgrimm/raumboard/pkg/models"
)

type fakeFetcher struct {
	images map[string][]byte
	err    error
	calls  int
}

func (f *fakeFetcher) FetchRoomImage(_ context.Context, roomNumber string, _ time.Time) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.images[roomNumber]
	if !ok {
		return nil, errors.New("image for room " + roomNumber + " not found")
	}
	return data, nil
}

func june15() time.Time {
	return time.Date(2023, time.June, 15, 0, 0, 0, 0, time.Local)
}

func TestResolveFallsBackToPlaceholder(t *testing.T) {
	cache := New(&fakeFetcher{})

	handle := cache.Resolve(context.Background(), "1", june15())

	require.NotNil(t, handle)
	assert.Equal(t, cache.Placeholder(), handle.Resource())
	assert.Equal(t, cache.Placeholder(), cache.Resource("1"))
}

func TestResolveStoresFetchedImage(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{"2": []byte("jpegbytes")}}
	cache := New(fetcher)

	handle := cache.Resolve(context.Background(), "2", june15())

	assert.Equal(t, []byte("jpegbytes"), handle.Resource().Content())
	assert.Equal(t, []byte("jpegbytes"), cache.Resource("2").Content())
}

func TestResolveReleasesSupersededHandle(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{"2": []byte("first")}}
	cache := New(fetcher)

	first := cache.Resolve(context.Background(), "2", june15())
	fetcher.images["2"] = []byte("second")
	second := cache.Resolve(context.Background(), "2", june15())

	assert.True(t, first.Released(), "the superseded handle must be released")
	assert.False(t, second.Released())
	assert.Equal(t, []byte("second"), cache.Resource("2").Content())
}

func TestResolveIsIdempotentForUnchangedContent(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{"3": []byte("same")}}
	cache := New(fetcher)

	first := cache.Resolve(context.Background(), "3", june15())
	firstContent := append([]byte(nil), first.Resource().Content()...)
	second := cache.Resolve(context.Background(), "3", june15())

	assert.Equal(t, firstContent, second.Resource().Content())
}

func TestPlaceholderIsNeverReleased(t *testing.T) {
	cache := New(&fakeFetcher{})

	first := cache.Resolve(context.Background(), "1", june15())
	second := cache.Resolve(context.Background(), "1", june15())

	first.Release() // no-op on the shared placeholder
	assert.False(t, first.Released())
	assert.NotEmpty(t, second.Resource().Content())
}

func TestStoreLocalReplacesFetchedHandle(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{"2": []byte("remote")}}
	cache := New(fetcher)

	remote := cache.Resolve(context.Background(), "2", june15())
	local := cache.StoreLocal("2", "upload.jpg", []byte("local"))

	assert.True(t, remote.Released())
	assert.Equal(t, []byte("local"), local.Resource().Content())
	assert.Equal(t, []byte("local"), cache.Resource("2").Content())
}

func TestResolveAllCoversEveryRoom(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{"1": []byte("a")}}
	cache := New(fetcher)

	cache.ResolveAll(context.Background(), models.DefaultCatalog(), june15())

	assert.Equal(t, len(models.DefaultCatalog()), fetcher.calls)
	assert.Equal(t, []byte("a"), cache.Resource("1").Content())
	// Rooms without an image show the placeholder
	assert.Equal(t, cache.Placeholder(), cache.Resource("4"))
}

func TestReleaseAll(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{"1": []byte("a"), "2": []byte("b")}}
	cache := New(fetcher)

	h1 := cache.Resolve(context.Background(), "1", june15())
	h2 := cache.Resolve(context.Background(), "2", june15())

	cache.ReleaseAll()

	assert.True(t, h1.Released())
	assert.True(t, h2.Released())
	assert.Equal(t, cache.Placeholder(), cache.Resource("1"))
}
