package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moritzgrimm/raumboard/pkg/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestListEventsRequestsInclusiveRange(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `[
			{"id": 1, "title": "Meeting in Raum 102", "date": "2023-06-01", "room": "Raum 102"},
			{"id": 2, "title": "Workshop in Raum 103", "date": "2023-06-02", "room": "Raum 103"}
		]`)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	events, err := client.ListEvents(context.Background(), date(2023, time.June, 1), date(2023, time.June, 30))

	require.NoError(t, err)
	assert.Equal(t, "/api/py/getEvents/2023-06-01/2023-06-30", gotPath)
	require.Len(t, events, 2)

	assert.Equal(t, "Meeting in Raum 102", events[0].Title)
	assert.Equal(t, "Raum 102", events[0].Room)
	// A remote event has a single date, mapped to both bounds
	assert.Equal(t, date(2023, time.June, 1), events[0].Start)
	assert.Equal(t, events[0].Start, events[0].End)
}

func TestListEventsMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not": "an array"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.ListEvents(context.Background(), date(2023, time.June, 1), date(2023, time.June, 30))

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
}

func TestListEventsBadDateInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"title": "x", "date": "gestern", "room": ""}]`)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.ListEvents(context.Background(), date(2023, time.June, 1), date(2023, time.June, 30))

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
}

func TestListEventsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.ListEvents(context.Background(), date(2023, time.June, 1), date(2023, time.June, 30))

	var network *NetworkError
	require.ErrorAs(t, err, &network)
}

func TestFetchRoomImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/py/getWebImageByDate/2/2023-06-15", r.URL.Path)
		w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	data, err := client.FetchRoomImage(context.Background(), "2", date(2023, time.June, 15))

	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
}

func TestFetchRoomImageNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "No event found for this date"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.FetchRoomImage(context.Background(), "1", date(2023, time.June, 15))

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestFetchAllBatteryStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/py/getAllBatteryInfo", r.URL.Path)
		fmt.Fprint(w, `{"batteries": [
			{"room_id": "1", "percentage": 87, "voltage": 3.9},
			{"room_id": "2", "percentage": 104, "voltage": 4.4},
			{"room_id": "3", "percentage": -3, "voltage": 3.0}
		]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	statuses, err := client.FetchAllBatteryStatuses(context.Background())

	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.Equal(t, 87, statuses[0].Percentage)
	// Out-of-range telemetry is clamped into [0, 100]
	assert.Equal(t, 100, statuses[1].Percentage)
	assert.Equal(t, 0, statuses[2].Percentage)
}

func TestSubmitBookingMultipartFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "Workshop", r.FormValue("title"))
		assert.Equal(t, "2023-06-15", r.FormValue("event_date"))

		_, _, err := r.FormFile("image_2")
		assert.NoError(t, err, "attached slot should be sent as image_2")
		_, _, err = r.FormFile("image_1")
		assert.Error(t, err, "empty slots must not be sent")

		fmt.Fprint(w, `{"message": "Event added successfully", "event_id": 42}`)
	}))
	defer server.Close()

	draft := &models.BookingDraft{
		Title: "Workshop",
		Date:  date(2023, time.June, 15),
		Room:  "2",
	}
	draft.Images[1] = &models.ImageAttachment{Name: "raum2.jpg", Data: []byte("jpegbytes")}

	client := NewClient(server.URL, time.Second)
	ack, err := client.SubmitBooking(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, int64(42), ack.EventID)
	assert.Equal(t, "Event added successfully", ack.Message)
}

func TestSubmitBookingValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"detail": "Room occupied"}`)
	}))
	defer server.Close()

	draft := &models.BookingDraft{Date: date(2023, time.June, 15), Room: "2"}

	client := NewClient(server.URL, time.Second)
	_, err := client.SubmitBooking(context.Background(), draft)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Room occupied", validation.Detail)
}

// hijackOnce closes the first connection mid-request, producing a transport
// error, then serves normally.
func hijackOnce(calls *atomic.Int32, serve http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			hj, ok := w.(http.Hijacker)
			if !ok {
				panic("response writer does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				panic(err)
			}
			conn.Close()
			return
		}
		serve(w, r)
	}
}

func TestGetIsRetriedOnceOnTransportFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(hijackOnce(&calls, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	events, err := client.ListEvents(context.Background(), date(2023, time.June, 1), date(2023, time.June, 30))

	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSubmitBookingIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(hijackOnce(&calls, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message": "ok", "event_id": 1}`)
	}))
	defer server.Close()

	draft := &models.BookingDraft{Date: date(2023, time.June, 15), Room: "1"}

	client := NewClient(server.URL, time.Second)
	_, err := client.SubmitBooking(context.Background(), draft)

	var network *NetworkError
	require.ErrorAs(t, err, &network)
	assert.Equal(t, int32(1), calls.Load(), "a booking must be submitted at most once")
}
