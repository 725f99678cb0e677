package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/moritzgrimm/raumboard/pkg/models"
)

// DateFormat is the calendar-date format the backend expects in URLs and
// form fields.
const DateFormat = "2006-01-02"

// Client is a thin wrapper around the room-booking backend's HTTP API.
// Reads are retried once on transport failure; submissions are at-most-once.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the backend at baseURL. A zero timeout
// falls back to 15 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type eventRecord struct {
	ID    json.Number `json:"id"`
	Title string      `json:"title"`
	Date  string      `json:"date"`
	Room  string      `json:"room"`
}

// ListEvents returns the events whose date falls within [start, end],
// inclusive. Remote events carry a single date, which is mapped to both
// Start and End.
func (c *Client) ListEvents(ctx context.Context, start, end time.Time) ([]models.Event, error) {
	const op = "getEvents"
	url := fmt.Sprintf("%s/api/py/getEvents/%s/%s",
		c.baseURL, start.Format(DateFormat), end.Format(DateFormat))

	body, err := c.getWithRetry(ctx, op, url)
	if err != nil {
		return nil, err
	}

	var records []eventRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &MalformedResponseError{Op: op, Err: err}
	}

	events := make([]models.Event, 0, len(records))
	for _, r := range records {
		t, err := parseEventDate(r.Date)
		if err != nil {
			return nil, &MalformedResponseError{Op: op, Err: err}
		}
		events = append(events, models.Event{
			ID:    r.ID.String(),
			Title: r.Title,
			Start: t,
			End:   t,
			Room:  r.Room,
		})
	}
	return events, nil
}

// FetchRoomImage returns the raw image bytes scheduled for a room on a date.
// A backend 404 becomes a NotFoundError; callers substitute a placeholder on
// any failure.
func (c *Client) FetchRoomImage(ctx context.Context, roomNumber string, date time.Time) ([]byte, error) {
	const op = "getWebImageByDate"
	url := fmt.Sprintf("%s/api/py/getWebImageByDate/%s/%s",
		c.baseURL, roomNumber, date.Format(DateFormat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	resp, err := c.doRetryOnce(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Resource: fmt.Sprintf("image for room %s on %s", roomNumber, date.Format(DateFormat))}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	return data, nil
}

type batteryRecord struct {
	RoomID     string  `json:"room_id"`
	Percentage float64 `json:"percentage"`
	Voltage    float64 `json:"voltage"`
}

type batteryEnvelope struct {
	Batteries []batteryRecord `json:"batteries"`
}

// FetchAllBatteryStatuses returns the charge level of every known room
// display. Percentages are clamped into [0, 100].
func (c *Client) FetchAllBatteryStatuses(ctx context.Context) ([]models.BatteryStatus, error) {
	const op = "getAllBatteryInfo"
	url := c.baseURL + "/api/py/getAllBatteryInfo"

	body, err := c.getWithRetry(ctx, op, url)
	if err != nil {
		return nil, err
	}

	var envelope batteryEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &MalformedResponseError{Op: op, Err: err}
	}

	statuses := make([]models.BatteryStatus, 0, len(envelope.Batteries))
	for _, b := range envelope.Batteries {
		pct := int(b.Percentage)
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		statuses = append(statuses, models.BatteryStatus{
			RoomID:     b.RoomID,
			Percentage: pct,
			Voltage:    b.Voltage,
		})
	}
	return statuses, nil
}

// Ack is the backend's acknowledgement of a booking submission.
type Ack struct {
	Message string `json:"message"`
	EventID int64  `json:"event_id"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// SubmitBooking sends the draft as a multipart form (title, event_date,
// image_1..image_4). It is deliberately not retried so a booking is created
// at most once.
func (c *Client) SubmitBooking(ctx context.Context, draft *models.BookingDraft) (*Ack, error) {
	const op = "addEventWithImages"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("title", draft.Title); err != nil {
		return nil, fmt.Errorf("%s: encode form: %w", op, err)
	}
	if err := mw.WriteField("event_date", draft.Date.Format(DateFormat)); err != nil {
		return nil, fmt.Errorf("%s: encode form: %w", op, err)
	}

	attached := draft.AttachedImages()
	slots := make([]int, 0, len(attached))
	for slot := range attached {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	for _, slot := range slots {
		img := attached[slot]
		part, err := mw.CreateFormFile(fmt.Sprintf("image_%d", slot), img.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: encode form: %w", op, err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, fmt.Errorf("%s: encode form: %w", op, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%s: encode form: %w", op, err)
	}

	url := c.baseURL + "/api/py/addEventWithImages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Detail != "" {
			return nil, &ValidationError{Detail: eb.Detail}
		}
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var ack Ack
	if err := json.Unmarshal(body, &ack); err != nil {
		return nil, &MalformedResponseError{Op: op, Err: err}
	}
	return &ack, nil
}

// getWithRetry issues a GET, retrying once on transport failure, and returns
// the body of a 200 response.
func (c *Client) getWithRetry(ctx context.Context, op, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	resp, err := c.doRetryOnce(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	return body, nil
}

// doRetryOnce retries an idempotent request a single time when the transport
// fails. GET bodies are nil, so the request can be reissued as-is.
func (c *Client) doRetryOnce(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err == nil {
		return resp, nil
	}
	if req.Context().Err() != nil {
		return nil, err
	}
	return c.http.Do(req.Clone(req.Context()))
}

// parseEventDate accepts the backend's plain calendar date and, for
// robustness, full timestamps.
func parseEventDate(value string) (time.Time, error) {
	formats := []string{
		DateFormat,
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse event date: %q", value)
}
