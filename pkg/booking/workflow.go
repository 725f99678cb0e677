// Package booking drives the submission of a booking draft: validate,
// submit, and derive the local follow-up state (optimistic event, room image
// swap) from the outcome.
package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/moritzgrimm/raumboard/pkg/backend"
	"github.com/moritzgrimm/raumboard/pkg/calendar"
	"github.com/moritzgrimm/raumboard/pkg/models"
)

var (
	// ErrNoDate blocks submission while the draft has no target date. No
	// network call is made.
	ErrNoDate = errors.New("kein Datum ausgewählt")

	// ErrBusy rejects a submit while an earlier one is still in flight.
	ErrBusy = errors.New("eine Buchung wird bereits übertragen")
)

// FallbackErrorText is shown when a failed submission carries no backend
// detail message.
const FallbackErrorText = "Fehler beim Buchen des Raumes."

// Submitter is the slice of the backend client the workflow needs.
type Submitter interface {
	SubmitBooking(ctx context.Context, draft *models.BookingDraft) (*backend.Ack, error)
}

// Result is what the dashboard applies locally after a successful
// submission.
type Result struct {
	Ack *backend.Ack

	// Event is the derived full-day entry to append to the session's event
	// list until the next authoritative refetch.
	Event models.Event

	// RoomNumber is the catalog number the booking was made for.
	RoomNumber string

	// RoomImage is the attachment uploaded for the booked room, nil when the
	// booking had none. The caller installs it as the room's display handle.
	RoomImage *models.ImageAttachment
}

// Workflow runs booking submissions one at a time.
type Workflow struct {
	mu         sync.Mutex
	submitter  Submitter
	submitting bool
}

// NewWorkflow creates an idle workflow.
func NewWorkflow(submitter Submitter) *Workflow {
	return &Workflow{submitter: submitter}
}

// Submitting reports whether a submission is in flight. The dialog disables
// its submit button while this is true.
func (w *Workflow) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Submit sends the draft to the backend. Without a target date it returns
// ErrNoDate before any network activity. On success the draft's image slots
// are cleared and the derived local state is returned; on failure the draft
// is left intact so the user can retry.
func (w *Workflow) Submit(ctx context.Context, draft *models.BookingDraft) (*Result, error) {
	if !draft.HasDate() {
		return nil, ErrNoDate
	}

	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	w.submitting = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	// The default title goes on the wire only; the draft stays untouched so
	// a failed submission still shows the title field the user left blank.
	submitDraft := *draft
	if submitDraft.Title == "" {
		submitDraft.Title = "Event am " + draft.Date.Format("02.01.2006")
	}

	ack, err := w.submitter.SubmitBooking(ctx, &submitDraft)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Ack:        ack,
		Event:      deriveEvent(draft, ack),
		RoomNumber: draft.Room,
		RoomImage:  attachmentForRoom(draft),
	}
	draft.ClearImages()
	return result, nil
}

// UserMessage maps a submission error to the text shown in the dialog,
// preferring the backend's detail message.
func UserMessage(err error) string {
	var ve *backend.ValidationError
	if errors.As(err, &ve) && ve.Detail != "" {
		return ve.Detail
	}
	if errors.Is(err, ErrNoDate) || errors.Is(err, ErrBusy) {
		return err.Error()
	}
	return FallbackErrorText
}

// deriveEvent builds the full-day event appended locally after a successful
// booking.
func deriveEvent(draft *models.BookingDraft, ack *backend.Ack) models.Event {
	start, end := calendar.FullDaySpan(draft.Date)

	id := uuid.NewString()
	if ack != nil && ack.EventID != 0 {
		id = fmt.Sprintf("%d", ack.EventID)
	}

	return models.Event{
		ID:    id,
		Title: fmt.Sprintf("Buchung für Raum %s", draft.Room),
		Start: start,
		End:   end,
		Room:  fmt.Sprintf("Raum %s", draft.Room),
	}
}

// attachmentForRoom returns the image uploaded for the booked room. Image
// slot i belongs to the catalog entry at position i, so a draft for room "2"
// looks at slot 2.
func attachmentForRoom(draft *models.BookingDraft) *models.ImageAttachment {
	for slot, img := range draft.AttachedImages() {
		if fmt.Sprintf("%d", slot) == draft.Room {
			return img
		}
	}
	return nil
}
