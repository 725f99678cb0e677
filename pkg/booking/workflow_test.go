package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moritzgrimm/raumboard/pkg/backend"
	"github.com/moritzgrimm/raumboard/pkg/models"
)

type fakeSubmitter struct {
	mu        sync.Mutex
	calls     int
	sentTitle string
	ack       *backend.Ack
	err       error
	gate      chan struct{} // when set, Submit blocks until closed
}

func (f *fakeSubmitter) SubmitBooking(_ context.Context, draft *models.BookingDraft) (*backend.Ack, error) {
	f.mu.Lock()
	f.calls++
	f.sentTitle = draft.Title
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return f.ack, f.err
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSubmitter) lastSentTitle() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sentTitle
}

func june15() time.Time {
	return time.Date(2023, time.June, 15, 0, 0, 0, 0, time.Local)
}

func TestSubmitWithoutDateMakesNoNetworkCall(t *testing.T) {
	submitter := &fakeSubmitter{}
	wf := NewWorkflow(submitter)

	_, err := wf.Submit(context.Background(), &models.BookingDraft{Title: "Ohne Datum", Room: "1"})

	require.ErrorIs(t, err, ErrNoDate)
	assert.Zero(t, submitter.callCount())
}

func TestSubmitSuccess(t *testing.T) {
	submitter := &fakeSubmitter{ack: &backend.Ack{Message: "Event added successfully", EventID: 42}}
	wf := NewWorkflow(submitter)

	draft := &models.BookingDraft{Title: "Workshop", Date: june15(), Room: "2"}
	attachment := &models.ImageAttachment{Name: "raum2.jpg", Data: []byte("jpegbytes")}
	draft.Images[1] = attachment // slot 2 belongs to room "2"

	result, err := wf.Submit(context.Background(), draft)
	require.NoError(t, err)

	assert.Equal(t, "Buchung für Raum 2", result.Event.Title)
	assert.Equal(t, "Raum 2", result.Event.Room)
	assert.Equal(t, "42", result.Event.ID)

	// Full-day convention: 00:00:00.000 to 23:59:59.999 of the booked date
	assert.Equal(t, june15(), result.Event.Start)
	assert.Equal(t, time.Date(2023, time.June, 15, 23, 59, 59, int(999*time.Millisecond), time.Local), result.Event.End)

	assert.Equal(t, "2", result.RoomNumber)
	assert.Same(t, attachment, result.RoomImage)

	// Transient image selections are cleared after success
	for _, img := range draft.Images {
		assert.Nil(t, img)
	}
	assert.False(t, wf.Submitting())
}

func TestSubmitSuccessWithoutImageForBookedRoom(t *testing.T) {
	submitter := &fakeSubmitter{ack: &backend.Ack{EventID: 7}}
	wf := NewWorkflow(submitter)

	draft := &models.BookingDraft{Date: june15(), Room: "2"}
	draft.Images[0] = &models.ImageAttachment{Name: "raum1.jpg", Data: []byte("x")} // slot 1, not room 2

	result, err := wf.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.Nil(t, result.RoomImage)
}

func TestSubmitSendsDefaultTitleWithoutMutatingDraft(t *testing.T) {
	submitter := &fakeSubmitter{ack: &backend.Ack{EventID: 1}}
	wf := NewWorkflow(submitter)

	draft := &models.BookingDraft{Date: june15(), Room: "1"}
	_, err := wf.Submit(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, "Event am 15.06.2023", submitter.lastSentTitle())
	// The draft still records that the user left the title blank
	assert.Empty(t, draft.Title)
}

func TestSubmitFailureKeepsTitleBlank(t *testing.T) {
	submitter := &fakeSubmitter{err: &backend.NetworkError{Op: "addEventWithImages"}}
	wf := NewWorkflow(submitter)

	draft := &models.BookingDraft{Date: june15(), Room: "1"}
	_, err := wf.Submit(context.Background(), draft)

	require.Error(t, err)
	assert.Equal(t, "Event am 15.06.2023", submitter.lastSentTitle())
	assert.Empty(t, draft.Title, "a failed submission must not write the default title into the draft")
}

func TestSubmitFailureKeepsDraftIntact(t *testing.T) {
	submitter := &fakeSubmitter{err: &backend.ValidationError{Detail: "Room occupied"}}
	wf := NewWorkflow(submitter)

	draft := &models.BookingDraft{Title: "Workshop", Date: june15(), Room: "2"}
	draft.Images[1] = &models.ImageAttachment{Name: "raum2.jpg", Data: []byte("jpegbytes")}

	_, err := wf.Submit(context.Background(), draft)

	require.Error(t, err)
	assert.Contains(t, UserMessage(err), "Room occupied")

	// The draft survives for a retry
	assert.NotNil(t, draft.Images[1])
	assert.Equal(t, june15(), draft.Date)
	assert.False(t, wf.Submitting())

	// And the retry goes through once the backend accepts
	submitter.err = nil
	submitter.ack = &backend.Ack{EventID: 9}
	result, err := wf.Submit(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "9", result.Event.ID)
}

func TestSubmitWhileSubmittingIsRejected(t *testing.T) {
	gate := make(chan struct{})
	submitter := &fakeSubmitter{ack: &backend.Ack{EventID: 1}, gate: gate}
	wf := NewWorkflow(submitter)

	draft := &models.BookingDraft{Date: june15(), Room: "1"}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = wf.Submit(context.Background(), draft)
	}()

	require.Eventually(t, wf.Submitting, time.Second, time.Millisecond)

	_, err := wf.Submit(context.Background(), &models.BookingDraft{Date: june15(), Room: "2"})
	assert.ErrorIs(t, err, ErrBusy)

	close(gate)
	<-done
	assert.Equal(t, 1, submitter.callCount())
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Room occupied", UserMessage(&backend.ValidationError{Detail: "Room occupied"}))
	assert.Equal(t, FallbackErrorText, UserMessage(&backend.NetworkError{Op: "addEventWithImages"}))
	assert.Equal(t, ErrNoDate.Error(), UserMessage(ErrNoDate))
}
