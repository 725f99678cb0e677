package models

import "time"

// ImageSlots is the number of upload slots in the booking dialog. Slot i
// corresponds to the room catalog entry at position i.
const ImageSlots = 4

// ImageAttachment is an image picked by the user for one upload slot.
type ImageAttachment struct {
	Name string // original file name, used as the multipart file name
	Data []byte
}

// BookingDraft is an in-progress booking. It exists while the booking dialog
// is open and is discarded on successful submission or cancel.
type BookingDraft struct {
	Title  string    // optional, a default is derived from the date when empty
	Date   time.Time // required before submission
	Room   string    // room number the booking is for
	Images [ImageSlots]*ImageAttachment
}

// HasDate reports whether a target date has been chosen. Submission is
// blocked until it has.
func (d *BookingDraft) HasDate() bool {
	return !d.Date.IsZero()
}

// AttachedImages returns the non-empty slots keyed by their 1-based slot
// number, matching the backend's image_1..image_4 form fields.
func (d *BookingDraft) AttachedImages() map[int]*ImageAttachment {
	out := make(map[int]*ImageAttachment)
	for i, img := range d.Images {
		if img != nil && len(img.Data) > 0 {
			out[i+1] = img
		}
	}
	return out
}

// ClearImages drops all image slots, keeping title, date and room.
func (d *BookingDraft) ClearImages() {
	for i := range d.Images {
		d.Images[i] = nil
	}
}
