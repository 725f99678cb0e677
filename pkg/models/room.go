package models

// Room is one bookable room from the catalog. The display image for a room
// is not stored here; it lives in the image cache keyed by Number.
type Room struct {
	Number string // stable identifier within the catalog ("1".."4")
	Name   string // display name
}

// DefaultCatalog returns the built-in room catalog shown until a remote
// catalog source exists.
func DefaultCatalog() []Room {
	return []Room{
		{Number: "1", Name: "Konferenzraum A"},
		{Number: "2", Name: "Besprechungsraum B"},
		{Number: "3", Name: "Schulungsraum C"},
		{Number: "4", Name: "Präsentationsraum D"},
	}
}
