package domain

import "time"

// Event categories.
const (
	CategoryWorkshop   = "workshop"
	CategorySeminar    = "seminar"
	CategoryConference = "conference"
	CategoryExhibition = "exhibition"
	CategoryOther      = "other"
)

// ValidCategory reports whether category is one of the recognised categories.
func ValidCategory(category string) bool {
	switch category {
	case CategoryWorkshop, CategorySeminar, CategoryConference, CategoryExhibition, CategoryOther:
		return true
	}
	return false
}

// Location is the venue an event takes place at. All fields are required,
// including for virtual events (the hosting organisation's address).
type Location struct {
	Venue   string `json:"venue" bson:"venue"`
	Address string `json:"address" bson:"address"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zipCode" bson:"zipCode"`
	Country string `json:"country" bson:"country"`
}

// Speaker is a presenter listed on an event page.
type Speaker struct {
	Name         string `json:"name" bson:"name"`
	Title        string `json:"title" bson:"title"`
	Organization string `json:"organization" bson:"organization"`
	Bio          string `json:"bio,omitempty" bson:"bio,omitempty"`
	Image        string `json:"image,omitempty" bson:"image,omitempty"`
}

// Sponsor is an organisation backing an event.
type Sponsor struct {
	Name    string `json:"name" bson:"name"`
	Logo    string `json:"logo,omitempty" bson:"logo,omitempty"`
	Website string `json:"website,omitempty" bson:"website,omitempty"`
}

// Event is a bookable occurrence. CurrentParticipants is a denormalized seat
// counter; it must only ever change through the repository's conditional
// reserve/release operations so that
// 0 <= CurrentParticipants <= MaxParticipants holds at all times.
type Event struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Date                time.Time `json:"date"`
	StartTime           string    `json:"startTime"`
	EndTime             string    `json:"endTime"`
	Location            Location  `json:"location"`
	OrganizerID         string    `json:"organizer"`
	Category            string    `json:"category"`
	MaxParticipants     int       `json:"maxParticipants"`
	CurrentParticipants int       `json:"currentParticipants"`
	IsActive            bool      `json:"isActive"`
	IsVirtual           bool      `json:"isVirtual"`
	VirtualMeetingLink  string    `json:"virtualMeetingLink,omitempty"`
	Tags                []string  `json:"tags,omitempty"`
	Image               string    `json:"image,omitempty"`
	Requirements        string    `json:"requirements,omitempty"`
	Agenda              string    `json:"agenda,omitempty"`
	Speakers            []Speaker `json:"speakers,omitempty"`
	Sponsors            []Sponsor `json:"sponsors,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
