package handler

import "time"

type locationRequest struct {
	Venue   string `json:"venue" validate:"required"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

type speakerRequest struct {
	Name         string `json:"name" validate:"required"`
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Bio          string `json:"bio"`
	Image        string `json:"image"`
}

type sponsorRequest struct {
	Name    string `json:"name" validate:"required"`
	Logo    string `json:"logo"`
	Website string `json:"website"`
}

type createEventRequest struct {
	Title              string           `json:"title" validate:"required,min=3"`
	Description        string           `json:"description" validate:"required,min=10"`
	Date               time.Time        `json:"date" validate:"required"`
	StartTime          string           `json:"startTime" validate:"required"`
	EndTime            string           `json:"endTime" validate:"required"`
	Location           locationRequest  `json:"location" validate:"required"`
	Category           string           `json:"category" validate:"required,oneof=workshop seminar conference exhibition other"`
	MaxParticipants    int              `json:"maxParticipants" validate:"required,gte=1"`
	IsVirtual          bool             `json:"isVirtual"`
	VirtualMeetingLink string           `json:"virtualMeetingLink"`
	Tags               []string         `json:"tags"`
	Image              string           `json:"image"`
	Requirements       string           `json:"requirements"`
	Agenda             string           `json:"agenda"`
	Speakers           []speakerRequest `json:"speakers" validate:"dive"`
	Sponsors           []sponsorRequest `json:"sponsors" validate:"dive"`
}

type updateEventRequest struct {
	Title              *string          `json:"title" validate:"omitempty,min=3"`
	Description        *string          `json:"description" validate:"omitempty,min=10"`
	Date               *time.Time       `json:"date"`
	StartTime          *string          `json:"startTime"`
	EndTime            *string          `json:"endTime"`
	Location           *locationRequest `json:"location"`
	Category           *string          `json:"category" validate:"omitempty,oneof=workshop seminar conference exhibition other"`
	MaxParticipants    *int             `json:"maxParticipants" validate:"omitempty,gte=1"`
	IsActive           *bool            `json:"isActive"`
	IsVirtual          *bool            `json:"isVirtual"`
	VirtualMeetingLink *string          `json:"virtualMeetingLink"`
	Tags               *[]string        `json:"tags"`
	Image              *string          `json:"image"`
	Requirements       *string          `json:"requirements"`
	Agenda             *string          `json:"agenda"`
}
