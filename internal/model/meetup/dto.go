package meetup

import (
	"time"

	"github.com/deppfellow/meetapp/internal/validation"
)

// ------------------------------------------------------------

type ListMeetupsPayload struct{}

func (p *ListMeetupsPayload) Validate() error {
	return nil
}

// ------------------------------------------------------------

type CreateMeetupPayload struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Location    string    `json:"location" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	Banner      *string   `json:"banner" validate:"omitempty,max=255"`
}

func (p *CreateMeetupPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

// UpdateMeetupPayload is a partial update; nil fields are left unchanged.
type UpdateMeetupPayload struct {
	ID          int64      `param:"id" json:"-" validate:"required,gt=0"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Date        *time.Time `json:"date"`
	Banner      *string    `json:"banner" validate:"omitempty,max=255"`
}

func (p *UpdateMeetupPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

// MeetupIDPayload addresses a single meetup by its path id.
type MeetupIDPayload struct {
	ID int64 `param:"id" json:"-" validate:"required,gt=0"`
}

func (p *MeetupIDPayload) Validate() error {
	return validation.Struct(p)
}
