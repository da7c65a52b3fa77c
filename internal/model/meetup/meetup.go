package meetup

import (
	"time"

	"github.com/deppfellow/meetapp/internal/model"
)

type Meetup struct {
	model.Base
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location" db:"location"`
	Date        time.Time `json:"date" db:"date"`
	Banner      *string   `json:"banner" db:"banner"`
	OrganizerID int64     `json:"organizer_id,string" db:"organizer_id"`
}

// StartOfHour truncates t to the start of its hour in t's own location.
func StartOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// Elapsed reports whether the hour the meetup starts in is already before now.
func Elapsed(date, now time.Time) bool {
	return StartOfHour(date).Before(now)
}

// DeleteResult confirms a deletion.
type DeleteResult struct {
	Message string `json:"message"`
}
