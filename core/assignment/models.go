package assignment

import (
	"errors"
	"time"

	"github.com/trezcool/wasilisha/core"
)

var errBadDeadline = errors.New("deadline format is invalid")

type Assignment struct {
	ID          int    `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Deadline    string `json:"deadline" db:"deadline"` // minute-precision text
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Deadline    string `json:"deadline" validate:"required"`
}

// deadline inputs accepted from clients; HTML datetime-local first.
var deadlineFormats = []string{"2006-01-02T15:04", core.MinuteFormat}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Deadline = core.CleanString(na.Deadline)

	if err := core.Validate.Struct(na); err != nil {
		return err
	}

	deadline, err := parseDeadline(na.Deadline)
	if err != nil {
		return core.NewValidationError(errBadDeadline, core.FieldError{Field: "deadline", Error: errBadDeadline.Error()})
	}
	na.Deadline = deadline.Format(core.MinuteFormat)
	return nil
}

func parseDeadline(value string) (time.Time, error) {
	var t time.Time
	var err error
	for _, format := range deadlineFormats {
		if t, err = time.Parse(format, value); err == nil {
			return t, nil
		}
	}
	return t, err
}
