package workflow

import (
	"context"
	"strings"
	"sync"
	"time"

	"omnidesk/internal/api"
)

// EventDraft is the calendar form being edited.
type EventDraft struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// CalendarController owns the single-shot event-creation workflow. The draft
// survives a failed submission for correction and is reset on success.
type CalendarController struct {
	mu           sync.Mutex
	svc          api.Service
	draft        EventDraft
	submitting   bool
	confirmation string
	eventLink    string
	err          string
}

// CalendarSnapshot is a consistent copy of the calendar workflow state.
type CalendarSnapshot struct {
	Draft        EventDraft
	Submitting   bool
	Confirmation string
	EventLink    string
	Err          string
}

func NewCalendar(svc api.Service) *CalendarController {
	return &CalendarController{svc: svc}
}

// SetDraft replaces the draft under edit.
func (c *CalendarController) SetDraft(d EventDraft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
}

// Submit validates the draft and sends it. Validation failures short-circuit
// before any network call.
func (c *CalendarController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	draft := c.draft
	if strings.TrimSpace(draft.Title) == "" || draft.Start.IsZero() || draft.End.IsZero() {
		c.err = "Please fill in all required fields"
		c.mu.Unlock()
		return validationErr("Please fill in all required fields")
	}
	if !draft.End.After(draft.Start) {
		c.err = "End time must be after start time"
		c.mu.Unlock()
		return validationErr("End time must be after start time")
	}
	c.submitting = true
	c.err = ""
	c.mu.Unlock()

	conf, err := c.svc.CreateEvent(ctx, api.EventRequest{
		Title:       draft.Title,
		Description: draft.Description,
		Start:       draft.Start,
		End:         draft.End,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		// draft preserved so the user can correct and resubmit
		c.err = err.Error()
		return err
	}
	c.confirmation = "Event created successfully!"
	c.eventLink = conf.EventLink
	c.draft = EventDraft{}
	return nil
}

// Snapshot returns a copy of the current calendar workflow state.
func (c *CalendarController) Snapshot() CalendarSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CalendarSnapshot{
		Draft:        c.draft,
		Submitting:   c.submitting,
		Confirmation: c.confirmation,
		EventLink:    c.eventLink,
		Err:          c.err,
	}
}
