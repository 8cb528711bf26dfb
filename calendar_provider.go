package main

import (
	"time"
)

// CalendarProvider is the host calendar binding. One instance per linked
// account; the engine holds no persistent handle beyond it and treats every
// call as a fresh permission-check-then-write round trip.
type CalendarProvider interface {
	CheckAccess() error
	RequestAccess() error
	SaveEvent(title string, opts EventOptions) (string, error)
	RemoveEvent(eventID string) error
	FindEventByID(eventID string) (*Event, error)
	EventURL(eventID string, at time.Time) string
}

// EventOptions carries everything a host write needs. Recurrence is the
// simple frequency tag; RecurrenceRule is a richer RRULE string that some
// hosts honor and others ignore, so it is only ever passed alongside the tag,
// never alone. An empty CalendarID means the account's default calendar.
type EventOptions struct {
	StartDate      time.Time
	EndDate        time.Time
	Notes          string
	AllDay         bool
	AlarmOffsets   []time.Duration
	Recurrence     string
	RecurrenceRule string
	CalendarID     string
}

type Event struct {
	ID      string
	Summary string
	Notes   string
	Start   time.Time
	End     time.Time
	Status  string
}
