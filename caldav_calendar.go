package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

const caldavProductID = "-//carecal//carecal//EN"

type CalDAVProvider struct {
	client       *caldav.Client
	ctx          context.Context
	serverURL    string
	calendarPath string
}

func NewCalDAVProvider(ctx context.Context, serverURL, username, password, calendarID string) (*CalDAVProvider, error) {
	baseURL, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid CalDAV server URL: %w", err)
	}

	// Create HTTP client with authentication if needed
	var httpClient webdav.HTTPClient = http.DefaultClient
	if username != "" && password != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, username, password)
	}

	c, err := caldav.NewClient(httpClient, baseURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create CalDAV client: %w", err)
	}

	calendarPath := calendarID
	if calURL, err := url.Parse(calendarID); err == nil && calURL.Path != "" {
		calendarPath = strings.TrimRight(calURL.Path, "/")
	}

	return &CalDAVProvider{
		client:       c,
		ctx:          ctx,
		serverURL:    strings.TrimRight(serverURL, "/"),
		calendarPath: calendarPath,
	}, nil
}

// CheckAccess lists calendars at the server root. Basic auth has no
// interactive grant step, so RequestAccess performs the same check.
func (c *CalDAVProvider) CheckAccess() error {
	if _, err := c.client.FindCalendars(c.ctx, ""); err != nil {
		return fmt.Errorf("failed to connect to CalDAV server: %w", err)
	}
	return nil
}

func (c *CalDAVProvider) RequestAccess() error {
	return c.CheckAccess()
}

func (c *CalDAVProvider) collectionPath(calendarID string) string {
	if calendarID == "" {
		return c.calendarPath
	}
	if calURL, err := url.Parse(calendarID); err == nil && calURL.Path != "" {
		return strings.TrimRight(calURL.Path, "/")
	}
	return strings.TrimRight(calendarID, "/")
}

func (c *CalDAVProvider) SaveEvent(title string, opts EventOptions) (string, error) {
	eventUID := uuid.NewString()

	icalEvent := ical.NewEvent()
	icalEvent.Component.Props.SetText("UID", eventUID)
	icalEvent.Component.Props.SetDateTime("DTSTAMP", time.Now().UTC())
	icalEvent.Component.Props.SetText("SUMMARY", title)
	if opts.Notes != "" {
		icalEvent.Component.Props.SetText("DESCRIPTION", opts.Notes)
	}
	icalEvent.Component.Props.SetDateTime("DTSTART", opts.StartDate)
	icalEvent.Component.Props.SetDateTime("DTEND", opts.EndDate)
	icalEvent.Component.Props.SetText("STATUS", "CONFIRMED")

	// RRULE and TRIGGER are not TEXT properties; SetText would escape their
	// semicolons and stamp VALUE=TEXT on them, which servers reject.
	if rule := recurrenceRuleFor(opts); rule != "" {
		if ropt, err := rrule.StrToROption(rule); err != nil {
			log.Printf("Warning: skipping unreadable recurrence rule %q: %v", rule, err)
		} else {
			icalEvent.Component.Props.SetRecurrenceRule(ropt)
		}
	}

	for _, offset := range opts.AlarmOffsets {
		alarm := &ical.Component{Name: "VALARM", Props: make(ical.Props)}
		alarm.Props.SetText("ACTION", "DISPLAY")
		alarm.Props.SetText("DESCRIPTION", title)
		trigger := ical.NewProp("TRIGGER")
		trigger.Value = fmt.Sprintf("-PT%dM", int(offset.Minutes()))
		alarm.Props.Set(trigger)
		icalEvent.Component.Children = append(icalEvent.Component.Children, alarm)
	}

	// The encoder requires exactly one VERSION and PRODID on the calendar
	// and a DTSTAMP on every event.
	calendar := ical.NewCalendar()
	calendar.Props.SetText("VERSION", "2.0")
	calendar.Props.SetText("PRODID", caldavProductID)
	calendar.Component.Children = append(calendar.Component.Children, icalEvent.Component)

	path := c.collectionPath(opts.CalendarID) + "/" + eventUID + ".ics"
	if _, err := c.client.PutCalendarObject(c.ctx, path, calendar); err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}

	return eventUID, nil
}

func (c *CalDAVProvider) RemoveEvent(eventID string) error {
	path := c.calendarPath + "/" + eventID + ".ics"
	if err := c.client.Client.RemoveAll(c.ctx, path); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (c *CalDAVProvider) FindEventByID(eventID string) (*Event, error) {
	path := c.calendarPath + "/" + eventID + ".ics"
	obj, err := c.client.GetCalendarObject(c.ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if obj == nil || obj.Data == nil {
		return nil, nil
	}

	event := &Event{ID: eventID}
	if events := obj.Data.Events(); len(events) > 0 {
		props := events[0].Component.Props
		if prop := props.Get("SUMMARY"); prop != nil {
			event.Summary = prop.Value
		}
		if prop := props.Get("DESCRIPTION"); prop != nil {
			event.Notes = prop.Value
		}
		if prop := props.Get("STATUS"); prop != nil {
			event.Status = strings.ToLower(prop.Value)
		}
		if start, err := props.DateTime("DTSTART", time.Local); err == nil {
			event.Start = start
		}
		if end, err := props.DateTime("DTEND", time.Local); err == nil {
			event.End = end
		}
	}
	return event, nil
}

// EventURL points at the stored object itself; most CalDAV-backed calendar
// apps can open it directly.
func (c *CalDAVProvider) EventURL(eventID string, at time.Time) string {
	return c.serverURL + c.calendarPath + "/" + eventID + ".ics"
}
