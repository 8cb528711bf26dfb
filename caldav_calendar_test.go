package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// putRecorder captures the body and path of PUT requests so tests can
// inspect the iCalendar payload a save produces.
type putRecorder struct {
	path string
	body string
}

func newCalDAVTestServer(rec *putRecorder) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			data, _ := io.ReadAll(r.Body)
			rec.path = r.URL.Path
			rec.body = string(data)
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCalDAVSaveEventEncodesValidCalendar(t *testing.T) {
	var rec putRecorder
	srv := newCalDAVTestServer(&rec)
	defer srv.Close()

	provider, err := NewCalDAVProvider(context.Background(), srv.URL, "", "", "/calendars/personal")
	if err != nil {
		t.Fatalf("NewCalDAVProvider returned error: %v", err)
	}

	eventID, err := provider.SaveEvent("Morning pills", EventOptions{
		StartDate:    time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC),
		Notes:        "Medicine: Ibuprofen",
		AlarmOffsets: []time.Duration{15 * time.Minute},
	})
	if err != nil {
		t.Fatalf("SaveEvent returned error: %v", err)
	}
	if eventID == "" {
		t.Fatal("expected a generated event ID")
	}
	if want := "/calendars/personal/" + eventID + ".ics"; rec.path != want {
		t.Errorf("event stored at %s, want %s", rec.path, want)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + caldavProductID,
		"DTSTAMP:",
		"UID:" + eventID,
		"SUMMARY:Morning pills",
		"BEGIN:VALARM",
	} {
		if !strings.Contains(rec.body, want) {
			t.Errorf("uploaded calendar missing %q:\n%s", want, rec.body)
		}
	}
}

func TestCalDAVSaveEventRecurrenceAndTriggerUnescaped(t *testing.T) {
	var rec putRecorder
	srv := newCalDAVTestServer(&rec)
	defer srv.Close()

	provider, err := NewCalDAVProvider(context.Background(), srv.URL, "", "", "/calendars/personal")
	if err != nil {
		t.Fatalf("NewCalDAVProvider returned error: %v", err)
	}

	if _, err := provider.SaveEvent("Morning pills", EventOptions{
		StartDate:      time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC),
		AlarmOffsets:   []time.Duration{15 * time.Minute},
		Recurrence:     "daily",
		RecurrenceRule: "FREQ=DAILY;INTERVAL=1;UNTIL=20260630T000000Z",
	}); err != nil {
		t.Fatalf("SaveEvent returned error: %v", err)
	}

	if want := "RRULE:FREQ=DAILY;INTERVAL=1;UNTIL=20260630T000000Z"; !strings.Contains(rec.body, want) {
		t.Errorf("uploaded calendar missing %q:\n%s", want, rec.body)
	}
	if want := "TRIGGER:-PT15M"; !strings.Contains(rec.body, want) {
		t.Errorf("uploaded calendar missing %q:\n%s", want, rec.body)
	}
	for _, banned := range []string{"VALUE=TEXT", `\;`} {
		if strings.Contains(rec.body, banned) {
			t.Errorf("uploaded calendar contains %q:\n%s", banned, rec.body)
		}
	}
}

func TestCalDAVSaveEventTagOnlyRecurrence(t *testing.T) {
	var rec putRecorder
	srv := newCalDAVTestServer(&rec)
	defer srv.Close()

	provider, err := NewCalDAVProvider(context.Background(), srv.URL, "", "", "/calendars/personal")
	if err != nil {
		t.Fatalf("NewCalDAVProvider returned error: %v", err)
	}

	if _, err := provider.SaveEvent("Weigh-in", EventOptions{
		StartDate:  time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC),
		Recurrence: "weekly",
	}); err != nil {
		t.Fatalf("SaveEvent returned error: %v", err)
	}

	if want := "RRULE:FREQ=WEEKLY"; !strings.Contains(rec.body, want) {
		t.Errorf("uploaded calendar missing %q:\n%s", want, rec.body)
	}
}
