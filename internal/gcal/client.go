// Package gcal is a thin wrapper around the Google Calendar API.
package gcal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ChequeIDProperty is the private extended property that links an event to
// the cheque it reminds about.
const ChequeIDProperty = "chequeId"

// CalendarClient is the set of calendar operations the syncer needs.
type CalendarClient interface {
	FindOrCreateCalendarByName(ctx context.Context, name, colorID string) (string, error)
	GetEvent(ctx context.Context, calendarID, eventID string) (*calendar.Event, error)
	FindEventsByChequeID(ctx context.Context, calendarID, chequeID string) ([]*calendar.Event, error)
	InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// Client is a wrapper around the Google Calendar API service.
type Client struct {
	service *calendar.Service
}

var _ CalendarClient = (*Client)(nil)

// NewClient creates a new Google Calendar API client using the provided HTTP
// client. Extra options are passed to the service, e.g. a test endpoint.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Client{service: service}, nil
}

// IsNotFound reports whether err is a Google API 404 or 410.
func IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone
	}
	return false
}

// FindOrCreateCalendarByName finds an existing calendar by name or creates a
// new one. Returns the calendar ID.
func (c *Client) FindOrCreateCalendarByName(ctx context.Context, name, colorID string) (string, error) {
	calendarList, err := c.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list calendars: %w", err)
	}
	for _, cal := range calendarList.Items {
		if cal.Summary == name {
			return cal.Id, nil
		}
	}

	created, err := c.service.Calendars.Insert(&calendar.Calendar{
		Summary:     name,
		Description: "Post-dated cheque reminders",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create calendar: %w", err)
	}
	log.Printf("Created calendar %q (%s)", name, created.Id)

	if colorID != "" {
		_, err = c.service.CalendarList.Patch(created.Id, &calendar.CalendarListEntry{
			ColorId: colorID,
		}).Context(ctx).Do()
		if err != nil {
			log.Printf("Warning: failed to set calendar color: %v", err)
		}
	}

	return created.Id, nil
}

// GetEvent retrieves a single event by ID. Deleted events are reported as
// not found.
func (c *Client) GetEvent(ctx context.Context, calendarID, eventID string) (*calendar.Event, error) {
	event, err := c.service.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event.Status == "cancelled" {
		return nil, fmt.Errorf("failed to get event: %w", &googleapi.Error{Code: http.StatusGone, Message: "event cancelled"})
	}
	return event, nil
}

// FindEventsByChequeID finds events carrying the given cheque id in their
// private extended properties.
func (c *Client) FindEventsByChequeID(ctx context.Context, calendarID, chequeID string) ([]*calendar.Event, error) {
	eventsList, err := c.service.Events.List(calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", ChequeIDProperty, chequeID)).
		SingleEvents(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to find events by cheque ID: %w", err)
	}
	return eventsList.Items, nil
}

// InsertEvent inserts a new event into a calendar without notifying anyone.
func (c *Client) InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	created, err := c.service.Events.Insert(calendarID, event).
		SendUpdates("none").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return created, nil
}

// UpdateEvent replaces an existing event in a calendar.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error) {
	updated, err := c.service.Events.Update(calendarID, eventID, event).
		SendUpdates("none").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return updated, nil
}

// DeleteEvent deletes an event from a calendar. An event that is already
// gone counts as deleted.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	err := c.service.Events.Delete(calendarID, eventID).
		SendUpdates("none").
		Context(ctx).
		Do()
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}
