// Package sync mirrors pending cheques into a dedicated Google calendar.
package sync

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/api/calendar/v3"

	"github.com/beekhof/cheque-reminders/internal/cheque"
	"github.com/beekhof/cheque-reminders/internal/config"
	"github.com/beekhof/cheque-reminders/internal/gcal"
)

// Popup reminder offsets, in minutes before the all-day event starts.
var reminderMinutes = []int64{24 * 60, 60}

// ChequeStore is the part of cheque.Repository the syncer uses.
type ChequeStore interface {
	List(ctx context.Context, f cheque.Filter) ([]*cheque.Cheque, error)
	Update(ctx context.Context, c *cheque.Cheque) error
}

// Stats counts what a sync run changed.
type Stats struct {
	Created int
	Updated int
	Deleted int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d created, %d updated, %d deleted, %d errors", s.Created, s.Updated, s.Deleted, s.Errors)
}

// Syncer pushes cheque reminders to Google Calendar.
type Syncer struct {
	client  gcal.CalendarClient
	store   ChequeStore
	config  *config.Config
	verbose bool
}

// NewSyncer creates a new Syncer instance.
func NewSyncer(client gcal.CalendarClient, store ChequeStore, cfg *config.Config, verbose bool) *Syncer {
	return &Syncer{
		client:  client,
		store:   store,
		config:  cfg,
		verbose: verbose,
	}
}

func (s *Syncer) debugf(format string, args ...any) {
	if s.verbose {
		log.Printf("DEBUG: "+format, args...)
	}
}

// prepareEvent builds the calendar event for a pending cheque: an all-day
// event on its effective date with two popup reminders.
func prepareEvent(c *cheque.Cheque) *calendar.Event {
	day := c.EffectiveDate()

	lines := []string{
		"Payee: " + c.PayeeName,
		"Amount: " + cheque.FormatAmount(c.Amount),
		"Bank: " + c.BankName,
		"Due Date: " + c.DueDate.String(),
		"Status: " + string(c.Status),
	}
	if note := c.AdjustmentNote(); note != "" {
		lines = append(lines, "", note)
	}

	overrides := make([]*calendar.EventReminder, 0, len(reminderMinutes))
	for _, m := range reminderMinutes {
		overrides = append(overrides, &calendar.EventReminder{Method: "popup", Minutes: m})
	}

	return &calendar.Event{
		Summary:     "Cheque Due: " + c.ChequeNumber,
		Description: strings.Join(lines, "\n"),
		Start:       &calendar.EventDateTime{Date: day.String()},
		End:         &calendar.EventDateTime{Date: day.AddDays(1).String()},
		Reminders: &calendar.EventReminders{
			UseDefault:      false,
			Overrides:       overrides,
			ForceSendFields: []string{"UseDefault"},
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				gcal.ChequeIDProperty: c.ID.String(),
			},
		},
	}
}

// eventsEqual reports whether the synced fields of two events match.
func (s *Syncer) eventsEqual(existing, prepared *calendar.Event) bool {
	if existing.Summary != prepared.Summary {
		s.debugf("summary mismatch: %v != %v", existing.Summary, prepared.Summary)
		return false
	}
	if existing.Description != prepared.Description {
		s.debugf("description mismatch for %v", prepared.Summary)
		return false
	}
	if existing.Start == nil || existing.Start.Date != prepared.Start.Date {
		s.debugf("start date mismatch for %v", prepared.Summary)
		return false
	}
	if existing.End == nil || existing.End.Date != prepared.End.Date {
		s.debugf("end date mismatch for %v", prepared.Summary)
		return false
	}
	if existing.Reminders == nil || len(existing.Reminders.Overrides) != len(prepared.Reminders.Overrides) {
		s.debugf("reminders mismatch for %v", prepared.Summary)
		return false
	}
	for i, r := range existing.Reminders.Overrides {
		want := prepared.Reminders.Overrides[i]
		if r.Method != want.Method || r.Minutes != want.Minutes {
			s.debugf("reminder %d mismatch for %v", i, prepared.Summary)
			return false
		}
	}
	return true
}

// Sync creates or updates an event for every pending cheque and removes the
// events of cheques that have cleared or bounced. Failures for individual
// cheques are logged and counted; only setup failures are returned.
func (s *Syncer) Sync(ctx context.Context) (Stats, error) {
	var stats Stats
	log.Println("Starting sync...")

	calendarID, err := s.client.FindOrCreateCalendarByName(ctx, s.config.SyncCalendarName, s.config.SyncCalendarColorID)
	if err != nil {
		return stats, err
	}

	pending, err := s.store.List(ctx, cheque.Filter{Status: cheque.StatusPending})
	if err != nil {
		return stats, fmt.Errorf("failed to list pending cheques: %w", err)
	}
	for _, c := range pending {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := s.syncPending(ctx, calendarID, c, &stats); err != nil {
			log.Printf("Warning: failed to sync cheque %s: %v", c.ChequeNumber, err)
			stats.Errors++
		}
	}

	synced, err := s.store.List(ctx, cheque.Filter{HasGoogleEvent: true})
	if err != nil {
		return stats, fmt.Errorf("failed to list synced cheques: %w", err)
	}
	for _, c := range synced {
		if c.Status == cheque.StatusPending {
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := s.removeResolved(ctx, calendarID, c); err != nil {
			log.Printf("Warning: failed to remove event for cheque %s: %v", c.ChequeNumber, err)
			stats.Errors++
			continue
		}
		stats.Deleted++
	}

	log.Printf("Sync complete: %s", stats)
	return stats, nil
}

// syncPending makes sure exactly one up to date event exists for c.
func (s *Syncer) syncPending(ctx context.Context, calendarID string, c *cheque.Cheque, stats *Stats) error {
	prepared := prepareEvent(c)
	previousID := c.GoogleEventID

	var existing *calendar.Event
	if c.GoogleEventID != "" {
		ev, err := s.client.GetEvent(ctx, calendarID, c.GoogleEventID)
		switch {
		case err == nil:
			existing = ev
		case gcal.IsNotFound(err):
			s.debugf("event %s for cheque %s is gone, looking it up by cheque id", c.GoogleEventID, c.ChequeNumber)
		default:
			return err
		}
	}

	if existing == nil {
		found, err := s.client.FindEventsByChequeID(ctx, calendarID, c.ID.String())
		if err != nil {
			return err
		}
		if len(found) > 0 {
			existing = found[0]
			log.Printf("Recovered event %s for cheque %s", existing.Id, c.ChequeNumber)
			for _, dup := range found[1:] {
				if err := s.client.DeleteEvent(ctx, calendarID, dup.Id); err != nil {
					log.Printf("Warning: failed to delete duplicate event %s for cheque %s: %v", dup.Id, c.ChequeNumber, err)
					continue
				}
				log.Printf("Deleted duplicate event %s for cheque %s", dup.Id, c.ChequeNumber)
			}
		}
	}

	switch {
	case existing == nil:
		created, err := s.client.InsertEvent(ctx, calendarID, prepared)
		if err != nil {
			return err
		}
		c.GoogleEventID = created.Id
		stats.Created++
		log.Printf("Inserted event %s for cheque %s on %s", created.Id, c.ChequeNumber, prepared.Start.Date)
	case !s.eventsEqual(existing, prepared):
		if _, err := s.client.UpdateEvent(ctx, calendarID, existing.Id, prepared); err != nil {
			return err
		}
		c.GoogleEventID = existing.Id
		stats.Updated++
		log.Printf("Updated event %s for cheque %s", existing.Id, c.ChequeNumber)
	default:
		c.GoogleEventID = existing.Id
		s.debugf("event %s for cheque %s is up to date", existing.Id, c.ChequeNumber)
	}

	if c.GoogleEventID != previousID {
		if err := s.store.Update(ctx, c); err != nil {
			return fmt.Errorf("failed to record event id: %w", err)
		}
	}
	return nil
}

// removeResolved deletes the event of a cleared or bounced cheque and forgets
// its id.
func (s *Syncer) removeResolved(ctx context.Context, calendarID string, c *cheque.Cheque) error {
	if err := s.client.DeleteEvent(ctx, calendarID, c.GoogleEventID); err != nil {
		return err
	}
	log.Printf("Deleted event %s for %s cheque %s", c.GoogleEventID, c.Status, c.ChequeNumber)

	c.GoogleEventID = ""
	if err := s.store.Update(ctx, c); err != nil {
		return fmt.Errorf("failed to clear event id: %w", err)
	}
	return nil
}
