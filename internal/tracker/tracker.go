// Package tracker owns lovetrack's in-memory state. Every mutation is validated,
// written through to storage and only then committed, so the in-memory envelope and
// the saved copy never diverge.
package tracker

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pfrederiksen/lovetrack/internal/duration"
	"github.com/pfrederiksen/lovetrack/internal/logger"
	"github.com/pfrederiksen/lovetrack/internal/model"
	"github.com/pfrederiksen/lovetrack/internal/storage"
)

// Persister is the storage the tracker writes through to.
type Persister interface {
	Load() (*model.AppData, storage.SlotState)
	Save(data *model.AppData) error
}

// Tracker is the single owner of the application state.
type Tracker struct {
	mu    sync.RWMutex
	store Persister
	calc  *duration.Calculator
	data  *model.AppData
	state storage.SlotState
}

// Open loads the saved envelope from store. A nil clock uses time.Now.
func Open(store Persister, clock func() time.Time) *Tracker {
	data, state := store.Load()
	data.Normalize()

	logger.Debug("Tracker opened", logger.Fields{
		"state":  state.String(),
		"events": len(data.Events),
		"trips":  len(data.Trips),
	})

	return &Tracker{
		store: store,
		calc:  duration.NewCalculator(clock),
		data:  data,
		state: state,
	}
}

// LoadState reports which storage tier the envelope was loaded from.
func (t *Tracker) LoadState() storage.SlotState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.calc.Now()
}

// Snapshot returns a deep copy of the current envelope.
func (t *Tracker) Snapshot() *model.AppData {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.data.Clone()
}

// Relationship returns the current relationship data.
func (t *Tracker) Relationship() model.RelationshipData {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.data.Relationship
}

// Duration computes the elapsed time since the relationship's start date.
func (t *Tracker) Duration() (duration.Breakdown, error) {
	return t.calc.Compute(t.Relationship().StartDate)
}

// commit saves next and, only if that succeeds, installs it as the current state.
// The caller must hold t.mu.
func (t *Tracker) commit(next *model.AppData, op string) error {
	start := time.Now()
	if err := t.store.Save(next); err != nil {
		logger.Error("Failed to save state", logger.Fields{"op": op}, err)
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.RecordTiming("tracker.commit", time.Since(start))
	logger.IncrCounter("tracker." + op)

	t.data = next
	t.state = storage.SlotCurrent
	return nil
}

// UpdateRelationship replaces the relationship data. An empty background falls back
// to the default image.
func (t *Tracker) UpdateRelationship(rel model.RelationshipData) error {
	rel.MyName = strings.TrimSpace(rel.MyName)
	rel.PartnerName = strings.TrimSpace(rel.PartnerName)
	rel.StartDate = strings.TrimSpace(rel.StartDate)
	rel.BackgroundImageURL = strings.TrimSpace(rel.BackgroundImageURL)
	if rel.BackgroundImageURL == "" {
		rel.BackgroundImageURL = model.DefaultBackgroundImageURL
	}

	if err := model.Validate(rel); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.data.Clone()
	next.Relationship = rel
	return t.commit(next, "update_relationship")
}

// AddEvent appends a new event. An empty category defaults to activity.
func (t *Tracker) AddEvent(title, date string, category model.Category) (model.CalendarEvent, error) {
	if category == "" {
		category = model.CategoryActivity
	}
	evt := model.CalendarEvent{
		ID:       model.NewID(),
		Title:    strings.TrimSpace(title),
		Date:     strings.TrimSpace(date),
		Category: category,
	}
	if err := model.Validate(evt); err != nil {
		return model.CalendarEvent{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.data.Clone()
	next.Events = append(next.Events, evt)
	if err := t.commit(next, "add_event"); err != nil {
		return model.CalendarEvent{}, err
	}
	return evt, nil
}

// DeleteEvent removes the event with id. Reports whether an event was removed;
// an unknown id leaves the state untouched and is not an error.
func (t *Tracker) DeleteEvent(id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.data.FindEvent(id)
	if i < 0 {
		return false, nil
	}

	next := t.data.Clone()
	next.Events = append(next.Events[:i], next.Events[i+1:]...)
	if err := t.commit(next, "delete_event"); err != nil {
		return false, err
	}
	return true, nil
}

// AddTrip appends a new trip. An empty date means now, stored as an RFC 3339 UTC timestamp.
func (t *Tracker) AddTrip(destination, date, image string) (model.Trip, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = t.calc.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	}
	trip := model.Trip{
		ID:          model.NewID(),
		Destination: strings.TrimSpace(destination),
		Date:        date,
		Image:       strings.TrimSpace(image),
	}
	if err := model.Validate(trip); err != nil {
		return model.Trip{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.data.Clone()
	next.Trips = append(next.Trips, trip)
	if err := t.commit(next, "add_trip"); err != nil {
		return model.Trip{}, err
	}
	return trip, nil
}

// DeleteTrip removes the trip with id. Reports whether a trip was removed;
// an unknown id leaves the state untouched and is not an error.
func (t *Tracker) DeleteTrip(id string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.data.FindTrip(id)
	if i < 0 {
		return false, nil
	}

	next := t.data.Clone()
	next.Trips = append(next.Trips[:i], next.Trips[i+1:]...)
	if err := t.commit(next, "delete_trip"); err != nil {
		return false, err
	}
	return true, nil
}

// Replace installs an imported envelope, fully replacing the current state.
func (t *Tracker) Replace(data *model.AppData) error {
	next := data.Clone()
	next.Normalize()
	if err := model.ValidateImported(next); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.commit(next, "replace")
}

// SortedEvents returns all events ordered by date. Events whose date cannot be parsed
// sort last, in their stored order.
func (t *Tracker) SortedEvents() []model.CalendarEvent {
	t.mu.RLock()
	events := make([]model.CalendarEvent, len(t.data.Events))
	copy(events, t.data.Events)
	t.mu.RUnlock()

	SortEventsByDate(events, t.calc.Now().Location())
	return events
}

// UpcomingEvents returns up to limit events that have not happened yet, soonest first.
// A limit of zero or less returns every upcoming event.
func (t *Tracker) UpcomingEvents(limit int) []model.CalendarEvent {
	now := t.calc.Now()

	upcoming := make([]model.CalendarEvent, 0)
	for _, evt := range t.SortedEvents() {
		if evt.IsUpcoming(now) {
			upcoming = append(upcoming, evt)
		}
	}

	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// SortEventsByDate sorts events chronologically in place, reading dates in loc.
func SortEventsByDate(events []model.CalendarEvent, loc *time.Location) {
	sort.SliceStable(events, func(i, j int) bool {
		ti, okI := events[i].Time(loc)
		tj, okJ := events[j].Time(loc)
		if okI != okJ {
			return okI
		}
		if !okI {
			return false
		}
		return ti.Before(tj)
	})
}
