package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pfrederiksen/lovetrack/internal/duration"
	"github.com/pfrederiksen/lovetrack/internal/kv"
	"github.com/pfrederiksen/lovetrack/internal/logger"
	"github.com/pfrederiksen/lovetrack/internal/model"
)

const (
	// CurrentKey holds the full envelope.
	CurrentKey = "loveTrackFullData"
	// LegacyKey holds the bare relationship object.
	LegacyKey = "loveTrackData"
)

// SlotState describes what Load found in the store.
type SlotState int

const (
	// SlotUnset means neither slot held usable data.
	SlotUnset SlotState = iota
	// SlotLegacyOnly means only the legacy relationship object was usable.
	SlotLegacyOnly
	// SlotCurrent means the current envelope was usable.
	SlotCurrent
)

func (s SlotState) String() string {
	switch s {
	case SlotLegacyOnly:
		return "legacy-only"
	case SlotCurrent:
		return "current"
	default:
		return "unset"
	}
}

// Storage handles persistence of the AppData envelope
type Storage struct {
	kv  kv.Store
	now func() time.Time
	log *logger.Logger
}

// Option configures a Storage.
type Option func(*Storage)

// WithClock sets the clock used to compute the default start date.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

// WithLogger sets the logger used to report degraded loads.
func WithLogger(l *logger.Logger) Option {
	return func(s *Storage) {
		s.log = l
	}
}

// New creates a Storage on top of store.
func New(store kv.Store, opts ...Option) *Storage {
	s := &Storage{
		kv:  store,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Default()
	}
	return s
}

// DefaultAppData returns the envelope used on first run: placeholder names, a start
// date two years and one month before now, the default background and no entries.
func DefaultAppData(now time.Time) *model.AppData {
	return model.NewAppData(model.RelationshipData{
		MyName:             model.DefaultMyName,
		PartnerName:        model.DefaultPartnerName,
		StartDate:          duration.DefaultStartDate(now),
		BackgroundImageURL: model.DefaultBackgroundImageURL,
	})
}

// Save writes the full envelope to the current slot and the bare relationship object
// to the legacy slot.
func (s *Storage) Save(data *model.AppData) error {
	start := time.Now()
	defer func() {
		logger.RecordTiming("storage.save", time.Since(start))
	}()

	snapshot := data.Clone()
	snapshot.Normalize()

	full, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding envelope: %w", err)
	}
	legacy, err := json.Marshal(snapshot.Relationship)
	if err != nil {
		return fmt.Errorf("encoding relationship: %w", err)
	}

	if err := s.kv.Set(CurrentKey, string(full)); err != nil {
		logger.IncrCounter("storage.save_failed")
		return fmt.Errorf("saving envelope: %w", err)
	}
	if err := s.kv.Set(LegacyKey, string(legacy)); err != nil {
		logger.IncrCounter("storage.save_failed")
		return fmt.Errorf("saving legacy relationship: %w", err)
	}

	logger.IncrCounter("storage.save")
	s.log.Debug("Saved envelope", logger.Fields{
		"events": len(snapshot.Events),
		"trips":  len(snapshot.Trips),
		"bytes":  len(full),
	})
	return nil
}
