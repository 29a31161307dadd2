package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pfrederiksen/lovetrack/internal/logger"
	"github.com/pfrederiksen/lovetrack/internal/model"
)

// errSlotEmpty marks a slot that holds nothing worth migrating.
var errSlotEmpty = errors.New("slot empty")

// detection is the tagged result of a detector.
type detection struct {
	data  *model.AppData
	state SlotState
}

// detector tries to produce an envelope from one storage tier.
// It returns errSlotEmpty when its tier holds no data.
type detector struct {
	name   string
	detect func(s *Storage) (detection, error)
}

// detectors run in order; the first success wins.
var detectors = []detector{
	{name: "current", detect: (*Storage).detectCurrent},
	{name: "legacy", detect: (*Storage).detectLegacy},
}

// Load returns the saved envelope and the state it was found in. It never fails: a tier
// that cannot be read or parsed is logged and skipped, and when no tier yields data the
// default envelope is returned with SlotUnset.
func (s *Storage) Load() (*model.AppData, SlotState) {
	for _, d := range detectors {
		result, err := d.detect(s)
		if err == nil {
			logger.IncrCounter("storage.load." + d.name)
			s.log.Debug("Loaded envelope", logger.Fields{
				"tier":   d.name,
				"events": len(result.data.Events),
				"trips":  len(result.data.Trips),
			})
			return result.data, result.state
		}
		if !errors.Is(err, errSlotEmpty) {
			logger.IncrCounter("storage.load.degraded")
			s.log.Warn("Saved data unusable, trying next tier", logger.Fields{"tier": d.name}, err)
		}
	}

	logger.IncrCounter("storage.load.default")
	s.log.Info("No saved data, starting with defaults", nil)
	return DefaultAppData(s.now()), SlotUnset
}

func (s *Storage) detectCurrent() (detection, error) {
	raw, err := s.read(CurrentKey)
	if err != nil {
		return detection{}, err
	}

	var envelope struct {
		Relationship *model.RelationshipData `json:"relationship"`
		Events       []model.CalendarEvent   `json:"events"`
		Trips        []model.Trip            `json:"trips"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return detection{}, fmt.Errorf("parsing %s: %w", CurrentKey, err)
	}
	// An envelope without relationship data was never written by Save; fall through
	// to the legacy slot.
	if envelope.Relationship == nil {
		return detection{}, errSlotEmpty
	}

	data := &model.AppData{
		Relationship: *envelope.Relationship,
		Events:       envelope.Events,
		Trips:        envelope.Trips,
	}
	data.Normalize()
	return detection{data: data, state: SlotCurrent}, nil
}

func (s *Storage) detectLegacy() (detection, error) {
	raw, err := s.read(LegacyKey)
	if err != nil {
		return detection{}, err
	}

	var rel *model.RelationshipData
	if err := json.Unmarshal(raw, &rel); err != nil {
		return detection{}, fmt.Errorf("parsing %s: %w", LegacyKey, err)
	}
	if rel == nil {
		return detection{}, errSlotEmpty
	}

	return detection{data: model.NewAppData(*rel), state: SlotLegacyOnly}, nil
}

// read returns the raw slot value, or errSlotEmpty when the key is unset or blank.
func (s *Storage) read(key string) ([]byte, error) {
	value, ok, err := s.kv.Get(key)
	if err != nil {
		return nil, err
	}
	raw := bytes.TrimSpace([]byte(value))
	if !ok || len(raw) == 0 {
		return nil, errSlotEmpty
	}
	return raw, nil
}
