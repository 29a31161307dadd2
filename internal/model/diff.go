package model

// FieldChange records a relationship field whose value differs between two envelopes.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// DiffResult summarizes what replacing one envelope with another would change.
type DiffResult struct {
	RelationshipChanges []FieldChange   `json:"relationship_changes"`
	AddedEvents         []CalendarEvent `json:"added_events"`
	RemovedEvents       []CalendarEvent `json:"removed_events"`
	AddedTrips          []Trip          `json:"added_trips"`
	RemovedTrips        []Trip          `json:"removed_trips"`
}

// IsEmpty reports whether the two envelopes were equivalent.
func (r *DiffResult) IsEmpty() bool {
	return len(r.RelationshipChanges) == 0 &&
		len(r.AddedEvents) == 0 &&
		len(r.RemovedEvents) == 0 &&
		len(r.AddedTrips) == 0 &&
		len(r.RemovedTrips) == 0
}

// Diff compares the current envelope against an incoming one. Events and trips are matched
// by id; an entry kept under the same id but with different content counts as removed and added.
// Results keep the order of the envelope they come from.
func Diff(current, incoming *AppData) *DiffResult {
	result := &DiffResult{
		RelationshipChanges: make([]FieldChange, 0),
		AddedEvents:         make([]CalendarEvent, 0),
		RemovedEvents:       make([]CalendarEvent, 0),
		AddedTrips:          make([]Trip, 0),
		RemovedTrips:        make([]Trip, 0),
	}

	if current == nil {
		current = NewAppData(RelationshipData{})
	}
	if incoming == nil {
		incoming = NewAppData(RelationshipData{})
	}

	result.RelationshipChanges = DetectChanges(current.Relationship, incoming.Relationship)

	currentEvents := make(map[string]CalendarEvent, len(current.Events))
	for _, e := range current.Events {
		currentEvents[e.ID] = e
	}
	incomingEvents := make(map[string]CalendarEvent, len(incoming.Events))
	for _, e := range incoming.Events {
		incomingEvents[e.ID] = e
	}
	for _, e := range current.Events {
		if other, ok := incomingEvents[e.ID]; !ok || other != e {
			result.RemovedEvents = append(result.RemovedEvents, e)
		}
	}
	for _, e := range incoming.Events {
		if other, ok := currentEvents[e.ID]; !ok || other != e {
			result.AddedEvents = append(result.AddedEvents, e)
		}
	}

	currentTrips := make(map[string]Trip, len(current.Trips))
	for _, t := range current.Trips {
		currentTrips[t.ID] = t
	}
	incomingTrips := make(map[string]Trip, len(incoming.Trips))
	for _, t := range incoming.Trips {
		incomingTrips[t.ID] = t
	}
	for _, t := range current.Trips {
		if other, ok := incomingTrips[t.ID]; !ok || other != t {
			result.RemovedTrips = append(result.RemovedTrips, t)
		}
	}
	for _, t := range incoming.Trips {
		if other, ok := currentTrips[t.ID]; !ok || other != t {
			result.AddedTrips = append(result.AddedTrips, t)
		}
	}

	return result
}

// DetectChanges compares two relationship records field by field.
func DetectChanges(previous, current RelationshipData) []FieldChange {
	changes := make([]FieldChange, 0)

	add := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, FieldChange{Field: field, OldValue: oldValue, NewValue: newValue})
		}
	}

	add("myName", previous.MyName, current.MyName)
	add("partnerName", previous.PartnerName, current.PartnerName)
	add("startDate", previous.StartDate, current.StartDate)
	add("backgroundImageUrl", previous.BackgroundImageURL, current.BackgroundImageURL)

	return changes
}
