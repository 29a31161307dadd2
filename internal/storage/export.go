package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pfrederiksen/lovetrack/internal/logger"
	"github.com/pfrederiksen/lovetrack/internal/model"
)

// BackupFilename returns the download name for a backup taken at t,
// e.g. lovetrack-backup-2024-03-20.json. The date is taken in UTC.
func BackupFilename(t time.Time) string {
	return fmt.Sprintf("lovetrack-backup-%s.json", t.UTC().Format(model.DateLayout))
}

// ExportSnapshot serializes the envelope as pretty-printed JSON with two-space indentation.
// Missing events or trips are written as empty arrays.
func ExportSnapshot(data *model.AppData) ([]byte, error) {
	snapshot := data.Clone()
	snapshot.Normalize()

	out, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}

	logger.IncrCounter("storage.export")
	return out, nil
}

// ImportSnapshot parses a backup produced by ExportSnapshot. Nothing is applied here:
// the caller installs the returned envelope, so a rejected import never touches state.
//
// The bytes must be valid JSON (ErrMalformed otherwise) holding an object with
// relationship, events and trips set, with a valid start date and entries whose ids,
// dates and categories are valid (ErrInvalidFormat otherwise). Empty names, titles and
// destinations are accepted. A leading byte order mark is ignored. Sealed backups yield
// ErrEncrypted.
func ImportSnapshot(raw []byte) (*model.AppData, error) {
	raw = trimInput(raw)
	var probe interface{}
	if err := json.Unmarshal(raw, &probe); err != nil {
		logger.IncrCounter("storage.import.rejected")
		return nil, importError(ErrMalformed, err)
	}

	if isSealed(raw) {
		logger.IncrCounter("storage.import.rejected")
		return nil, importError(ErrEncrypted, nil)
	}

	data, err := decodeEnvelope(raw)
	if err != nil {
		logger.IncrCounter("storage.import.rejected")
		return nil, importError(ErrInvalidFormat, err)
	}

	logger.IncrCounter("storage.import")
	return data, nil
}

var utf8BOM = []byte("\xef\xbb\xbf")

// trimInput drops a leading UTF-8 byte order mark, as written by some editors, and
// surrounding whitespace.
func trimInput(raw []byte) []byte {
	return bytes.TrimSpace(bytes.TrimPrefix(raw, utf8BOM))
}

func decodeEnvelope(raw []byte) (*model.AppData, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("top level is not an object")
	}

	for _, key := range []string{"relationship", "events", "trips"} {
		if !present(fields[key]) {
			return nil, fmt.Errorf("missing %s", key)
		}
	}

	var data model.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	data.Normalize()

	if err := model.ValidateImported(&data); err != nil {
		return nil, err
	}

	return &data, nil
}

// present reports whether a raw field holds a value other than null, false, 0 or "".
func present(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", "0", `""`:
		return false
	default:
		return true
	}
}
