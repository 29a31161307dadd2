// Package storage persists lovetrack's AppData envelope in a key-value Store.
//
// Two slots are used. The current slot (loveTrackFullData) holds the full envelope
// with relationship data, events and trips. The legacy slot (loveTrackData) holds the
// bare relationship object written by older releases; it is still refreshed on every
// save so a downgrade keeps working.
//
// Load runs a fixed sequence of detectors (current, legacy, default) and never fails:
// an unreadable or malformed slot is logged and the next detector is tried.
// Import and export use the pretty-printed envelope, optionally sealed with a passphrase.
package storage
