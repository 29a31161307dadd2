// Package model provides the data types persisted by lovetrack.
//
// AppData is the envelope that is saved, exported and imported as a unit. It bundles the
// relationship settings with the user's calendar events and trips. Events and trips are
// identified by time-ordered ids, are only ever added or deleted, and carry their dates as
// the strings the user entered so a backup round-trips byte for byte.
package model
