// Package options defines the settings page options record, its defaults, and
// the named filter table other code uses to alter those defaults before the
// record is first persisted.
//
// The record is a struct rather than a free-form map: every known key is
// always present, and Lookup returns "" for anything else.
package options
