// Package sanitizer normalizes customer input before validation and
// storage. All functions are idempotent and never return errors:
// unusable input comes back as an empty string.
package sanitizer
