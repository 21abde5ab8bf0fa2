// Package schedule models the shop's working calendar: weekly opening
// hours, fixed yearly holidays, candidate booking slots and named query
// ranges. Everything here is a pure function of its inputs; the calendar
// is an immutable value so multiple configurations can coexist.
package schedule
