// Package ics renders minimal RFC 5545 iCalendar documents: a VCALENDAR
// wrapper and VEVENT components with the properties the calendar export
// endpoints need. Output uses CRLF line endings, 75-octet line folding
// and TEXT escaping per the RFC so standard calendar clients accept it.
package ics

import (
	"bytes"
	"strings"
	"time"
)

const (
	// Every exported event is opaque busy time and confirmed, so
	// calendar clients treat appointments and closed blocks uniformly.
	TransparencyOpaque = "OPAQUE"
	StatusConfirmed    = "CONFIRMED"
	ClassPublic        = "PUBLIC"

	dateTimeUTC = "20060102T150405Z"
	foldLimit   = 75
)

type Calendar struct {
	ProdID   string
	Name     string
	TimeZone string
	Method   string
	events   []Event
}

type Event struct {
	UID          string
	Summary      string
	Description  string
	Start        time.Time
	End          time.Time
	Status       string
	Transparency string
	Class        string
	// Stamp is the DTSTAMP value; the zero value falls back to Start so
	// repeated exports of unchanged data stay byte-identical.
	Stamp time.Time
}

func NewCalendar(prodID, name string) *Calendar {
	return &Calendar{
		ProdID:   prodID,
		Name:     name,
		TimeZone: "UTC",
	}
}

func (c *Calendar) AddEvent(e Event) {
	c.events = append(c.events, e)
}

// Bytes serializes the calendar. Events render in insertion order.
func (c *Calendar) Bytes() []byte {
	var buf bytes.Buffer

	writeLine(&buf, "BEGIN:VCALENDAR")
	writeLine(&buf, "PRODID:"+escape(c.ProdID))
	writeLine(&buf, "VERSION:2.0")
	writeLine(&buf, "CALSCALE:GREGORIAN")
	if c.Method != "" {
		writeLine(&buf, "METHOD:"+c.Method)
	}
	if c.Name != "" {
		writeLine(&buf, "X-WR-CALNAME:"+escape(c.Name))
	}
	if c.TimeZone != "" {
		writeLine(&buf, "X-WR-TIMEZONE:"+escape(c.TimeZone))
	}

	for _, e := range c.events {
		writeEvent(&buf, e)
	}

	writeLine(&buf, "END:VCALENDAR")
	return buf.Bytes()
}

func writeEvent(buf *bytes.Buffer, e Event) {
	stamp := e.Stamp
	if stamp.IsZero() {
		stamp = e.Start
	}

	writeLine(buf, "BEGIN:VEVENT")
	writeLine(buf, "UID:"+escape(e.UID))
	writeLine(buf, "DTSTAMP:"+stamp.UTC().Format(dateTimeUTC))
	writeLine(buf, "DTSTART:"+e.Start.UTC().Format(dateTimeUTC))
	writeLine(buf, "DTEND:"+e.End.UTC().Format(dateTimeUTC))
	writeLine(buf, "SUMMARY:"+escape(e.Summary))
	if e.Description != "" {
		writeLine(buf, "DESCRIPTION:"+escape(e.Description))
	}
	if e.Status != "" {
		writeLine(buf, "STATUS:"+e.Status)
	}
	if e.Transparency != "" {
		writeLine(buf, "TRANSP:"+e.Transparency)
	}
	if e.Class != "" {
		writeLine(buf, "CLASS:"+e.Class)
	}
	writeLine(buf, "END:VEVENT")
}

// writeLine emits a content line, folding at 75 octets with a leading
// space on continuation lines.
func writeLine(buf *bytes.Buffer, line string) {
	raw := []byte(line)
	for len(raw) > foldLimit {
		cut := foldLimit
		// Never split a UTF-8 sequence.
		for cut > 0 && raw[cut]&0xC0 == 0x80 {
			cut--
		}
		buf.Write(raw[:cut])
		buf.WriteString("\r\n ")
		raw = raw[cut:]
	}
	buf.Write(raw)
	buf.WriteString("\r\n")
}

// escape applies RFC 5545 TEXT escaping.
func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case ',':
			b.WriteString(`\,`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			// Bare CR never appears in TEXT values.
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
