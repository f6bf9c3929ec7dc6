package model

import (
	"context"
	"strings"
)

// StatusMarker is the literal first field of the synthetic record that
// carries the portal application status inside a serialized snapshot.
const StatusMarker = "Status:"

// Header is the fixed first record of every serialized snapshot.
var Header = Record{"position", "location", "link"}

// Listing is one job posting selected from the careers board.
type Listing struct {
	Title    string
	Location string
	Link     string
}

// Snapshot is the full observed state of one run: the selected listings in
// document order, plus the application status scraped from the portal.
// Status is empty when the portal is disabled.
type Snapshot struct {
	Listings []Listing
	Status   string
}

// Record is the wire shape of one snapshot line: an ordered sequence of
// string fields. The storage layer makes no distinction between header,
// listing, and status records.
type Record []string

// Equal reports exact sequence equality: same length, same fields, same order.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}

// IsStatus reports whether the record is the synthetic portal-status record.
func (r Record) IsStatus() bool {
	return len(r) > 0 && r[0] == StatusMarker
}

// Field returns the i-th field, or the empty string when the record is shorter.
func (r Record) Field(i int) string {
	if i < len(r) {
		return r[i]
	}
	return ""
}

// Records serializes the snapshot: header first, listings in order, then the
// status record when a status is present.
func (s Snapshot) Records() []Record {
	recs := make([]Record, 0, len(s.Listings)+2)
	recs = append(recs, Header)
	for _, l := range s.Listings {
		recs = append(recs, Record{l.Title, l.Location, l.Link})
	}
	if s.Status != "" {
		recs = append(recs, Record{StatusMarker, s.Status})
	}
	return recs
}

// FromRecords rebuilds a Snapshot from serialized records. The first record
// is the header and is dropped; a record starting with StatusMarker becomes
// the status; everything else is read as a listing by field position.
func FromRecords(recs []Record) Snapshot {
	var s Snapshot
	for i, r := range recs {
		if i == 0 {
			continue
		}
		if r.IsStatus() {
			s.Status = strings.Join(r[1:], " ")
			continue
		}
		s.Listings = append(s.Listings, Listing{
			Title:    r.Field(0),
			Location: r.Field(1),
			Link:     r.Field(2),
		})
	}
	return s
}

// ListingSource fetches the current listings from the careers board.
type ListingSource interface {
	FetchListings(ctx context.Context) ([]Listing, error)
}

// StatusSource fetches the current application status from the gated portal.
type StatusSource interface {
	FetchStatus(ctx context.Context) (string, error)
}

// SnapshotStore persists the last-known record set. Load returns
// ErrNoSnapshot when no snapshot has been saved yet; Save replaces the
// stored record set wholesale.
type SnapshotStore interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, recs []Record) error
}

// Differ computes the human-readable change report between the current and
// the previously stored record sets.
type Differ interface {
	Diff(current, previous []Record) string
}

// Notifier delivers the change report and returns the provider's message
// identifier (empty for notifiers without one).
type Notifier interface {
	Notify(ctx context.Context, body string) (string, error)
}

// TitleFilter decides whether an anchor's text identifies a wanted position.
type TitleFilter interface {
	Match(text string) bool
}
