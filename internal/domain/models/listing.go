package models

import "strings"

// RawListing is a provider result as returned by the site retrieval service,
// before normalization. It only lives between retrieval and processing.
type RawListing struct {
	Title       string
	Company     string
	Location    string
	URL         string
	Description string
	MinAmount   *float64
	MaxAmount   *float64
	Interval    string
	Site        string
	SearchTerm  string
}

// NormalizedListing is the canonical listing shape produced by the result
// processor. Optional fields are nil when the provider gave nothing usable,
// never empty-string sentinels.
type NormalizedListing struct {
	Title        string
	Company      string
	Location     string
	Link         *string
	Description  *string
	Compensation *string
}

// IdentityKey is the case-insensitive (title, company, location) triple used
// for deduplication at both pipeline levels.
type IdentityKey struct {
	Title    string
	Company  string
	Location string
}

func NewIdentityKey(title, company, location string) IdentityKey {
	return IdentityKey{
		Title:    strings.ToLower(strings.TrimSpace(title)),
		Company:  strings.ToLower(strings.TrimSpace(company)),
		Location: strings.ToLower(strings.TrimSpace(location)),
	}
}

func (l NormalizedListing) IdentityKey() IdentityKey {
	return NewIdentityKey(l.Title, l.Company, l.Location)
}
