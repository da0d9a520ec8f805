package services

import (
	"strconv"
	"strings"

	"github.com/magnification/jobtrack/internal/domain/models"
	log "github.com/sirupsen/logrus"
)

// Deduplicate removes within-run duplicates by case-insensitive
// (title, company, location) key, keeping the first occurrence. It is a pure
// function of its input and idempotent.
func Deduplicate(listings []models.RawListing) ([]models.RawListing, int) {

	seen := make(map[models.IdentityKey]struct{}, len(listings))
	unique := make([]models.RawListing, 0, len(listings))

	for _, listing := range listings {
		key := models.NewIdentityKey(listing.Title, listing.Company, listing.Location)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, listing)
	}

	return unique, len(listings) - len(unique)
}

// Clean normalizes a raw listing into the canonical shape. Malformed input
// degrades to nil fields; Clean never fails.
func Clean(listing models.RawListing) models.NormalizedListing {

	return models.NormalizedListing{
		Title:        collapseWhitespace(listing.Title),
		Company:      collapseWhitespace(listing.Company),
		Location:     collapseWhitespace(listing.Location),
		Link:         optionalString(listing.URL),
		Description:  optionalString(listing.Description),
		Compensation: formatCompensation(listing.MinAmount, listing.MaxAmount, listing.Interval),
	}
}

// Process runs the full pipeline: within-run deduplication followed by field
// normalization. Returns the normalized listings and the duplicate count.
func Process(raw []models.RawListing) ([]models.NormalizedListing, int) {

	unique, duplicates := Deduplicate(raw)

	normalized := make([]models.NormalizedListing, 0, len(unique))
	for _, listing := range unique {
		normalized = append(normalized, Clean(listing))
	}

	log.Infof("processed %v raw listings: %v unique, %v duplicates removed", len(raw), len(normalized), duplicates)
	return normalized, duplicates
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func optionalString(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// formatCompensation renders "{min} - {max} {interval}", a single bound with
// its interval, or nil when no bound is present. Never a placeholder string.
func formatCompensation(minAmount, maxAmount *float64, interval string) *string {

	if minAmount == nil && maxAmount == nil {
		return nil
	}

	var compensation string
	switch {
	case minAmount != nil && maxAmount != nil:
		compensation = formatAmount(*minAmount) + " - " + formatAmount(*maxAmount)
	case minAmount != nil:
		compensation = formatAmount(*minAmount)
	default:
		compensation = formatAmount(*maxAmount)
	}

	if interval = strings.TrimSpace(interval); interval != "" {
		compensation += " " + interval
	}
	return &compensation
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
