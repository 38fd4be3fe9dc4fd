// Package query computes read-only views over store snapshots. Every function
// is pure and leaves its inputs untouched.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/mamadbah2/serialpro/internal/domain/models"
)

const (
	// DefaultTopN is the size of the shipment ranking on the dashboard.
	DefaultTopN = 5
	// DefaultWindowDays is the recency window of the dashboard.
	DefaultWindowDays = 30
	// ShipDateLayout is the calendar date format of ShipmentRecord.ShipDate.
	ShipDateLayout = "2006-01-02"
)

// SearchBySerial returns records whose serial contains term, ignoring case,
// in store order. A blank term matches nothing.
func SearchBySerial(records []models.ShipmentRecord, term string) []models.ShipmentRecord {
	matches := []models.ShipmentRecord{}
	if strings.TrimSpace(term) == "" {
		return matches
	}
	needle := strings.ToLower(term)
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Serial), needle) {
			matches = append(matches, r)
		}
	}
	return matches
}

// RecordsForProduct counts the records referencing productID.
func RecordsForProduct(records []models.ShipmentRecord, productID string) int {
	count := 0
	for _, r := range records {
		if r.ProductID == productID {
			count++
		}
	}
	return count
}

// TopProductsByShipmentCount ranks every product by its record count,
// descending. Ties keep catalog order. The result holds at most n entries.
func TopProductsByShipmentCount(products []models.Product, records []models.ShipmentRecord, n int) []models.ProductCount {
	counts := make(map[string]int, len(products))
	for _, r := range records {
		counts[r.ProductID]++
	}

	stats := make([]models.ProductCount, 0, len(products))
	for _, p := range products {
		stats = append(stats, models.ProductCount{Name: p.Name, Count: counts[p.ID]})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})

	if n < 0 {
		n = 0
	}
	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// RecentRecords counts records shipped less than windowDays*24h before now.
// Records with an unparseable ship date are not counted.
func RecentRecords(records []models.ShipmentRecord, windowDays int, now time.Time) int {
	window := time.Duration(windowDays) * 24 * time.Hour
	count := 0
	for _, r := range records {
		shipped, ok := ParseShipDate(r.ShipDate)
		if !ok {
			continue
		}
		if now.Sub(shipped) < window {
			count++
		}
	}
	return count
}

// ParseShipDate reads a calendar date as midnight UTC. Full RFC 3339
// timestamps are accepted as well.
func ParseShipDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(ShipDateLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FindProduct looks a product up by id. A miss is normal for dangling references.
func FindProduct(products []models.Product, id string) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// ProductName resolves id for display, falling back to UnknownProductName.
func ProductName(products []models.Product, id string) string {
	if p, ok := FindProduct(products, id); ok {
		return p.Name
	}
	return models.UnknownProductName
}

// Latest returns the first n records (the newest ones) with product names resolved.
func Latest(products []models.Product, records []models.ShipmentRecord, n int) []models.Activity {
	if n < 0 {
		n = 0
	}
	if n > len(records) {
		n = len(records)
	}
	out := make([]models.Activity, 0, n)
	for _, r := range records[:n] {
		out = append(out, models.Activity{ShipmentRecord: r, ProductName: ProductName(products, r.ProductID)})
	}
	return out
}
