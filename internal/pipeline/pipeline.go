// Package pipeline applies the composable search/filter/sort chain over
// either catalog entries or generated bundles. Every stage is pure: the
// input slice is never mutated and an empty result propagates to the next
// stage instead of erroring.
package pipeline

import (
	"sort"
	"strings"
	"time"
)

// Item is the shared view of a catalog entry or a bundle. Bundles answer
// for their constituent items on the multi-valued dimensions.
type Item interface {
	UnitPrice() float64
	Categories() []string
	Locations() []string
	SearchBlob() string
	RatingScore() (rating int, applicable bool)
	DeliveryEstimates() []string
	Payments() []string
	CreatedTime() time.Time
	Popularity() float64
}

// Sort options accepted by Apply.
const (
	SortNewest       = "newest"
	SortPriceLowHigh = "price_low_high"
	SortPriceHighLow = "price_high_low"
	SortPopular      = "popular"
	SortRating       = "rating"
)

// Delivery-time buckets.
const (
	DeliveryNextDay  = "next_day"
	Delivery2To3Days = "2-3_days"
	Delivery4To7Days = "4-7_days"
)

// FilterState is the faceted filter selection.
type FilterState struct {
	Location       string     `json:"location"`
	PriceRange     [2]float64 `json:"priceRange"`
	CustomerRating []int      `json:"customerRating"`
	DeliveryTime   []string   `json:"deliveryTime"`
	PaymentOptions []string   `json:"paymentOptions"`
	Category       string     `json:"category"`
}

// DefaultFilters matches the UI defaults: full price range, category "all".
func DefaultFilters() FilterState {
	return FilterState{PriceRange: [2]float64{0, 50000}, Category: "all"}
}

// Query bundles everything Apply needs for one pass.
type Query struct {
	Search         string
	Filters        FilterState
	Sort           string
	ActiveCategory string
}

// Apply runs the stages in fixed order: category, search, location, price,
// rating, delivery time, payment options, sort. Returns a new slice.
func Apply[T Item](items []T, q Query) []T {
	out := make([]T, len(items))
	copy(out, items)

	if category := q.effectiveCategory(); category != "" {
		out = keep(out, func(it T) bool { return matchesCategory(it, category) })
	}
	if query := strings.ToLower(strings.TrimSpace(q.Search)); query != "" {
		out = keep(out, func(it T) bool {
			return strings.Contains(strings.ToLower(it.SearchBlob()), query)
		})
	}
	if q.Filters.Location != "" {
		loc := strings.ToLower(q.Filters.Location)
		out = keep(out, func(it T) bool {
			for _, l := range it.Locations() {
				if strings.Contains(strings.ToLower(l), loc) {
					return true
				}
			}
			return false
		})
	}
	if q.Filters.PriceRange != [2]float64{} {
		lo, hi := q.Filters.PriceRange[0], q.Filters.PriceRange[1]
		out = keep(out, func(it T) bool {
			p := it.UnitPrice()
			return p >= lo && p <= hi
		})
	}
	if len(q.Filters.CustomerRating) > 0 {
		min := minOf(q.Filters.CustomerRating)
		out = keep(out, func(it T) bool {
			rating, ok := it.RatingScore()
			if !ok {
				// rating only applies to products; bundles pass
				return true
			}
			return rating >= min
		})
	}
	if len(q.Filters.DeliveryTime) > 0 {
		out = keep(out, func(it T) bool { return matchesDelivery(it, q.Filters.DeliveryTime) })
	}
	if len(q.Filters.PaymentOptions) > 0 {
		out = keep(out, func(it T) bool { return matchesPayment(it, q.Filters.PaymentOptions) })
	}

	sortItems(out, q.Sort)
	return out
}

// effectiveCategory resolves the active category over the filter-state one;
// "" and "all" both mean no category narrowing.
func (q Query) effectiveCategory() string {
	for _, c := range []string{q.ActiveCategory, q.Filters.Category} {
		c = strings.TrimSpace(c)
		if c != "" && !strings.EqualFold(c, "all") {
			return c
		}
	}
	return ""
}

func matchesCategory[T Item](it T, category string) bool {
	for _, c := range it.Categories() {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// matchesDelivery buckets each parseable estimate; an item with no
// parseable estimate at all is treated as unknown-but-acceptable.
func matchesDelivery[T Item](it T, selected []string) bool {
	parsedAny := false
	for _, est := range it.DeliveryEstimates() {
		days, ok := parseDeliveryDays(est)
		if !ok {
			continue
		}
		parsedAny = true
		for _, bucket := range selected {
			if inBucket(days, bucket) {
				return true
			}
		}
	}
	return !parsedAny
}

func inBucket(days int, bucket string) bool {
	switch bucket {
	case DeliveryNextDay:
		return days <= 1
	case Delivery2To3Days:
		return days >= 2 && days <= 3
	case Delivery4To7Days:
		return days >= 4 && days <= 7
	default:
		return false
	}
}

// parseDeliveryDays extracts the leading day count from estimates like
// "2-3 days", "1 day" or "4".
func parseDeliveryDays(s string) (int, bool) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	days := 0
	for _, c := range s[:i] {
		days = days*10 + int(c-'0')
	}
	return days, true
}

func matchesPayment[T Item](it T, selected []string) bool {
	for _, have := range it.Payments() {
		for _, want := range selected {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// sortItems reorders in place; ties keep their original relative order.
func sortItems[T Item](items []T, option string) {
	switch option {
	case SortNewest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedTime().After(items[j].CreatedTime())
		})
	case SortPriceLowHigh:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].UnitPrice() < items[j].UnitPrice()
		})
	case SortPriceHighLow:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].UnitPrice() > items[j].UnitPrice()
		})
	case SortPopular:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Popularity() > items[j].Popularity()
		})
	case SortRating:
		sort.SliceStable(items, func(i, j int) bool {
			ri, _ := items[i].RatingScore()
			rj, _ := items[j].RatingScore()
			return ri > rj
		})
	}
}

func keep[T Item](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

func minOf(xs []int) int {
	min := xs[0]
	for _, x := range xs[1:] {
		if x < min {
			min = x
		}
	}
	return min
}
