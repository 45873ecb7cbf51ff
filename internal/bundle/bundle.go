package bundle

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/prabscode/farmbasket-storefront/internal/catalog"
)

// Bundle is a synthetic multi-entry promotion generated client-side; the
// upstream API never sees one.
type Bundle struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Items    []catalog.Entry `json:"items"`
	Price    float64         `json:"price"`
	Reason   string          `json:"reason"`
	Location string          `json:"location"`
}

// ItemsTotal is the undiscounted sum of constituent prices.
func (b Bundle) ItemsTotal() float64 {
	var sum float64
	for _, item := range b.Items {
		sum += item.Price
	}
	return sum
}

// DiscountPercent is the effective saving over buying the items separately.
func (b Bundle) DiscountPercent() float64 {
	total := b.ItemsTotal()
	if total <= 0 {
		return 0
	}
	return (total - b.Price) / total * 100
}

func (b Bundle) UnitPrice() float64 { return b.Price }

func (b Bundle) Categories() []string {
	out := make([]string, 0, len(b.Items))
	for _, item := range b.Items {
		out = append(out, item.Category)
	}
	return out
}

func (b Bundle) Locations() []string {
	out := make([]string, 0, len(b.Items)+1)
	out = append(out, b.Location)
	for _, item := range b.Items {
		out = append(out, item.Location)
	}
	return out
}

// SearchBlob matches on the bundle's own fields or any constituent item's.
func (b Bundle) SearchBlob() string {
	parts := []string{
		b.Name,
		strconv.FormatFloat(b.Price, 'f', -1, 64),
		b.Reason,
		b.Location,
	}
	for _, item := range b.Items {
		parts = append(parts, item.SearchBlob())
	}
	if raw, err := json.Marshal(b); err == nil {
		parts = append(parts, string(raw))
	}
	return strings.Join(parts, " ")
}

// RatingScore reports not-applicable: rating filters pass bundles through.
func (b Bundle) RatingScore() (int, bool) { return 0, false }

func (b Bundle) DeliveryEstimates() []string {
	out := make([]string, 0, len(b.Items))
	for _, item := range b.Items {
		out = append(out, item.EstimatedDeliveryTime)
	}
	return out
}

func (b Bundle) Payments() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, item := range b.Items {
		for _, opt := range item.PaymentOptions {
			if _, ok := seen[opt]; ok {
				continue
			}
			seen[opt] = struct{}{}
			out = append(out, opt)
		}
	}
	return out
}

// CreatedTime is always the epoch: bundles exist only for the current
// generation pass and carry no creation timestamp.
func (b Bundle) CreatedTime() time.Time { return time.Time{} }

func (b Bundle) Popularity() float64 { return b.DiscountPercent() }
