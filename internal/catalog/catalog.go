package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Entry is one sellable unit after flattening the farmer feed.
// JSON tags follow the camelCase convention used by the upstream API.
type Entry struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Category              string   `json:"category,omitempty"`
	Location              string   `json:"location,omitempty"`
	Price                 float64  `json:"price"`
	Image                 string   `json:"image,omitempty"`
	Stock                 int      `json:"stock"`
	EstimatedDeliveryTime string   `json:"estimatedDeliveryTime,omitempty"`
	Rating                int      `json:"rating"`
	FarmerID              string   `json:"farmerId,omitempty"`
	FarmerName            string   `json:"farmerName,omitempty"`
	PhoneNumber           string   `json:"phoneNumber,omitempty"`
	PaymentOptions        []string `json:"paymentOptions,omitempty"`
	CreatedAt             string   `json:"createdAt,omitempty"`
}

func (e Entry) UnitPrice() float64 { return e.Price }

func (e Entry) Categories() []string { return []string{e.Category} }

func (e Entry) Locations() []string { return []string{e.Location} }

// SearchBlob collects every field free-text search should match against,
// including the serialized record so unanticipated fields still hit.
func (e Entry) SearchBlob() string {
	parts := []string{
		e.Name,
		strconv.FormatFloat(e.Price, 'f', -1, 64),
		e.Category,
		e.Location,
		e.FarmerName,
		e.FarmerID,
	}
	if raw, err := json.Marshal(e); err == nil {
		parts = append(parts, string(raw))
	}
	return strings.Join(parts, " ")
}

func (e Entry) RatingScore() (int, bool) { return e.Rating, true }

func (e Entry) DeliveryEstimates() []string { return []string{e.EstimatedDeliveryTime} }

func (e Entry) Payments() []string { return e.PaymentOptions }

// CreatedTime parses the upstream timestamp; a missing or unparseable value
// sorts as the epoch.
func (e Entry) CreatedTime() time.Time {
	if e.CreatedAt == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, e.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (e Entry) Popularity() float64 { return float64(e.Rating) }
