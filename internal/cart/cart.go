package cart

import (
	"github.com/prabscode/farmbasket-storefront/internal/bundle"
	"github.com/prabscode/farmbasket-storefront/internal/catalog"
)

// ItemSummary is the denormalized snapshot of one bundle constituent taken
// at add time; later catalog regenerations do not touch it.
type ItemSummary struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

// Entry is one purchase intent: either a product or a bundle.
type Entry struct {
	UserID                string        `json:"userId,omitempty"`
	ProductID             string        `json:"productId,omitempty"`
	BundleID              string        `json:"bundleId,omitempty"`
	IsBundle              bool          `json:"isBundle"`
	Name                  string        `json:"name"`
	Category              string        `json:"category,omitempty"`
	Location              string        `json:"location,omitempty"`
	FarmerID              string        `json:"farmerId,omitempty"`
	FarmerName            string        `json:"farmerName,omitempty"`
	EstimatedDeliveryTime string        `json:"estimatedDeliveryTime,omitempty"`
	Image                 string        `json:"image,omitempty"`
	Price                 float64       `json:"price"`
	Quantity              int           `json:"quantity"`
	Items                 []ItemSummary `json:"items,omitempty"`
}

// Key identifies the entry for the at-most-one-per-product/bundle invariant.
func (e Entry) Key() string {
	if e.IsBundle {
		return e.BundleID
	}
	return e.ProductID
}

// ProductEntry builds a purchase intent from a catalog entry.
func ProductEntry(p catalog.Entry) Entry {
	return Entry{
		ProductID:             p.ID,
		Name:                  p.Name,
		Category:              p.Category,
		Location:              p.Location,
		FarmerID:              p.FarmerID,
		FarmerName:            p.FarmerName,
		EstimatedDeliveryTime: p.EstimatedDeliveryTime,
		Image:                 p.Image,
		Price:                 p.Price,
	}
}

// BundleEntry builds a purchase intent from a generated bundle, snapshotting
// its constituents.
func BundleEntry(b bundle.Bundle) Entry {
	items := make([]ItemSummary, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, ItemSummary{ProductID: item.ID, Name: item.Name, Price: item.Price})
	}
	return Entry{
		BundleID: b.ID,
		IsBundle: true,
		Name:     b.Name,
		Location: b.Location,
		Price:    b.Price,
		Items:    items,
	}
}
