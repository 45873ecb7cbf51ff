package catalog

import (
	"fmt"
	"math/rand"
	"time"
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Flattener turns classified feed documents into a flat catalog. Identifier
// suffixes and missing ratings come from the injected rng so callers can
// seed it; production wiring passes nil for a time-seeded source.
type Flattener struct {
	rng *rand.Rand
}

func NewFlattener(rng *rand.Rand) *Flattener {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Flattener{rng: rng}
}

// Flatten emits one Entry per work item (nested case) or per document
// (legacy case). Ids are unique within one call; synthesized suffixes change
// between calls.
func (f *Flattener) Flatten(docs []Doc) []Entry {
	entries := make([]Entry, 0, len(docs))
	for _, doc := range docs {
		switch {
		case doc.Farmer != nil:
			entries = append(entries, f.flattenFarmer(*doc.Farmer)...)
		case doc.Product != nil:
			entries = append(entries, f.flattenProduct(*doc.Product))
		}
	}
	return entries
}

func (f *Flattener) flattenFarmer(farmer FarmerDoc) []Entry {
	entries := make([]Entry, 0, len(farmer.Works))
	for _, w := range farmer.Works {
		id := w.EffectiveID()
		if id == "" {
			id = fmt.Sprintf("%s-%s-%s", farmer.EffectiveID(), w.CropName, f.suffix(8))
		}
		location := w.Location
		if location == "" {
			location = farmer.Location
		}
		entries = append(entries, Entry{
			ID:                    id,
			Name:                  w.CropName,
			Category:              w.Category,
			Location:              location,
			Price:                 w.Price,
			Image:                 w.Image,
			Stock:                 w.Stock,
			EstimatedDeliveryTime: string(w.EstimatedDeliveryTime),
			Rating:                f.rating(w.Rating),
			FarmerID:              farmer.EffectiveID(),
			FarmerName:            farmer.Name,
			PhoneNumber:           farmer.PhoneNumber,
			PaymentOptions:        w.PaymentOptions,
			CreatedAt:             w.CreatedAt,
		})
	}
	return entries
}

func (f *Flattener) flattenProduct(p FlatProduct) Entry {
	id := p.ID
	if id == "" {
		id = p.AltID
	}
	if id == "" {
		id = "product-" + f.suffix(8)
	}
	return Entry{
		ID:                    id,
		Name:                  p.Name,
		Category:              p.Category,
		Location:              p.Location,
		Price:                 p.Price,
		Image:                 p.Image,
		Stock:                 p.Stock,
		EstimatedDeliveryTime: string(p.EstimatedDeliveryTime),
		Rating:                f.rating(p.Rating),
		FarmerID:              p.FarmerID,
		FarmerName:            p.FarmerName,
		PaymentOptions:        p.PaymentOptions,
		CreatedAt:             p.CreatedAt,
	}
}

// rating keeps a source-provided rating and assigns a uniform random 1-5
// otherwise, so every catalog entry is filterable by rating.
func (f *Flattener) rating(r int) int {
	if r >= 1 && r <= 5 {
		return r
	}
	return 1 + f.rng.Intn(5)
}

func (f *Flattener) suffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[f.rng.Intn(len(suffixAlphabet))]
	}
	return string(b)
}
