package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedFeed is returned when the product feed does not match any
// shape this app knows how to consume.
var ErrMalformedFeed = errors.New("malformed product feed")

// FarmerDoc is the nested feed shape: one farmer with their work items.
type FarmerDoc struct {
	ID          string `json:"_id"`
	FarmerID    string `json:"farmerId"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Location    string `json:"location"`
	Works       []Work `json:"works"`
}

// EffectiveID prefers the explicit farmerId over the document id.
func (d FarmerDoc) EffectiveID() string {
	if d.FarmerID != "" {
		return d.FarmerID
	}
	return d.ID
}

// Work is one crop listing inside a farmer document.
type Work struct {
	ID                    string       `json:"_id"`
	AltID                 string       `json:"id"`
	CropName              string       `json:"cropName"`
	Category              string       `json:"category"`
	Location              string       `json:"location"`
	Price                 float64      `json:"price"`
	Image                 string       `json:"image"`
	Stock                 int          `json:"stock"`
	EstimatedDeliveryTime DeliveryTime `json:"estimatedDeliveryTime"`
	Rating                int          `json:"rating"`
	PaymentOptions        []string     `json:"paymentOptions"`
	CreatedAt             string       `json:"createdAt"`
}

// EffectiveID returns the work item's own identifier, if it has one.
func (w Work) EffectiveID() string {
	if w.ID != "" {
		return w.ID
	}
	return w.AltID
}

// DeliveryTime decodes an estimated delivery time the upstream sends either
// as a string ("2-3 days") or as a bare day count.
type DeliveryTime string

func (d *DeliveryTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = DeliveryTime(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = DeliveryTime(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	return fmt.Errorf("estimatedDeliveryTime: unsupported value %s", string(b))
}

// FlatProduct is the legacy feed shape: a product document without works.
type FlatProduct struct {
	ID                    string       `json:"_id"`
	AltID                 string       `json:"id"`
	Name                  string       `json:"name"`
	Category              string       `json:"category"`
	Location              string       `json:"location"`
	Price                 float64      `json:"price"`
	Image                 string       `json:"image"`
	Stock                 int          `json:"stock"`
	EstimatedDeliveryTime DeliveryTime `json:"estimatedDeliveryTime"`
	Rating                int          `json:"rating"`
	FarmerID              string       `json:"farmerId"`
	FarmerName            string       `json:"farmerName"`
	PaymentOptions        []string     `json:"paymentOptions"`
	CreatedAt             string       `json:"createdAt"`
}

// Doc is one classified element of the product feed: exactly one of Farmer
// or Product is set.
type Doc struct {
	Farmer  *FarmerDoc
	Product *FlatProduct
}

// DecodeFeed classifies the raw /api/products response once, up front.
// The top level must be a JSON array of objects; each object is either a
// farmer document carrying a works array or a flat legacy product. Anything
// else fails closed with ErrMalformedFeed.
func DecodeFeed(data []byte) ([]Doc, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: expected array: %v", ErrMalformedFeed, err)
	}

	docs := make([]Doc, 0, len(raw))
	for i, elem := range raw {
		if !bytes.HasPrefix(bytes.TrimLeft(elem, " \t\r\n"), []byte("{")) {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrMalformedFeed, i)
		}

		var probe struct {
			Works json.RawMessage `json:"works"`
		}
		if err := json.Unmarshal(elem, &probe); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformedFeed, i, err)
		}

		if len(probe.Works) > 0 && !bytes.Equal(probe.Works, []byte("null")) {
			var farmer FarmerDoc
			if err := json.Unmarshal(elem, &farmer); err != nil {
				return nil, fmt.Errorf("%w: farmer document %d: %v", ErrMalformedFeed, i, err)
			}
			docs = append(docs, Doc{Farmer: &farmer})
			continue
		}

		var product FlatProduct
		if err := json.Unmarshal(elem, &product); err != nil {
			return nil, fmt.Errorf("%w: product document %d: %v", ErrMalformedFeed, i, err)
		}
		docs = append(docs, Doc{Product: &product})
	}
	return docs, nil
}
