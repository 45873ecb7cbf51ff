// Package checkout drives the address → review → confirmation flow and the
// order submission behind it.
package checkout

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Step is one stage of the checkout flow.
type Step string

const (
	StepAddress      Step = "address"
	StepReview       Step = "review"
	StepConfirmation Step = "confirmation"
)

// ShippingPrice is the flat surcharge added at presentation time, on top of
// the cart total.
const ShippingPrice = 40.00

// MinOrderQuantity is the smallest amount the address step sells per entry.
const MinOrderQuantity = 5

var (
	// ErrUnauthenticated aborts placeOrder when the profile has no identity.
	ErrUnauthenticated = errors.New("no user identity")
	// ErrEmptyCart aborts placeOrder with nothing to buy.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition rejects a step change the flow does not allow.
	ErrInvalidTransition = errors.New("invalid checkout transition")
)

var (
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	zipcodePattern = regexp.MustCompile(`^[0-9]{6}$`)
)

// Details is the shipping address and contact form state.
type Details struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Phone   string `json:"phone"`
	Zipcode string `json:"zipcode"`
}

// Validate returns all field violations together, keyed by field name.
func (d Details) Validate() map[string]string {
	errs := map[string]string{}
	required := map[string]string{
		"name":    d.Name,
		"address": d.Address,
		"city":    d.City,
		"state":   d.State,
		"phone":   d.Phone,
		"zipcode": d.Zipcode,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs[field] = field + " is required"
		}
	}
	if d.Phone != "" && !phonePattern.MatchString(d.Phone) {
		errs["phone"] = "phone must be 10 digits"
	}
	if d.Zipcode != "" && !zipcodePattern.MatchString(d.Zipcode) {
		errs["zipcode"] = "zipcode must be 6 digits"
	}
	return errs
}

// ValidationError blocks a transition until the form is corrected.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid shipping details: %s", strings.Join(fields, ", "))
}
