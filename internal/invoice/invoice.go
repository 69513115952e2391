// Package invoice defines the customer invoice submitted for billing: a
// customer name plus an ordered list of purchased performances. Invoices are
// value data, built once and read-only afterwards.
package invoice

import (
	"encoding/json"
	"fmt"
	"io"

	validator "github.com/go-playground/validator/v10"
)

// Performance is one purchased performance on an invoice. It references its
// play by identifier only; resolution happens against the catalog at billing
// time.
type Performance struct {
	PlayID   string `json:"playID" validate:"required"`
	Audience int    `json:"audience" validate:"gt=0"`
}

// Invoice is one customer's purchase. Performance order is significant:
// statement lines print in insertion order.
type Invoice struct {
	Customer     string        `json:"customer" validate:"required"`
	Performances []Performance `json:"performances" validate:"min=1,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structural invariants of an invoice: customer present,
// at least one performance, every performance with a play id and a positive
// audience.
func (inv Invoice) Validate() error {
	if err := validate.Struct(inv); err != nil {
		return fmt.Errorf("invalid invoice: %w", err)
	}
	return nil
}

// Read decodes a single invoice document.
func Read(r io.Reader) (Invoice, error) {
	var inv Invoice
	if err := json.NewDecoder(r).Decode(&inv); err != nil {
		return Invoice{}, fmt.Errorf("decode invoice: %w", err)
	}
	return inv, nil
}

// ReadAll decodes the batch invoice document, a JSON array of invoices.
func ReadAll(r io.Reader) ([]Invoice, error) {
	var invoices []Invoice
	if err := json.NewDecoder(r).Decode(&invoices); err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}
	return invoices, nil
}
