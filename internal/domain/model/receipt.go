// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	retailerPattern    = regexp.MustCompile(`^[\p{L}\p{N}_\s\-&]+$`)
	descriptionPattern = regexp.MustCompile(`^[\p{L}\p{N}_\s\-]+$`)
)

// Receipt is a validated purchase record. Values are built once by
// NewReceipt and only read afterwards.
type Receipt struct {
	Retailer     string
	PurchaseDate Date
	PurchaseTime TimeOfDay
	Items        []Item
	Total        Money
}

// Item is one line entry on a receipt.
type Item struct {
	ShortDescription string
	Price            Money
}

// ValidateRetailer checks a retailer name: non-empty letters, digits,
// underscores, whitespace, hyphens and ampersands.
func ValidateRetailer(s string) error {
	if s == "" {
		return fmt.Errorf("%w: required", ErrInvalidRetailer)
	}
	if !retailerPattern.MatchString(s) {
		return fmt.Errorf("%w: %q contains unsupported characters", ErrInvalidRetailer, s)
	}
	return nil
}

// ValidateDescription checks an item description: non-blank letters,
// digits, underscores, whitespace and hyphens.
func ValidateDescription(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: required", ErrInvalidDescription)
	}
	if !descriptionPattern.MatchString(s) {
		return fmt.Errorf("%w: %q contains unsupported characters", ErrInvalidDescription, s)
	}
	return nil
}

// NewItem builds a validated Item.
func NewItem(description string, price Money) (Item, error) {
	if err := ValidateDescription(description); err != nil {
		return Item{}, err
	}
	return Item{ShortDescription: description, Price: price}, nil
}

// NewReceipt builds a Receipt that owns its own copy of items. Items built
// as literals are checked here as well.
func NewReceipt(retailer string, date Date, at TimeOfDay, items []Item, total Money) (Receipt, error) {
	if err := ValidateRetailer(retailer); err != nil {
		return Receipt{}, err
	}
	if len(items) == 0 {
		return Receipt{}, ErrNoItems
	}
	owned := make([]Item, len(items))
	for i, it := range items {
		if err := ValidateDescription(it.ShortDescription); err != nil {
			return Receipt{}, fmt.Errorf("item %d: %w", i, err)
		}
		owned[i] = it
	}
	return Receipt{
		Retailer:     retailer,
		PurchaseDate: date,
		PurchaseTime: at,
		Items:        owned,
		Total:        total,
	}, nil
}
