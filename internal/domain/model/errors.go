package model

import "errors"

// Sentinel kinds for model construction errors.
var (
	ErrInvalidMoney = errors.New("invalid monetary amount")
	ErrInvalidDate  = errors.New("invalid purchase date")
	ErrInvalidTime  = errors.New("invalid purchase time")
	ErrNoItems      = errors.New("receipt has no items")

	ErrInvalidRetailer    = errors.New("invalid retailer")
	ErrInvalidDescription = errors.New("invalid item description")
)
