package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/receipts/internal/domain/model"
)

// receiptRequest mirrors the OpenAPI schema for POST /receipts/process.
// Pointer fields distinguish a missing key from an empty string.
type receiptRequest struct {
	Retailer     *string       `json:"retailer"`
	PurchaseDate *string       `json:"purchaseDate"`
	PurchaseTime *string       `json:"purchaseTime"`
	Items        []itemRequest `json:"items"`
	Total        *string       `json:"total"`
}

type itemRequest struct {
	ShortDescription *string `json:"shortDescription"`
	Price            *string `json:"price"`
}

type processResponse struct {
	ID string `json:"id"`
}

// toReceipt validates the request and builds the domain receipt. The
// returned error is a *ValidationError for the first failing field.
func (req receiptRequest) toReceipt() (model.Receipt, error) {
	if req.Retailer == nil || *req.Retailer == "" {
		return model.Receipt{}, invalid("retailer", "required")
	}
	if err := model.ValidateRetailer(*req.Retailer); err != nil {
		return model.Receipt{}, invalid("retailer", "contains unsupported characters")
	}

	if req.PurchaseDate == nil {
		return model.Receipt{}, invalid("purchaseDate", "required")
	}
	date, err := model.ParseDate(*req.PurchaseDate)
	if err != nil {
		return model.Receipt{}, invalid("purchaseDate", "must be a YYYY-MM-DD calendar date")
	}

	if req.PurchaseTime == nil {
		return model.Receipt{}, invalid("purchaseTime", "required")
	}
	at, err := model.ParseTimeOfDay(*req.PurchaseTime)
	if err != nil {
		return model.Receipt{}, invalid("purchaseTime", "must be HH:MM in 24-hour time")
	}

	if len(req.Items) == 0 {
		return model.Receipt{}, invalid("items", "at least one item is required")
	}
	items := make([]model.Item, len(req.Items))
	for i, it := range req.Items {
		item, err := it.toItem(i)
		if err != nil {
			return model.Receipt{}, err
		}
		items[i] = item
	}

	if req.Total == nil {
		return model.Receipt{}, invalid("total", "required")
	}
	total, err := parseAmount("total", *req.Total)
	if err != nil {
		return model.Receipt{}, err
	}

	r, err := model.NewReceipt(*req.Retailer, date, at, items, total)
	if err != nil {
		return model.Receipt{}, invalid("items", err.Error())
	}
	return r, nil
}

func (it itemRequest) toItem(i int) (model.Item, error) {
	descField := fmt.Sprintf("items[%d].shortDescription", i)
	if it.ShortDescription == nil || strings.TrimSpace(*it.ShortDescription) == "" {
		return model.Item{}, invalid(descField, "required")
	}
	if err := model.ValidateDescription(*it.ShortDescription); err != nil {
		return model.Item{}, invalid(descField, "contains unsupported characters")
	}

	priceField := fmt.Sprintf("items[%d].price", i)
	if it.Price == nil {
		return model.Item{}, invalid(priceField, "required")
	}
	price, err := parseAmount(priceField, *it.Price)
	if err != nil {
		return model.Item{}, err
	}
	item, err := model.NewItem(*it.ShortDescription, price)
	if err != nil {
		return model.Item{}, invalid(descField, err.Error())
	}
	return item, nil
}

func parseAmount(field, s string) (model.Money, error) {
	m, err := model.ParseMoney(s)
	if err != nil {
		if errors.Is(err, model.ErrInvalidMoney) {
			return 0, invalid(field, "must be a decimal amount with two fraction digits")
		}
		return 0, invalid(field, err.Error())
	}
	return m, nil
}

// fieldFamily strips item indexes so metric labels stay bounded.
func fieldFamily(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		if j := strings.IndexByte(field, ']'); j > i {
			return field[:i] + field[j+1:]
		}
	}
	return field
}
