package loadcheck

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/okian/receipts/internal/domain/model"
	"github.com/okian/receipts/internal/domain/scoring"
)

// Generator ranges.
const (
	maxItems          = 8
	maxWordsPerItem   = 4
	maxPriceCents     = 5000
	firstYear         = 2020
	yearSpan          = 5
	quarterCentsShare = 4 // one in N totals is forced onto a quarter boundary
)

var retailers = []string{
	"Target", "Walgreens", "M&M Corner Market", "7-Eleven", "Trader Joe_s",
	"Corner Deli & Grill", "Kwik-E-Mart", "Café Olé",
}

var words = []string{
	"Mountain", "Dew", "12PK", "Emils", "Cheese", "Pizza", "Knorr", "Creamy",
	"Chicken", "Doritos", "Nacho", "Klarbrunn", "12-PK", "FL", "OZ", "Gatorade",
	"Pepsi", "Dasani", "Milk", "Bread", "Eggs", "Apples", "Crème", "brûlée",
}

// Generator produces valid receipts and their expected points.
type Generator struct {
	rnd    *rand.Rand
	scorer scoring.Scorer
}

// NewGenerator seeds a generator. Expected points come from scorer.
func NewGenerator(seed uint64, scorer scoring.Scorer) *Generator {
	return &Generator{
		rnd:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		scorer: scorer,
	}
}

// Generate returns n cases.
func (g *Generator) Generate(n int) ([]Case, error) {
	cases := make([]Case, n)
	for i := range cases {
		r := g.receipt()
		expected, err := g.expected(r)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		cases[i] = Case{Receipt: r, Expected: expected}
	}
	return cases, nil
}

func (g *Generator) receipt() Receipt {
	items := make([]Item, 1+g.rnd.IntN(maxItems))
	var total int64
	for i := range items {
		cents := g.rnd.Int64N(maxPriceCents)
		total += cents
		items[i] = Item{ShortDescription: g.description(), Price: model.Money(cents).String()}
	}
	if g.rnd.IntN(quarterCentsShare) == 0 {
		total -= total % 25
	}

	return Receipt{
		Retailer:     retailers[g.rnd.IntN(len(retailers))],
		PurchaseDate: fmt.Sprintf("%04d-%02d-%02d", firstYear+g.rnd.IntN(yearSpan), 1+g.rnd.IntN(12), 1+g.rnd.IntN(28)),
		PurchaseTime: fmt.Sprintf("%02d:%02d", g.rnd.IntN(24), g.rnd.IntN(60)),
		Items:        items,
		Total:        model.Money(total).String(),
	}
}

func (g *Generator) description() string {
	n := 1 + g.rnd.IntN(maxWordsPerItem)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[g.rnd.IntN(len(words))]
	}
	desc := strings.Join(parts, " ")
	if g.rnd.IntN(5) == 0 {
		desc = "  " + desc + " "
	}
	return desc
}

// expected converts the wire receipt to the domain model and scores it.
func (g *Generator) expected(r Receipt) (int, error) {
	receipt, err := ToModel(r)
	if err != nil {
		return 0, err
	}
	return g.scorer.Score(receipt), nil
}

// ToModel parses a wire receipt into the domain model.
func ToModel(r Receipt) (model.Receipt, error) {
	date, err := model.ParseDate(r.PurchaseDate)
	if err != nil {
		return model.Receipt{}, err
	}
	at, err := model.ParseTimeOfDay(r.PurchaseTime)
	if err != nil {
		return model.Receipt{}, err
	}
	total, err := model.ParseMoney(r.Total)
	if err != nil {
		return model.Receipt{}, err
	}
	items := make([]model.Item, len(r.Items))
	for i, it := range r.Items {
		price, err := model.ParseMoney(it.Price)
		if err != nil {
			return model.Receipt{}, err
		}
		items[i] = model.Item{ShortDescription: it.ShortDescription, Price: price}
	}
	return model.NewReceipt(r.Retailer, date, at, items, total)
}
