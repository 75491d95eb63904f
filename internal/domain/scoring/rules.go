package scoring

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/okian/receipts/internal/domain/model"
)

// Rule names as reported by Breakdown.
const (
	RuleRetailerAlnum     = "retailer_alnum"
	RuleRoundDollar       = "round_dollar"
	RuleQuarterMultiple   = "quarter_multiple"
	RuleItemPairs         = "item_pairs"
	RuleDescriptionLength = "description_length"
	RuleGeneratedTotal    = "generated_total"
	RuleOddDay            = "odd_day"
	RuleAfternoonWindow   = "afternoon_window"
)

const (
	roundDollarPoints     = 50
	quarterMultiplePoints = 25
	quarterCents          = 25
	pointsPerItemPair     = 5
	descriptionDivisor    = 3
	// ceil(price * 0.2) in dollars equals ceil(cents / 500).
	descriptionCentsPerPoint = 500
	generatedTotalPoints     = 5
	generatedTotalMinCents   = 1000
	oddDayPoints             = 6
	afternoonPoints          = 10
	afternoonStart           = 14 * 60 // exclusive
	afternoonEnd             = 16 * 60 // exclusive
)

// rule is one independent scoring contribution.
type rule struct {
	name  string
	apply func(r model.Receipt) int
}

func retailerAlnum(r model.Receipt) int {
	n := 0
	for _, c := range r.Retailer {
		if unicode.IsLetter(c) || unicode.IsNumber(c) {
			n++
		}
	}
	return n
}

func roundDollar(r model.Receipt) int {
	if r.Total.IsWholeDollars() {
		return roundDollarPoints
	}
	return 0
}

func quarterMultiple(r model.Receipt) int {
	if r.Total.IsMultipleOf(quarterCents) {
		return quarterMultiplePoints
	}
	return 0
}

func itemPairs(r model.Receipt) int {
	return len(r.Items) / 2 * pointsPerItemPair
}

// descriptionLength applies the length rule literally: a blank description
// has length 0, which is a multiple of 3. model.NewReceipt rejects blank
// descriptions, so only hand-built receipts reach that case.
func descriptionLength(r model.Receipt) int {
	total := 0
	for _, it := range r.Items {
		if utf8.RuneCountInString(strings.TrimSpace(it.ShortDescription))%descriptionDivisor != 0 {
			continue
		}
		total = addPoints(total, toPoints(ceilDiv(it.Price.Cents(), descriptionCentsPerPoint)))
	}
	return total
}

func generatedTotal(r model.Receipt) int {
	if r.Total.Cents() > generatedTotalMinCents {
		return generatedTotalPoints
	}
	return 0
}

func oddDay(r model.Receipt) int {
	if r.PurchaseDate.Day()%2 == 1 {
		return oddDayPoints
	}
	return 0
}

func afternoonWindow(r model.Receipt) int {
	m := r.PurchaseTime.Minutes()
	if m > afternoonStart && m < afternoonEnd {
		return afternoonPoints
	}
	return 0
}

// ceilDiv is ceil(a/b) for a >= 0, b > 0. It cannot overflow.
func ceilDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

// toPoints narrows v to int, saturating at math.MaxInt.
func toPoints(v int64) int {
	if uint64(v) > uint64(math.MaxInt) {
		return math.MaxInt
	}
	return int(v)
}

// addPoints adds two non-negative contributions, saturating at math.MaxInt.
func addPoints(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
