// Package scoring computes reward points for validated receipts.
package scoring

import "github.com/okian/receipts/internal/domain/model"

// Scorer computes a score for a receipt.
type Scorer interface {
	// Score returns the points for r. It never fails for a validated receipt.
	Score(r model.Receipt) int
}

// Contribution is the points one rule added to a score.
type Contribution struct {
	Rule   string
	Points int
}

// Engine implements Scorer. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	generatedCode bool
	rules         []rule
}

// NewEngine creates an engine. The generated-code rule follows the link-time
// flag unless WithGeneratedCodeBonus overrides it.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		generatedCode: GeneratedBuild(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.rules = []rule{
		{name: RuleRetailerAlnum, apply: retailerAlnum},
		{name: RuleRoundDollar, apply: roundDollar},
		{name: RuleQuarterMultiple, apply: quarterMultiple},
		{name: RuleItemPairs, apply: itemPairs},
		{name: RuleDescriptionLength, apply: descriptionLength},
	}
	if e.generatedCode {
		e.rules = append(e.rules, rule{name: RuleGeneratedTotal, apply: generatedTotal})
	}
	e.rules = append(e.rules,
		rule{name: RuleOddDay, apply: oddDay},
		rule{name: RuleAfternoonWindow, apply: afternoonWindow},
	)

	return e
}

// Score returns the sum of all rule contributions. Every contribution is
// non-negative and the sum saturates at math.MaxInt.
func (e *Engine) Score(r model.Receipt) int {
	points := 0
	for _, rl := range e.rules {
		points = addPoints(points, rl.apply(r))
	}
	return points
}

// Breakdown returns every rule's contribution in evaluation order,
// including rules that contributed zero.
func (e *Engine) Breakdown(r model.Receipt) []Contribution {
	out := make([]Contribution, len(e.rules))
	for i, rl := range e.rules {
		out[i] = Contribution{Rule: rl.name, Points: rl.apply(r)}
	}
	return out
}

// GeneratedCodeBonus reports whether the generated_total rule is active.
func (e *Engine) GeneratedCodeBonus() bool {
	return e.generatedCode
}
