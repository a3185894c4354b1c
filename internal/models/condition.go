package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophcollect/internal/common"
)

// Condition is the graded state of a collectible.
type Condition string

const (
	ConditionMint      Condition = "mint"
	ConditionNearMint  Condition = "near_mint"
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// DefaultCondition is assigned to drafts that do not name one.
const DefaultCondition = ConditionGood

// conditionGrades orders conditions from worst (1) to best (6); the grade
// is what a minimum-rating filter compares against.
var conditionGrades = map[Condition]int{
	ConditionPoor:      1,
	ConditionFair:      2,
	ConditionGood:      3,
	ConditionExcellent: 4,
	ConditionNearMint:  5,
	ConditionMint:      6,
}

// Conditions lists every condition from best to worst.
func Conditions() []Condition {
	return []Condition{
		ConditionMint, ConditionNearMint, ConditionExcellent,
		ConditionGood, ConditionFair, ConditionPoor,
	}
}

func (c Condition) Valid() bool {
	_, ok := conditionGrades[c]
	return ok
}

// Grade returns 1..6, or 0 for an unknown condition.
func (c Condition) Grade() int {
	return conditionGrades[c]
}

// ParseCondition accepts the canonical names case-insensitively, with
// "-" or " " in place of "_" ("Near Mint", "near-mint").
func ParseCondition(s string) (Condition, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	c := Condition(norm)
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown condition %q", common.ErrValidation, s)
	}
	return c, nil
}
