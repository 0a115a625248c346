package progression

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KirkDiggler/dnd-progression/internal/domain/rulebook"
	"github.com/KirkDiggler/dnd-progression/internal/domain/shared"
	"github.com/KirkDiggler/dnd-progression/internal/errors"
)

// AllocationMethod is how a player assigns starting ability scores
type AllocationMethod string

const (
	MethodStandardArray AllocationMethod = "standard_array"
	MethodPointBuy      AllocationMethod = "point_buy"
	MethodManual        AllocationMethod = "manual"
)

const (
	// PointBuyBudget must be spent exactly
	PointBuyBudget = 27

	pointBuyMin = 8
	pointBuyMax = 15

	manualMin     = 3
	manualMax     = 20
	manualLowWarn = 6
	manualHiWarn  = 17
)

// StandardArray is the fixed score multiset, highest first
var StandardArray = []int{15, 14, 13, 12, 10, 8}

var pointBuyCost = map[int]int{8: 0, 9: 1, 10: 2, 11: 3, 12: 4, 13: 5, 14: 7, 15: 9}

// ParseAllocationMethod accepts "standard_array", "standard-array", "Point Buy" and so on
func ParseAllocationMethod(s string) (AllocationMethod, error) {
	key := strings.ReplaceAll(rulebook.NormalizeKey(s), "-", "_")
	switch AllocationMethod(key) {
	case MethodStandardArray, MethodPointBuy, MethodManual:
		return AllocationMethod(key), nil
	}
	return "", errors.InvalidArgumentf("unknown allocation method %q", s).WithMeta("method", s)
}

// ScoreValidation is the accepted result of ValidateAbilityScores
type ScoreValidation struct {
	Method      AllocationMethod     `json:"method"`
	Scores      shared.AbilityScores `json:"scores"`
	PointsSpent int                  `json:"points_spent,omitempty"`
	Warnings    []string             `json:"warnings,omitempty"`
}

// ValidateAbilityScores checks a proposed allocation. Keys may be full
// names or abbreviations in any case, but exactly the six abilities must be
// present. Malformed input returns CodeInvalidArgument; an allocation the
// method forbids returns CodeRuleViolation.
func ValidateAbilityScores(method AllocationMethod, scores map[string]int) (*ScoreValidation, error) {
	parsed, err := parseScoreKeys(scores)
	if err != nil {
		return nil, err
	}

	switch method {
	case MethodStandardArray:
		return validateStandardArray(parsed)
	case MethodPointBuy:
		return validatePointBuy(parsed)
	case MethodManual:
		if err := validateManualBounds(parsed); err != nil {
			return nil, err
		}
		return manualWarnings(parsed), nil
	}
	return nil, errors.InvalidArgumentf("unknown allocation method %q", method).WithMeta("method", string(method))
}

func parseScoreKeys(scores map[string]int) (shared.AbilityScores, error) {
	seen := make(map[shared.Attribute]int, len(shared.Attributes))
	var unknown []string

	for key, score := range scores {
		attr, ok := shared.ParseAttribute(key)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		if _, dup := seen[attr]; dup {
			return shared.AbilityScores{}, errors.InvalidArgumentf("ability %s given more than once", attr).
				WithMeta("ability", string(attr))
		}
		seen[attr] = score
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return shared.AbilityScores{}, errors.InvalidArgumentf("unrecognized ability keys: %s", strings.Join(unknown, ", ")).
			WithMeta("keys", unknown)
	}

	var missing []string
	for _, attr := range shared.Attributes {
		if _, ok := seen[attr]; !ok {
			missing = append(missing, string(attr))
		}
	}
	if len(missing) > 0 {
		return shared.AbilityScores{}, errors.InvalidArgumentf("missing ability scores: %s", strings.Join(missing, ", ")).
			WithMeta("keys", missing)
	}

	return shared.AbilityScoresFromMap(seen), nil
}

func validateStandardArray(scores shared.AbilityScores) (*ScoreValidation, error) {
	got := sortedDesc(scores)
	for i, want := range StandardArray {
		if got[i] != want {
			return nil, errors.RuleViolationf("standard array requires exactly %s, got %s",
				formatScores(StandardArray), formatScores(got)).
				WithMeta("required", StandardArray).
				WithMeta("actual", got)
		}
	}
	return &ScoreValidation{Method: MethodStandardArray, Scores: scores}, nil
}

func validatePointBuy(scores shared.AbilityScores) (*ScoreValidation, error) {
	total := 0
	for _, attr := range shared.Attributes {
		score := scores.Get(attr)
		if score < pointBuyMin || score > pointBuyMax {
			return nil, errors.RuleViolationf("point buy %s must be between %d and %d, got %d",
				attr, pointBuyMin, pointBuyMax, score).
				WithMeta("ability", string(attr)).
				WithMeta("actual", score)
		}
		total += pointBuyCost[score]
	}

	switch {
	case total > PointBuyBudget:
		return nil, errors.RuleViolationf("point buy spends %d points, %d over the %d point budget",
			total, total-PointBuyBudget, PointBuyBudget).
			WithMeta("cost", total).
			WithMeta("budget", PointBuyBudget)
	case total < PointBuyBudget:
		return nil, errors.RuleViolationf("point buy spends %d points, %d short of the %d point budget",
			total, PointBuyBudget-total, PointBuyBudget).
			WithMeta("cost", total).
			WithMeta("budget", PointBuyBudget)
	}

	return &ScoreValidation{Method: MethodPointBuy, Scores: scores, PointsSpent: total}, nil
}

func validateManualBounds(scores shared.AbilityScores) error {
	for _, attr := range shared.Attributes {
		score := scores.Get(attr)
		if score < manualMin || score > manualMax {
			return errors.RuleViolationf("%s must be between %d and %d, got %d", attr, manualMin, manualMax, score).
				WithMeta("ability", string(attr)).
				WithMeta("actual", score)
		}
	}
	return nil
}

func manualWarnings(scores shared.AbilityScores) *ScoreValidation {
	out := &ScoreValidation{Method: MethodManual, Scores: scores}
	for _, attr := range shared.Attributes {
		score := scores.Get(attr)
		switch {
		case score < manualLowWarn:
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s %d is unusually low", attr, score))
		case score > manualHiWarn:
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s %d is unusually high", attr, score))
		}
	}
	return out
}

func sortedDesc(scores shared.AbilityScores) []int {
	out := make([]int, 0, len(shared.Attributes))
	for _, attr := range shared.Attributes {
		out = append(out, scores.Get(attr))
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func formatScores(scores []int) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = fmt.Sprint(s)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
