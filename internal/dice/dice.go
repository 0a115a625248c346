package dice

import (
	"fmt"
	"strings"
)

// RollResult is the outcome of rolling count dice of one size plus a flat bonus
type RollResult struct {
	Total    int   `json:"total"`
	Rolls    []int `json:"rolls"`
	Bonus    int   `json:"bonus"`
	Count    int   `json:"count"`
	Sides    int   `json:"sides"`
	RawTotal int   `json:"raw_total"`
}

// Average is the rounded-up mean of a single die, the fixed value used
// when hit points are not rolled (d8 -> 5)
func Average(sides int) int {
	return sides/2 + 1
}

func (r *RollResult) String() string {
	compact := strings.ReplaceAll(fmt.Sprintf("%v", r.Rolls), " ", "")
	if r.Bonus != 0 {
		return fmt.Sprintf("%dd%d%+d %s = %d", r.Count, r.Sides, r.Bonus, compact, r.Total)
	}
	return fmt.Sprintf("%dd%d %s = %d", r.Count, r.Sides, compact, r.Total)
}
