// Package earnings converts play counts into illustrative payout figures.
//
// The figures are not real royalties: every play is valued at a flat
// StreamRate, the same for every artist and service.
package earnings

import (
	"math"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
)

// StreamRate is the illustrative payout per play, in US dollars.
const StreamRate = 0.004

// Zero is the estimate for a missing or non-positive play count.
const Zero = "0.0000"

// Estimate returns playCount * StreamRate with four decimals.
func Estimate(playCount int) string {
	if playCount <= 0 {
		return Zero
	}
	return strconv.FormatFloat(float64(playCount)*StreamRate, 'f', 4, 64)
}

// EstimateString is Estimate for a count received as text.
func EstimateString(playCount string) string {
	n, err := strconv.Atoi(strings.TrimSpace(playCount))
	if err != nil {
		return Zero
	}
	return Estimate(n)
}

// Total returns the summed estimate of counts formatted as dollars,
// e.g. "$1.00". Non-positive counts contribute nothing.
func Total(counts ...int) string {
	var plays int64
	for _, c := range counts {
		if c > 0 {
			plays += int64(c)
		}
	}
	cents := int64(math.Round(float64(plays) * StreamRate * 100))
	return money.New(cents, money.USD).Display()
}
