package utils

import (
	"math"
	"strconv"
)

// ParseFloat converts a string to a float64, returning 0 if there's an error
func ParseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	return value, nil
}

// RoundAmount rounds a monetary value to cents. Every amount written to the
// ledger goes through this so repeated float arithmetic cannot drift the
// stored balances away from the transaction log.
func RoundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}
