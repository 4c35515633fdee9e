package app

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidTicker is returned for input that cannot be a listed symbol
var ErrInvalidTicker = errors.New("invalid ticker")

const maxTickerLength = 10

var tickerPattern = regexp.MustCompile(`^[A-Z0-9.:-]+$`)

// NormalizeTicker trims and upper-cases user input
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// ValidateTicker normalizes ticker and checks its format. Taiwan codes are
// numeric ("2330", "00878"); letters, dots, dashes and an exchange prefix
// ("TWSE:2330") are also accepted.
func ValidateTicker(ticker string) (string, error) {
	ticker = NormalizeTicker(ticker)

	if ticker == "" {
		return "", fmt.Errorf("%w: ticker is required", ErrInvalidTicker)
	}
	if len(ticker) > maxTickerLength {
		return "", fmt.Errorf("%w: too long (max %d characters)", ErrInvalidTicker, maxTickerLength)
	}
	if !tickerPattern.MatchString(ticker) {
		return "", fmt.Errorf("%w: alphanumeric, dots, colons and dashes only", ErrInvalidTicker)
	}
	return ticker, nil
}
