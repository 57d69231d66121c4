package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	kMultiplier = 1_000
	mMultiplier = 1_000_000
)

var (
	suffixCleanupRegex = regexp.MustCompile(`[^\d.]`)
	numberCleanupRegex = regexp.MustCompile(`[^\d.,]`)
)

// ParseAbbreviatedNumber parses counters the way Telegram renders
// them: "1.5K", "2M", "1,234" or a plain number. It is total —
// anything unparseable yields 0, because the input comes from
// untrusted markup text.
func ParseAbbreviatedNumber(text string) int {
	text = strings.ToUpper(strings.TrimSpace(text))

	if text == "" {
		return 0
	}

	if strings.Contains(text, "K") {
		return scaledNumber(strings.ReplaceAll(text, "K", ""), kMultiplier)
	}

	if strings.Contains(text, "M") {
		return scaledNumber(strings.ReplaceAll(text, "M", ""), mMultiplier)
	}

	cleaned := numberCleanupRegex.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	if cleaned == "" {
		return 0
	}

	number, err := strconv.ParseFloat(cleaned, 64)

	if err != nil {
		return 0
	}

	return int(number)
}

func scaledNumber(text string, multiplier int) int {
	cleaned := suffixCleanupRegex.ReplaceAllString(text, "")

	number, err := strconv.ParseFloat(cleaned, 64)

	if err != nil {
		return 0
	}

	return int(number * float64(multiplier))
}
