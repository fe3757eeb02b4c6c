package receipts

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var digitWords = [10]string{"ZERO", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE"}

// WeightToWords spells a weight digit by digit, e.g. 14440 -> "ONE FOUR FOUR
// FOUR ZERO". The sign is discarded and the value is rounded to the nearest
// kilogram first. Total function: anything unspeakable comes back "ZERO".
func WeightToWords(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return digitWords[0]
	}
	n := int64(math.Round(math.Abs(f)))
	if n == 0 {
		return digitWords[0]
	}
	digits := strconv.FormatInt(n, 10)
	words := make([]string, 0, len(digits))
	for _, d := range digits {
		words = append(words, digitWords[d-'0'])
	}
	return strings.Join(words, " ")
}

// FormatDate renders DD/MM/YYYY, or "" for an unset timestamp.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// FormatTime renders 24-hour HH:MM, or "" for an unset timestamp.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04")
}

// ParseWeight coerces form input to a number; blank or unparseable input is
// zero, never an error.
func ParseWeight(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseCharges applies the same silent coercion to the currency field.
func ParseCharges(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ComputeNetWeight is the derived-field rule: net is gross minus tare until
// the operator has overridden it, after which the entered value stands.
// Level-triggered, so only the latest gross/tare matter.
func ComputeNetWeight(gross, tare, current float64, manual bool) float64 {
	if manual {
		return current
	}
	return gross - tare
}

// ParseLocalDateTime parses the editor's datetime-local value
// (2006-01-02T15:04); blank or malformed input is the zero time.
func ParseLocalDateTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatLocalDateTime is the inverse, feeding values back into the editor.
func FormatLocalDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02T15:04")
}

// FormatWeight renders a weight for display without trailing zeros.
func FormatWeight(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
