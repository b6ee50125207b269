package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/pders01/interview/internal/models"
	"github.com/pders01/interview/internal/validate"
)

// IsBirthDateField reports whether questionID carries one or more birth
// dates.
func IsBirthDateField(questionID string) bool {
	id := strings.ToLower(strings.TrimSpace(questionID))
	return strings.HasSuffix(id, "birth-date") ||
		strings.HasSuffix(id, "birth-dates") ||
		strings.Contains(id, "date-naissance")
}

// AgeAt returns the age in whole years of someone born on birth at now.
func AgeAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// AnnotateAge appends the computed age after each date of a birth-date
// answer. The answer is split on the multi-value separator and rejoined with
// it. Dates are displayed as DD/MM/YYYY; malformed tokens pass through
// unchanged. Other questions are returned as is.
func AnnotateAge(questionID, raw string, now time.Time) string {
	if !IsBirthDateField(questionID) {
		return raw
	}

	tokens := strings.Split(raw, ";")
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		birth, err := validate.ParseDate(tok)
		if err != nil {
			out = append(out, tok)
			continue
		}
		out = append(out, fmt.Sprintf("%s (Âge calculé : %d ans)", birth.Format(validate.DisplayDate), AgeAt(birth, now)))
	}
	return strings.Join(out, models.MultiSeparator)
}
