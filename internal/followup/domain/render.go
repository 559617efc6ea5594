package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render substitutes every {{identifier}} token in body with the mapped
// value. Identifiers absent from vars render as the empty string; no
// placeholder syntax survives in the output. Pure and deterministic.
func Render(body string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(body, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		return vars[name]
	})
}

// FormatKoreanDate renders a date as "M월 D일" for customer-facing messages.
func FormatKoreanDate(t time.Time) string {
	return fmt.Sprintf("%d월 %d일", int(t.Month()), t.Day())
}

// BuildVariables assembles the standard placeholder mapping used by the
// auto-reply and every follow-up step.
func BuildVariables(name string, desiredDate *time.Time, guestCount *int, vendorName string) map[string]string {
	vars := map[string]string{
		"name":          name,
		"date":          "",
		"guest_count":   "",
		"business_name": vendorName,
	}
	if desiredDate != nil {
		vars["date"] = FormatKoreanDate(*desiredDate)
	}
	if guestCount != nil {
		vars["guest_count"] = strconv.Itoa(*guestCount)
	}
	return vars
}
