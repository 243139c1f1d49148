package taxcode

import (
	"fmt"
	"sort"
	"strconv"
)

// Code is an SRI tax regime code as submitted by the tax percentage selector.
type Code string

// Entry describes one selectable tax regime.
type Entry struct {
	Code       Code   `json:"code" yaml:"code"`
	Label      string `json:"label" yaml:"label"`
	Percentage int    `json:"percentage" yaml:"percentage"`
}

// DefaultCode is preselected by the onboarding form (15%).
const DefaultCode Code = "4"

var percentages = map[Code]int{
	"0":  0,
	"2":  12,
	"3":  14,
	"4":  15,
	"5":  5,
	"6":  0,
	"7":  0,
	"8":  0,
	"10": 13,
}

var labels = map[Code]string{
	"0":  "0%",
	"2":  "12%",
	"3":  "14%",
	"4":  "15%",
	"5":  "5%",
	"6":  "No Objeto de Impuesto",
	"7":  "Exento de IVA",
	"8":  "IVA diferenciado",
	"10": "13%",
}

// Resolve returns the VAT percentage for code. Strings are used as-is, other
// values are formatted with fmt.Sprint; nil and unmapped codes yield 0.
func Resolve(code any) int {
	normalized, ok := normalize(code)
	if !ok {
		return 0
	}
	return percentages[normalized]
}

// Lookup reports the percentage for code and whether the code is known.
func Lookup(code any) (int, bool) {
	normalized, ok := normalize(code)
	if !ok {
		return 0, false
	}
	value, known := percentages[normalized]
	return value, known
}

// Label returns the display label for code, or the empty string.
func Label(code any) string {
	normalized, ok := normalize(code)
	if !ok {
		return ""
	}
	return labels[normalized]
}

// Entries lists every known code ordered numerically.
func Entries() []Entry {
	out := make([]Entry, 0, len(percentages))
	for code, pct := range percentages {
		out = append(out, Entry{Code: code, Label: labels[code], Percentage: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		left, _ := strconv.Atoi(string(out[i].Code))
		right, _ := strconv.Atoi(string(out[j].Code))
		return left < right
	})
	return out
}

func normalize(code any) (Code, bool) {
	var raw string
	switch typed := code.(type) {
	case nil:
		return "", false
	case Code:
		raw = string(typed)
	case string:
		raw = typed
	case *string:
		if typed == nil {
			return "", false
		}
		raw = *typed
	default:
		raw = fmt.Sprint(typed)
	}
	if raw == "" {
		return "", false
	}
	return Code(raw), true
}
