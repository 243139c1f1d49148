package handlers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goliatone/go-onboarding/pkg/taxcode"
)

// TaxResult is one resolved code.
type TaxResult struct {
	Code       string `json:"code"`
	Percentage int    `json:"percentage"`
	Label      string `json:"label,omitempty"`
	Known      bool   `json:"known"`
}

// Tax writes the percentage of each code, or every known code when codes is
// empty.
func Tax(w io.Writer, codes []string, jsonOutput bool) error {
	results := make([]TaxResult, 0, len(codes))
	if len(codes) == 0 {
		for _, entry := range taxcode.Entries() {
			results = append(results, TaxResult{
				Code:       string(entry.Code),
				Percentage: entry.Percentage,
				Label:      entry.Label,
				Known:      true,
			})
		}
	}
	for _, code := range codes {
		pct, known := taxcode.Lookup(code)
		results = append(results, TaxResult{
			Code:       code,
			Percentage: pct,
			Label:      taxcode.Label(code),
			Known:      known,
		})
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, res := range results {
		label := res.Label
		if !res.Known {
			label = "(desconocido)"
		}
		if _, err := fmt.Fprintf(w, "%s\t%d%%\t%s\n", res.Code, res.Percentage, label); err != nil {
			return err
		}
	}
	return nil
}
