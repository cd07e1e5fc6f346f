package models

import (
	"strconv"
	"strings"
)

// TaxCode is a Sage 100 VAT treatment code as the DGI expects it.
type TaxCode string

const (
	TaxCodeTVA  TaxCode = "TVA"  // normal rate, 18%
	TaxCodeTVAB TaxCode = "TVAB" // reduced rate, 9%
	TaxCodeTVAC TaxCode = "TVAC" // exempt, conventional
	TaxCodeTVAD TaxCode = "TVAD" // exempt, legal
)

// taxRates maps every symbolic code to its percentage rate.
var taxRates = map[TaxCode]int{
	TaxCodeTVA:  18,
	TaxCodeTVAB: 9,
	TaxCodeTVAC: 0,
	TaxCodeTVAD: 0,
}

// Rate returns the percentage rate for a symbolic tax code.
func (c TaxCode) Rate() (int, bool) {
	rate, ok := taxRates[c]
	return rate, ok
}

// ResolveTaxCode interprets a raw G-column cell. Symbolic codes from the
// closed set are accepted as-is (case-insensitive). A purely numeric value is
// treated as a rate: 18 resolves to TVA, 9 to TVAB and 0 to TVAC (when only
// the rate is given the conventional exemption is assumed).
func ResolveTaxCode(raw string) (TaxCode, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	upper := strings.ToUpper(trimmed)
	if _, ok := taxRates[TaxCode(upper)]; ok {
		return TaxCode(upper), true
	}

	// Sage exports sometimes carry the numeric rate instead of the code.
	numeric := strings.ReplaceAll(trimmed, ",", ".")
	rate, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return "", false
	}
	switch rate {
	case 18:
		return TaxCodeTVA, true
	case 9:
		return TaxCodeTVAB, true
	case 0:
		return TaxCodeTVAC, true
	}
	return "", false
}
