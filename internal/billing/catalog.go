package billing

import "strings"

// ServiceCatalogEntry binds a service code to its base fee in OMR.
type ServiceCatalogEntry struct {
	Code        string // normalized code, e.g. "MRI700"
	Description string // human-readable service name
	BaseFee     float64
}

// ServiceCatalog lists the billable services in canonical order. It is
// populated once at init and never mutated, so concurrent reads from
// connection handlers need no locking.
var ServiceCatalog = []ServiceCatalogEntry{
	{Code: "CONS100", Description: "Consultation", BaseFee: 12.0},
	{Code: "LAB210", Description: "Lab Test", BaseFee: 8.5},
	{Code: "IMG330", Description: "X-Ray", BaseFee: 25.0},
	{Code: "US400", Description: "Ultrasound", BaseFee: 35.0},
	{Code: "MRI700", Description: "MRI", BaseFee: 180.0},
}

// NormalizeServiceCode trims surrounding whitespace and uppercases a raw
// service code so lookups are case-insensitive.
func NormalizeServiceCode(raw string) string {
	return strings.ToUpper(trimmed(raw))
}

// BaseFee resolves the base fee for a service code, normalizing first.
// Returns ok=false for codes outside the catalog.
func BaseFee(code string) (float64, bool) {
	code = NormalizeServiceCode(code)
	for _, e := range ServiceCatalog {
		if e.Code == code {
			return e.BaseFee, true
		}
	}
	return 0, false
}

// ValidServiceCode reports whether the code resolves in the catalog.
func ValidServiceCode(code string) bool {
	_, ok := BaseFee(code)
	return ok
}

// ServiceCodes returns the catalog codes in canonical order.
func ServiceCodes() []string {
	codes := make([]string, len(ServiceCatalog))
	for i, e := range ServiceCatalog {
		codes[i] = e.Code
	}
	return codes
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
