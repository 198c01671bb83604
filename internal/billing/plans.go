package billing

// CoveragePlan is one of the supported insurance tiers. Each tier carries
// a proportional discount rate and a flat discount amount in OMR.
type CoveragePlan struct {
	Name         string  // e.g. "Premium"
	DiscountRate float64 // proportional discount applied to the base fee
	FlatDiscount float64 // flat amount subtracted after the proportional discount
}

// PatientCategory is one of the supported encounter types. Each carries a
// proportional surcharge rate applied to the discounted subtotal.
type PatientCategory struct {
	Name          string  // e.g. "Outpatient"
	SurchargeRate float64 // surcharge applied to the discounted subtotal
}

// AllPlans lists the supported coverage plans in canonical order.
var AllPlans = []CoveragePlan{
	{Name: "Premium", DiscountRate: 0.15, FlatDiscount: 5.0},
	{Name: "Standard", DiscountRate: 0.10, FlatDiscount: 8.0},
	{Name: "Basic", DiscountRate: 0.00, FlatDiscount: 10.0},
}

// AllCategories lists the supported patient categories in canonical order.
var AllCategories = []PatientCategory{
	{Name: "Outpatient", SurchargeRate: 0.00},
	{Name: "Inpatient", SurchargeRate: 0.05},
	{Name: "Emergency", SurchargeRate: 0.15},
}

// PlanByName returns the CoveragePlan for the given name, or ok=false.
// Surrounding whitespace is ignored; the name itself is case-sensitive.
func PlanByName(name string) (CoveragePlan, bool) {
	name = trimmed(name)
	for _, p := range AllPlans {
		if p.Name == name {
			return p, true
		}
	}
	return CoveragePlan{}, false
}

// CategoryByName returns the PatientCategory for the given name, or ok=false.
func CategoryByName(name string) (PatientCategory, bool) {
	name = trimmed(name)
	for _, c := range AllCategories {
		if c.Name == name {
			return c, true
		}
	}
	return PatientCategory{}, false
}

// PlanNames returns the plan names in canonical order.
func PlanNames() []string {
	names := make([]string, len(AllPlans))
	for i, p := range AllPlans {
		names[i] = p.Name
	}
	return names
}

// CategoryNames returns the category names in canonical order.
func CategoryNames() []string {
	names := make([]string, len(AllCategories))
	for i, c := range AllCategories {
		names[i] = c.Name
	}
	return names
}
