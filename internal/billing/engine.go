package billing

import (
	"fmt"
	"strings"
)

// Breakdown is the itemized result of pricing one encounter. All amounts
// are OMR at full float64 precision; rounding to 2 decimals happens only
// at the wire and storage edges. A Breakdown is never mutated after
// ComputeBill returns it.
type Breakdown struct {
	ServiceCode          string
	BaseFee              float64
	Plan                 CoveragePlan
	ProportionalDiscount float64
	FlatDiscount         float64
	TotalDiscount        float64
	Category             PatientCategory
	Surcharge            float64
	FinalAmount          float64
}

// ErrUnknownServiceCode is returned by ComputeBill for codes outside the
// service catalog.
type ErrUnknownServiceCode struct {
	Code string
}

func (e *ErrUnknownServiceCode) Error() string {
	return fmt.Sprintf("unknown service code %q", e.Code)
}

// ComputeBill prices one encounter. The order is fixed: the proportional
// and flat discounts come off the base fee, the subtotal is clamped at
// zero, and the category surcharge applies to the clamped subtotal, not
// the base fee. The clamped subtotal keeps low-fee services under
// Standard/Basic plans from producing negative bills; the surcharged
// final amount is deliberately not capped afterwards.
//
// The function is pure and deterministic: identical inputs yield
// bit-identical Breakdowns. plan and category must come from the closed
// tables in this package; an unrecognized value is a caller bug and
// fails with an error rather than pricing at a silent zero rate.
func ComputeBill(serviceCode string, plan CoveragePlan, category PatientCategory) (Breakdown, error) {
	if _, ok := PlanByName(plan.Name); !ok {
		return Breakdown{}, fmt.Errorf("coverage plan %q is not in the plan table", plan.Name)
	}
	if _, ok := CategoryByName(category.Name); !ok {
		return Breakdown{}, fmt.Errorf("patient category %q is not in the category table", category.Name)
	}

	code := NormalizeServiceCode(serviceCode)
	baseFee, ok := BaseFee(code)
	if !ok {
		return Breakdown{}, &ErrUnknownServiceCode{Code: code}
	}

	proportional := baseFee * plan.DiscountRate
	flat := plan.FlatDiscount
	totalDiscount := proportional + flat

	subtotal := baseFee - totalDiscount
	if subtotal < 0 {
		subtotal = 0
	}

	surcharge := subtotal * category.SurchargeRate

	return Breakdown{
		ServiceCode:          code,
		BaseFee:              baseFee,
		Plan:                 plan,
		ProportionalDiscount: proportional,
		FlatDiscount:         flat,
		TotalDiscount:        totalDiscount,
		Category:             category,
		Surcharge:            surcharge,
		FinalAmount:          subtotal + surcharge,
	}, nil
}

// Receipt renders the breakdown as a multi-line itemized receipt for
// console display.
func (b Breakdown) Receipt() string {
	var sb strings.Builder
	sb.WriteString("----------------------------------------\n")
	sb.WriteString("            BILL BREAKDOWN\n")
	sb.WriteString("----------------------------------------\n")
	fmt.Fprintf(&sb, "Service Code:        %s\n", b.ServiceCode)
	fmt.Fprintf(&sb, "Base Fee:            %s OMR\n", FormatAmount(b.BaseFee))
	fmt.Fprintf(&sb, "Insurance Plan:      %s\n", b.Plan.Name)
	fmt.Fprintf(&sb, "Plan Discount:       -%s OMR\n", FormatAmount(b.ProportionalDiscount))
	fmt.Fprintf(&sb, "Flat Discount:       -%s OMR\n", FormatAmount(b.FlatDiscount))
	fmt.Fprintf(&sb, "Total Discount:      -%s OMR\n", FormatAmount(b.TotalDiscount))
	fmt.Fprintf(&sb, "Patient Category:    %s\n", b.Category.Name)
	fmt.Fprintf(&sb, "Surcharge:           +%s OMR\n", FormatAmount(b.Surcharge))
	sb.WriteString("----------------------------------------\n")
	fmt.Fprintf(&sb, "FINAL AMOUNT:        %s OMR\n", FormatAmount(b.FinalAmount))
	sb.WriteString("----------------------------------------")
	return sb.String()
}
