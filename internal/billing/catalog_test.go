package billing

import "testing"

func TestBaseFee(t *testing.T) {
	cases := []struct {
		in   string
		fee  float64
		ok   bool
	}{
		{"MRI700", 180.0, true},
		{"mri700", 180.0, true},
		{" lab210 ", 8.5, true},
		{"CONS100", 12.0, true},
		{"US400", 35.0, true},
		{"IMG330", 25.0, true},
		{"XYZ999", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		fee, ok := BaseFee(tc.in)
		if ok != tc.ok || fee != tc.fee {
			t.Errorf("BaseFee(%q) = %v, %v; want %v, %v", tc.in, fee, ok, tc.fee, tc.ok)
		}
	}
}

func TestPlanByName(t *testing.T) {
	p, ok := PlanByName(" Standard ")
	if !ok {
		t.Fatal("Standard plan not found")
	}
	if p.DiscountRate != 0.10 || p.FlatDiscount != 8.0 {
		t.Errorf("Standard rates: got %v/%v, want 0.10/8.0", p.DiscountRate, p.FlatDiscount)
	}

	// Names are case-sensitive, matching the closed enumeration.
	if _, ok := PlanByName("standard"); ok {
		t.Error("lowercase plan name should not resolve")
	}
	if _, ok := PlanByName("Platinum"); ok {
		t.Error("unknown plan name should not resolve")
	}
}

func TestCategoryByName(t *testing.T) {
	c, ok := CategoryByName("Emergency")
	if !ok {
		t.Fatal("Emergency category not found")
	}
	if c.SurchargeRate != 0.15 {
		t.Errorf("Emergency surcharge: got %v, want 0.15", c.SurchargeRate)
	}
	if _, ok := CategoryByName("Daycare"); ok {
		t.Error("unknown category should not resolve")
	}
}

func TestServiceCodes(t *testing.T) {
	codes := ServiceCodes()
	if len(codes) != 5 {
		t.Fatalf("expected 5 catalog codes, got %d: %v", len(codes), codes)
	}
	for _, code := range codes {
		if !ValidServiceCode(code) {
			t.Errorf("catalog code %s does not validate", code)
		}
	}
}
