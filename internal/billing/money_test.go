package billing

import "testing"

func TestToCents(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{148.0, 14800},
		{17.25, 1725},
		{8.855, 886}, // rounds, not truncates
		{0.004, 0},
	}
	for _, tc := range cases {
		if got := ToCents(tc.in); got != tc.want {
			t.Errorf("ToCents(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{148, "148.00"},
		{17.25, "17.25"},
		{8.5, "8.50"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCentsRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 850, 1725, 14800} {
		if got := ToCents(CentsToAmount(cents)); got != cents {
			t.Errorf("round trip %d cents: got %d", cents, got)
		}
	}
}
