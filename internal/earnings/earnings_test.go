package earnings

import "testing"

func TestEstimate(t *testing.T) {
	tests := []struct {
		plays int
		want  string
	}{
		{plays: 0, want: "0.0000"},
		{plays: -5, want: "0.0000"},
		{plays: 1, want: "0.0040"},
		{plays: 37, want: "0.1480"},
		{plays: 250, want: "1.0000"},
		{plays: 12345, want: "49.3800"},
	}

	for _, tt := range tests {
		if got := Estimate(tt.plays); got != tt.want {
			t.Errorf("Estimate(%d) = %q, want %q", tt.plays, got, tt.want)
		}
	}
}

func TestEstimateString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "250", want: "1.0000"},
		{in: " 12 ", want: "0.0480"},
		{in: "", want: "0.0000"},
		{in: "many", want: "0.0000"},
		{in: "-3", want: "0.0000"},
	}

	for _, tt := range tests {
		if got := EstimateString(tt.in); got != tt.want {
			t.Errorf("EstimateString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   string
	}{
		{name: "empty", counts: nil, want: "$0.00"},
		{name: "single", counts: []int{250}, want: "$1.00"},
		{name: "sum", counts: []int{250, 250, 500}, want: "$4.00"},
		{name: "ignores negatives", counts: []int{250, -1000}, want: "$1.00"},
		{name: "rounds to cents", counts: []int{1}, want: "$0.00"},
		{name: "large", counts: []int{1000000}, want: "$4,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Total(tt.counts...); got != tt.want {
				t.Errorf("Total(%v) = %q, want %q", tt.counts, got, tt.want)
			}
		})
	}
}
