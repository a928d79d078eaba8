package catalog

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Steel Rod", "steelrod"},
		{"steel-rod", "steelrod"},
		{"STEEL_ROD", "steelrod"},
		{"  Steel   Rod  ", "steelrod"},
		{"steel - _ rod", "steelrod"},
		{"Copper Wire", "copperwire"},
		{"Bolt", "bolt"},
		{"BOLT", "bolt"},
		{"", ""},
		{" -_ ", ""},
		{"M8 x 40", "m8x40"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeAgreementMeansSameEntry(t *testing.T) {
	pairs := [][2]string{
		{"Steel Rod", "steel-rod"},
		{"gasket", "GAS KET"},
		{"a_b-c", "abc"},
	}
	for _, p := range pairs {
		if Normalize(p[0]) != Normalize(p[1]) {
			t.Errorf("expected %q and %q to normalize identically", p[0], p[1])
		}
	}
}
