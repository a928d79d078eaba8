package refcode

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		prefix string
		id     uint
		want   string
	}{
		{CatalogPrefix, 1, "STDIT-000001"},
		{CatalogPrefix, 42, "STDIT-000042"},
		{ChallanPrefix, 10, "DC-000010"},
		{ItemPrefix, 1, "DCITEM000001"},
		{ItemPrefix, 2, "DCITEM000002"},
		{ItemPrefix, 1234567, "DCITEM1234567"},
	}
	for _, c := range cases {
		if got := Format(c.prefix, c.id); got != c.want {
			t.Errorf("Format(%q, %d) = %q, want %q", c.prefix, c.id, got, c.want)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, id := range []uint{1, 9, 10, 999999, 1000000} {
		for _, prefix := range []string{CatalogPrefix, ChallanPrefix, ItemPrefix} {
			code := Format(prefix, id)
			got, err := Parse(prefix, code)
			if err != nil {
				t.Fatalf("Parse(%q, %q): %v", prefix, code, err)
			}
			if got != id {
				t.Errorf("Parse(%q, %q) = %d, want %d", prefix, code, got, id)
			}
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []struct {
		prefix, code string
	}{
		{ChallanPrefix, "DCITEM000001"},
		{ChallanPrefix, "DC-"},
		{ChallanPrefix, "DC-xxxxxx"},
		{CatalogPrefix, ""},
		{ItemPrefix, "DCITEM-000001"},
	}
	for _, c := range cases {
		if _, err := Parse(c.prefix, c.code); err == nil {
			t.Errorf("Parse(%q, %q): expected error", c.prefix, c.code)
		}
	}
}
