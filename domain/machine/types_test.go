package machine

import "testing"

func TestParseMetric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1234", 1234},
		{"1.234", 1234}, // dot is a thousands separator, not a decimal point
		{"1.234.567", 1234567},
		{"1.234,5", 1234.5},
		{"12,5", 12.5},
		{"0", 0},
		{"", 0},
		{"-", 0},
		{"  42  ", 42},
		{"n/a", 0},
	}
	for _, c := range cases {
		if got := ParseMetric(c.in); got != c.want {
			t.Errorf("ParseMetric(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestExcludeKiddie(t *testing.T) {
	records := []Record{
		{Machine: "Racing King"},
		{Machine: "kiddie land 1 jam"}, // case-insensitive match
		{Machine: "KIDDIE LAND"},
	}
	kept := ExcludeKiddie(records)
	if len(kept) != 1 || kept[0].Machine != "Racing King" {
		t.Fatalf("kept = %+v, want only Racing King", kept)
	}
}
