package domain

import "testing"

// Every value of a closed enumeration needs a presentation entry.
func TestClosedEnumerationsArePresentable(t *testing.T) {
	for _, d := range AllDivisions() {
		if _, ok := d.Label(); !ok {
			t.Errorf("division %q has no label", d)
		}
		if parsed, err := ParseDivision(" " + string(d) + " "); err != nil || parsed != d {
			t.Errorf("ParseDivision(%q) = %q, %v", d, parsed, err)
		}
	}

	seen := map[ReasonCode]bool{}
	for _, c := range AllReasonCodes() {
		if seen[c] {
			t.Errorf("reason code %q listed twice", c)
		}
		seen[c] = true
		if _, ok := c.Title(); !ok {
			t.Errorf("reason code %q has no title", c)
		}
	}

	if _, err := ParseDivision("copper"); err == nil {
		t.Error("expected error for unknown division")
	}
}

func TestDistanceMiles(t *testing.T) {
	detroit := Coordinates{Lon: -83.0458, Lat: 42.3314}
	chicago := Coordinates{Lon: -87.6298, Lat: 41.8781}

	d := detroit.DistanceMiles(chicago)
	if d < 230 || d > 245 {
		t.Fatalf("Detroit -> Chicago = %.1f mi, want ~237", d)
	}
	if got := detroit.DistanceMiles(detroit); got != 0 {
		t.Fatalf("distance to self = %f, want 0", got)
	}

	bands := map[float64]DistanceBand{
		10:  DistanceBandLocal,
		49:  DistanceBandLocal,
		50:  DistanceBandRegional,
		149: DistanceBandRegional,
		150: DistanceBandLongHaul,
	}
	for miles, want := range bands {
		if got := DistanceBandFor(miles); got != want {
			t.Errorf("DistanceBandFor(%v) = %s, want %s", miles, got, want)
		}
	}
}
