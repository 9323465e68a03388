package agent

import "testing"

func TestParseOptionsDefaultsAndOverrides(t *testing.T) {
	o := parseOptions("alpha=0.1 custom=x")
	if got := o.meta["name"]; got != "unknown" {
		t.Fatalf("name = %q, want unknown", got)
	}
	if got := o.meta["role"]; got != "unknown" {
		t.Fatalf("role = %q, want unknown", got)
	}
	if got := o.meta["custom"]; got != "x" {
		t.Fatalf("custom = %q, want x", got)
	}

	o = parseOptions("name=custom role=slider name=final")
	if got := o.Name(); got != "final" {
		t.Fatalf("name = %q, want final", got)
	}
	if got := o.Role(); got != "slider" {
		t.Fatalf("role = %q, want slider", got)
	}
}

func TestNotifyAndProperty(t *testing.T) {
	o := parseOptions("")
	o.Notify("alpha=0.5")
	if got, ok := o.Property("alpha"); !ok || got != "0.5" {
		t.Fatalf("property alpha = %q, %v", got, ok)
	}
	o.Notify("alpha=0.25")
	if got, _ := o.Property("alpha"); got != "0.25" {
		t.Fatalf("property alpha after overwrite = %q", got)
	}
	if _, ok := o.Property("missing"); ok {
		t.Fatalf("unexpected property hit")
	}
}

func TestParseInitSpec(t *testing.T) {
	sizes, err := ParseInitSpec("65536,65536")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sizes) != 2 || sizes[0] != 65536 || sizes[1] != 65536 {
		t.Fatalf("sizes = %v", sizes)
	}

	if _, err := ParseInitSpec("65536,bogus"); err == nil {
		t.Fatalf("expected error for malformed size")
	}
	if _, err := ParseInitSpec(""); err == nil {
		t.Fatalf("expected error for empty spec")
	}
	if _, err := ParseInitSpec("-4"); err == nil {
		t.Fatalf("expected error for negative size")
	}
}

func TestNewSliderKinds(t *testing.T) {
	for _, kind := range []string{"random", "greedy", "mrgreedy"} {
		slider, err := NewSlider(kind, "seed=1")
		if err != nil {
			t.Fatalf("kind %s: %v", kind, err)
		}
		if got := slider.Role(); got != "slider" {
			t.Fatalf("kind %s role = %q", kind, got)
		}
	}
	if _, err := NewSlider("bogus", ""); err == nil {
		t.Fatalf("expected error for unknown slider kind")
	}
}
