package viz

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/jengzang/sentiment-dashboard/internal/models"
)

func TestDefaultPaletteColor(t *testing.T) {
	p := DefaultPalette()

	tests := []struct {
		label string
		want  string
	}{
		{models.LabelPerson, "primary"},
		{models.LabelOrganization, "secondary"},
		{models.LabelLocation, "success"},
		{models.LabelProduct, "warning"},
		{models.LabelEvent, "info"},
		{"organization", "secondary"},
		{models.LabelMoney, DefaultColor},
		{"", DefaultColor},
		{"NOT_A_LABEL", DefaultColor},
	}

	for _, tt := range tests {
		if got := p.Color(tt.label); got != tt.want {
			t.Errorf("Color(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestPaletteColorIsStable(t *testing.T) {
	p := DefaultPalette()
	rapid.Check(t, func(t *rapid.T) {
		label := rapid.OneOf(rapid.SampledFrom(models.KnownLabels), rapid.String()).Draw(t, "label")
		first := p.Color(label)
		for i := 0; i < 3; i++ {
			if got := p.Color(label); got != first {
				t.Fatalf("Color(%q) changed from %q to %q", label, first, got)
			}
		}
	})
}

func TestPaletteUnknownLabelsShareDefault(t *testing.T) {
	p := &Palette{Colors: map[string]string{"PERSON": "blue"}, Default: "grey"}
	rapid.Check(t, func(t *rapid.T) {
		label := rapid.StringMatching(`[a-z]{1,8}_[0-9]`).Draw(t, "label")
		if got := p.Color(label); got != "grey" {
			t.Fatalf("Color(%q) = %q, want grey", label, got)
		}
	})
}

func TestNilPalette(t *testing.T) {
	var p *Palette
	if got := p.Color(models.LabelPerson); got != DefaultColor {
		t.Errorf("nil palette Color = %q, want %q", got, DefaultColor)
	}
}

func TestParsePalette(t *testing.T) {
	doc := []byte(`
colors:
  person: teal
  Product: orange
default: slate
`)
	p, err := ParsePalette(doc)
	if err != nil {
		t.Fatalf("ParsePalette: %v", err)
	}
	if got := p.Color(models.LabelPerson); got != "teal" {
		t.Errorf("PERSON = %q, want teal", got)
	}
	if got := p.Color("product"); got != "orange" {
		t.Errorf("product = %q, want orange", got)
	}
	if got := p.Color(models.LabelLocation); got != "slate" {
		t.Errorf("LOCATION = %q, want slate", got)
	}

	if _, err := ParsePalette([]byte("default: x\n")); err == nil {
		t.Error("expected error for palette without colors")
	}
}
