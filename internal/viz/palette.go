package viz

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jengzang/sentiment-dashboard/internal/models"
)

// DefaultColor is used for labels missing from a palette
const DefaultColor = "default"

// Palette maps entity labels to display color identifiers
type Palette struct {
	Colors  map[string]string `yaml:"colors" json:"colors"`
	Default string            `yaml:"default" json:"default"`
}

// DefaultPalette returns the dashboard's built-in category colors
func DefaultPalette() *Palette {
	return &Palette{
		Colors: map[string]string{
			models.LabelPerson:       "primary",
			models.LabelOrganization: "secondary",
			models.LabelLocation:     "success",
			models.LabelProduct:      "warning",
			models.LabelEvent:        "info",
		},
		Default: DefaultColor,
	}
}

// Color returns the color for label. Unknown labels get the palette default.
func (p *Palette) Color(label string) string {
	if p == nil {
		return DefaultColor
	}
	if c, ok := p.Colors[strings.ToUpper(strings.TrimSpace(label))]; ok {
		return c
	}
	if p.Default == "" {
		return DefaultColor
	}
	return p.Default
}

// LoadPalette reads a palette from a YAML file.
// Keys are normalized to upper case so lookups stay case-insensitive.
func LoadPalette(path string) (*Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette: %w", err)
	}
	return ParsePalette(data)
}

// ParsePalette decodes a YAML palette document
func ParsePalette(data []byte) (*Palette, error) {
	var raw Palette
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse palette: %w", err)
	}
	if len(raw.Colors) == 0 {
		return nil, fmt.Errorf("palette defines no colors")
	}

	p := &Palette{Colors: make(map[string]string, len(raw.Colors)), Default: raw.Default}
	for label, color := range raw.Colors {
		p.Colors[strings.ToUpper(strings.TrimSpace(label))] = color
	}
	if p.Default == "" {
		p.Default = DefaultColor
	}
	return p, nil
}
