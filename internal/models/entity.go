package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRecord is returned when a record fails boundary validation
var ErrInvalidRecord = errors.New("invalid record")

// Entity labels produced by the NER model
const (
	LabelPerson       = "PERSON"
	LabelOrganization = "ORGANIZATION"
	LabelLocation     = "LOCATION"
	LabelProduct      = "PRODUCT"
	LabelEvent        = "EVENT"
	LabelMoney        = "MONEY"
	LabelDate         = "DATE"
	LabelTime         = "TIME"
	LabelPercent      = "PERCENT"
	LabelWorkOfArt    = "WORK_OF_ART"
	LabelLaw          = "LAW"
	LabelLanguage     = "LANGUAGE"
)

// KnownLabels lists every label the NER model can emit
var KnownLabels = []string{
	LabelPerson, LabelOrganization, LabelLocation, LabelProduct, LabelEvent, LabelMoney,
	LabelDate, LabelTime, LabelPercent, LabelWorkOfArt, LabelLaw, LabelLanguage,
}

// EntityRecord represents a named entity and how often it occurs
type EntityRecord struct {
	Text  string `json:"text" db:"text"`
	Label string `json:"label" db:"label"` // PERSON, ORGANIZATION, LOCATION, PRODUCT, ...
	Count int    `json:"count" db:"count"` // Occurrences, never negative
}

// Validate checks the record before it enters the dashboard.
// Unknown labels are accepted; they render with the default color.
func (e EntityRecord) Validate() error {
	if strings.TrimSpace(e.Text) == "" {
		return fmt.Errorf("%w: entity text is empty", ErrInvalidRecord)
	}
	if strings.TrimSpace(e.Label) == "" {
		return fmt.Errorf("%w: entity %q has no label", ErrInvalidRecord, e.Text)
	}
	if e.Count < 0 {
		return fmt.Errorf("%w: entity %q has negative count %d", ErrInvalidRecord, e.Text, e.Count)
	}
	return nil
}

// ValidateEntities validates every record and reports the first failure with its index
func ValidateEntities(records []EntityRecord) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("entity %d: %w", i, err)
		}
	}
	return nil
}

// EntityView is an entity prepared for display
type EntityView struct {
	EntityRecord
	Color string `json:"color"` // Display color identifier for the label
}

// EntityPanel is the render-ready entity list
type EntityPanel struct {
	Query    string       `json:"query"`
	Total    int          `json:"total"`    // Records before filtering
	Entities []EntityView `json:"entities"` // Records matching the query, source order
	Notice   *Notice      `json:"notice,omitempty"`
}
