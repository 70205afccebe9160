// Package project persists plan documents and user defaults. This is the
// caller-side layer around the pure pipeline: it stores the raw input
// (segments, openings, settings) plus the manual override map, and never
// reaches into the computation itself.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/piwi3910/FormFit/internal/layout"
	"github.com/piwi3910/FormFit/internal/model"
)

// PlanDocument is the on-disk form of one planning project. Overrides are
// keyed by the string form of layout.PanelKey ("c<chain>:r<row>:p<ordinal>").
type PlanDocument struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Segments  []model.WallSegment        `json:"segments"`
	Openings  []model.Opening            `json:"openings"`
	Overrides map[string]layout.Override `json:"overrides,omitempty"`
	Settings  model.PlanSettings         `json:"settings"`
}

// NewPlanDocument creates an empty document with default settings.
func NewPlanDocument(name string) PlanDocument {
	return PlanDocument{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Settings: model.DefaultPlanSettings(),
	}
}

// OverrideMap converts the persisted override keys into layout.PanelKey
// form. Malformed keys are returned separately so the caller can report
// them without losing the rest.
func (d PlanDocument) OverrideMap() (map[layout.PanelKey]layout.Override, []string) {
	out := make(map[layout.PanelKey]layout.Override, len(d.Overrides))
	var bad []string
	for s, ov := range d.Overrides {
		key, err := layout.ParsePanelKey(s)
		if err != nil {
			bad = append(bad, s)
			continue
		}
		out[key] = ov
	}
	return out, bad
}

// SavePlan writes a plan document as indented JSON, creating any missing
// parent directories.
func SavePlan(path string, doc PlanDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPlan reads a plan document. Settings missing from the file fall back
// to defaults rather than zero values.
func LoadPlan(path string) (PlanDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PlanDocument{}, err
	}
	doc := PlanDocument{Settings: model.DefaultPlanSettings()}
	if err := json.Unmarshal(data, &doc); err != nil {
		return PlanDocument{}, fmt.Errorf("parse plan %s: %w", path, err)
	}
	return doc, nil
}
