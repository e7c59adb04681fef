package dashboard

import (
	"fmt"
	"io"
	"os"

	"github.com/ettle/strcase"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// Slot scopes a manifest entry can declare.
const (
	ScopeDay  = "day"
	ScopeWeek = "week"
)

// Manifest is the YAML document wiring a dashboard instance: the service
// endpoint, the slot/dataset bindings, and optional preset additions.
type Manifest struct {
	Version string           `yaml:"version"`
	Locale  string           `yaml:"locale"`
	Service ServiceManifest  `yaml:"service"`
	Slots   []SlotManifest   `yaml:"slots"`
	Presets []PresetManifest `yaml:"presets"`
}

// ServiceManifest locates the remote visualization/data service.
type ServiceManifest struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// SlotManifest binds one slot to a dataset and chart configuration.
type SlotManifest struct {
	Name        string               `yaml:"name"`
	Scope       string               `yaml:"scope"`
	Dataset     string               `yaml:"dataset"`
	Chart       string               `yaml:"chart"`
	Aggregation *AggregationManifest `yaml:"aggregation"`
	Overrides   map[string]any       `yaml:"overrides"`
}

// AggregationManifest mirrors AggregationSpec in YAML form.
type AggregationManifest struct {
	Method string `yaml:"method"`
	Mode   string `yaml:"mode"`
	Param  string `yaml:"param"`
}

// PresetManifest registers or replaces a chart preset from configuration.
type PresetManifest struct {
	Kind   string         `yaml:"kind"`
	Args   map[string]any `yaml:"args"`
	Schema map[string]any `yaml:"schema"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("dashboard: open manifest: %w", err)
	}
	defer f.Close()
	return ParseManifest(f)
}

// ParseManifest decodes and validates a manifest from a reader.
func ParseManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("dashboard: decode manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks version, endpoint, and every slot entry.
func (m Manifest) Validate() error {
	if m.Version != "" && m.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", m.Version)
	}
	if m.Service.URL == "" {
		return fmt.Errorf("dashboard: manifest requires service.url")
	}
	for _, slot := range m.Slots {
		if err := slot.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s SlotManifest) validate() error {
	if s.Name == "" {
		return fmt.Errorf("dashboard: slot name is required")
	}
	if s.Scope != ScopeDay && s.Scope != ScopeWeek {
		return fmt.Errorf("dashboard: slot %q has unknown scope %q", s.Name, s.Scope)
	}
	if _, err := uuid.Parse(s.Dataset); err != nil {
		return fmt.Errorf("dashboard: slot %q dataset is not a valid id: %w", s.Name, err)
	}
	return nil
}

// Key derives the stable slot key from the display name
// ("Day Activity" -> "day-activity").
func (s SlotManifest) Key() SlotKey {
	return SlotKey(strcase.ToKebab(s.Name))
}

// Binding converts the manifest entry into a dataset binding.
func (s SlotManifest) Binding() DatasetBinding {
	binding := DatasetBinding{
		DatasetID: s.Dataset,
		Chart:     ChartKind(s.Chart),
		Overrides: s.Overrides,
	}
	if s.Aggregation != nil {
		binding.Aggregation = &AggregationSpec{
			Method: s.Aggregation.Method,
			Mode:   s.Aggregation.Mode,
			Param:  s.Aggregation.Param,
		}
	}
	return binding
}

// Bindings extracts the day- and week-scoped bindings. Exactly one of each is
// expected.
func (m Manifest) Bindings() (day, week DatasetBinding, err error) {
	var haveDay, haveWeek bool
	for _, slot := range m.Slots {
		switch slot.Scope {
		case ScopeDay:
			if haveDay {
				return day, week, fmt.Errorf("dashboard: manifest declares multiple day slots")
			}
			day, haveDay = slot.Binding(), true
		case ScopeWeek:
			if haveWeek {
				return day, week, fmt.Errorf("dashboard: manifest declares multiple week slots")
			}
			week, haveWeek = slot.Binding(), true
		}
	}
	if !haveDay || !haveWeek {
		return day, week, fmt.Errorf("dashboard: manifest requires one day and one week slot")
	}
	return day, week, nil
}

// ApplyPresets registers manifest presets on the registry.
func (m Manifest) ApplyPresets(reg *PresetRegistry) error {
	for _, preset := range m.Presets {
		if err := reg.Register(ChartPreset{
			Kind:   ChartKind(preset.Kind),
			Args:   preset.Args,
			Schema: preset.Schema,
		}); err != nil {
			return err
		}
	}
	return nil
}
