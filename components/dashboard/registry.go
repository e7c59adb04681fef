package dashboard

import (
	"fmt"
	"sync"
)

// PresetHook lets packages register chart presets during init().
type PresetHook func(reg *PresetRegistry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []PresetHook
)

// RegisterPresetHook registers a hook executed against new registries.
func RegisterPresetHook(h PresetHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// PresetRegistry maps chart kinds to their styling presets and override
// schemas. The request builder refuses kinds it does not know.
type PresetRegistry struct {
	mu      sync.RWMutex
	presets map[ChartKind]ChartPreset
}

// NewPresetRegistry builds a registry seeded with the default presets and
// applies global hooks.
func NewPresetRegistry() *PresetRegistry {
	reg := &PresetRegistry{presets: map[ChartKind]ChartPreset{}}
	for _, preset := range DefaultChartPresets() {
		_ = reg.Register(preset)
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered preset hooks.
func (r *PresetRegistry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// Register stores (or replaces) the preset for its chart kind.
func (r *PresetRegistry) Register(preset ChartPreset) error {
	if preset.Kind == "" {
		return fmt.Errorf("dashboard: chart preset kind is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presets[preset.Kind] = preset
	return nil
}

// Preset fetches a preset by chart kind.
func (r *PresetRegistry) Preset(kind ChartKind) (ChartPreset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	preset, ok := r.presets[kind]
	return preset, ok
}

// Kinds returns all registered chart kinds.
func (r *PresetRegistry) Kinds() []ChartKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]ChartKind, 0, len(r.presets))
	for kind := range r.presets {
		kinds = append(kinds, kind)
	}
	return kinds
}
