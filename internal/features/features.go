package features

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Feature names understood by the routes and the dashboard.
const (
	CartCheckout        = "cart_checkout"
	PrescriptionHistory = "prescription_history"
	EmergencyCounter    = "emergency_counter"
)

// Variant is one flavour of the dashboard. The three historical builds of the
// app differ only in which of these toggles are on.
type Variant struct {
	Name     string          `json:"name"`
	Title    string          `json:"title"`
	Features map[string]bool `json:"features"`
}

type VariantsFile struct {
	Variants []Variant `json:"variants"`
}

// Registry holds the known variants by name.
type Registry struct {
	mu       sync.RWMutex
	variants map[string]*Variant
}

func NewRegistry() *Registry {
	return &Registry{variants: make(map[string]*Variant)}
}

// Defaults returns the built-in variants.
func Defaults() *Registry {
	r := NewRegistry()
	r.Register(&Variant{
		Name:  "companion",
		Title: "Your Complete Healthcare Companion",
		Features: map[string]bool{
			CartCheckout:        true,
			PrescriptionHistory: true,
		},
	})
	r.Register(&Variant{
		Name:  "pharmacy",
		Title: "AI Medical Dashboard",
		Features: map[string]bool{
			CartCheckout:     true,
			EmergencyCounter: true,
		},
	})
	r.Register(&Variant{
		Name:     "basic",
		Title:    "AI Health Assistant",
		Features: map[string]bool{EmergencyCounter: true},
	})
	return r
}

// LoadFromFile reads variants from a JSON file on top of the defaults.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read features config: %w", err)
	}

	var file VariantsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse features config: %w", err)
	}

	registry := Defaults()
	for i := range file.Variants {
		if file.Variants[i].Name == "" {
			return nil, fmt.Errorf("features config: variant %d has no name", i)
		}
		registry.Register(&file.Variants[i])
	}
	return registry, nil
}

func (r *Registry) Register(v *Variant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.Features == nil {
		v.Features = map[string]bool{}
	}
	r.variants[v.Name] = v
}

func (r *Registry) Get(name string) *Variant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.variants[name]
}

// Names returns the registered variant names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.variants))
	for name := range r.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flags is the resolved toggle set of the running variant.
type Flags struct {
	Variant string
	Title   string
	enabled map[string]bool
}

// Resolve picks the named variant and returns its flags.
func (r *Registry) Resolve(name string) (Flags, error) {
	v := r.Get(name)
	if v == nil {
		return Flags{}, fmt.Errorf("unknown app variant %q (known: %v)", name, r.Names())
	}
	enabled := make(map[string]bool, len(v.Features))
	for k, on := range v.Features {
		enabled[k] = on
	}
	return Flags{Variant: v.Name, Title: v.Title, enabled: enabled}, nil
}

// NewFlags builds a flag set directly, mainly for tests and tools.
func NewFlags(variant string, enabled ...string) Flags {
	f := Flags{Variant: variant, enabled: make(map[string]bool, len(enabled))}
	for _, name := range enabled {
		f.enabled[name] = true
	}
	return f
}

func (f Flags) Enabled(name string) bool {
	return f.enabled[name]
}
