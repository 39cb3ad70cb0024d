package control

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/exp/maps"

	"github.com/swinglab/pendctl/internal/state"
)

type Kind string

const (
	KindStabilizing Kind = "stabilizing"
	KindSwingUp     Kind = "swing-up"
)

// Parameter declares one tuning value of a control law.
type Parameter struct {
	Name    string
	Type    string
	Default float64
}

// Descriptor is one entry of the static control law registry: a name tag, a
// declared parameter schema and a constructor. Laws are resolved from here at
// session start, there is no runtime discovery.
type Descriptor struct {
	Name        string
	Kind        Kind
	Description string
	Parameters  []Parameter
	New         func(shared *state.SharedState, dt float64, params map[string]interface{}) (Law, error)
}

var registry = map[string]Descriptor{}

func register(descriptor Descriptor) {
	registry[descriptor.Name] = descriptor
}

// Get returns the registry entry for the given law name.
func Get(name string) (Descriptor, bool) {
	descriptor, ok := registry[name]
	return descriptor, ok
}

// Descriptors returns all registered laws sorted by name.
func Descriptors() []Descriptor {
	descriptors := maps.Values(registry)
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Name < descriptors[j].Name
	})
	return descriptors
}

// NewLaw builds the named law with the given tuning parameters. Parameters
// that are not part of the law's schema are rejected.
func NewLaw(name string, shared *state.SharedState, dt float64, params map[string]interface{}) (Law, error) {
	descriptor, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("no control law registered for name: %s", name)
	}
	return descriptor.New(shared, dt, params)
}

// decodeGains fills a gains struct (pre-populated with its defaults) from the
// untyped params map of the configuration.
func decodeGains(params map[string]interface{}, result interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           result,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err = decoder.Decode(params); err != nil {
		return fmt.Errorf("invalid controller params: %w", err)
	}
	return nil
}
