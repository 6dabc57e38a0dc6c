package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/khalidelboray/convos/internal/reactive"
)

// Backend names accepted by Scenario.Backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Scenario drives a single reactive object through declarations and steps.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Backend selects the stores: "memory" (default) or "sqlite".
	Backend string `yaml:"backend,omitempty"`

	// Seed pre-populates the stores before any declaration.
	Seed Seed `yaml:"seed,omitempty"`

	// Declare lists the properties to register, in order.
	Declare []Declaration `yaml:"declare"`

	// Steps run after all declarations.
	Steps []Step `yaml:"steps"`

	// Expect is checked after the loop has been drained.
	Expect Expect `yaml:"expect,omitempty"`
}

// Seed holds raw JSON documents keyed by storage key.
type Seed struct {
	Durable map[string]string `yaml:"durable,omitempty"`
	Session map[string]string `yaml:"session,omitempty"`
}

// Declaration registers one property.
type Declaration struct {
	// Kind is a kind tag accepted by reactive.ParseKind.
	Kind  string `yaml:"kind"`
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`
	Key   string `yaml:"key,omitempty"`
	Lazy  bool   `yaml:"lazy,omitempty"`

	// ExpectError is the error code the declaration must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Step is one action. Exactly one of Update, Flush, Emit or Read is set.
type Step struct {
	Update map[string]any `yaml:"update,omitempty"`
	Flush  bool           `yaml:"flush,omitempty"`
	Emit   string         `yaml:"emit,omitempty"`
	Args   []any          `yaml:"args,omitempty"`
	Read   string         `yaml:"read,omitempty"`
}

func (s Step) actions() int {
	n := 0
	if s.Update != nil {
		n++
	}
	if s.Flush {
		n++
	}
	if s.Emit != "" {
		n++
	}
	if s.Read != "" {
		n++
	}
	return n
}

// Expect describes the observable outcome.
type Expect struct {
	// Events lists the changed map of every update event, in order.
	// Nil skips the check; an empty list asserts no update event fired.
	Events []map[string]bool `yaml:"events,omitempty"`

	// Values are compared by their JSON encoding.
	Values map[string]any `yaml:"values,omitempty"`

	// Durable and Session map storage keys to raw JSON. A nil entry asserts
	// the key is absent.
	Durable map[string]*string `yaml:"durable,omitempty"`
	Session map[string]*string `yaml:"session,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch s.Backend {
	case "", BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}

	if len(s.Declare) == 0 {
		return fmt.Errorf("declare list is required and must be non-empty")
	}

	for i, d := range s.Declare {
		if d.Name == "" {
			return fmt.Errorf("declare[%d]: name is required", i)
		}
		if d.Kind == "" {
			return fmt.Errorf("declare[%d]: kind is required", i)
		}
		if d.ExpectError != "" {
			continue
		}
		if _, err := reactive.ParseKind(d.Kind); err != nil {
			return fmt.Errorf("declare[%d]: %w", i, err)
		}
	}

	for i, step := range s.Steps {
		if n := step.actions(); n != 1 {
			return fmt.Errorf("steps[%d]: exactly one of update, flush, emit, read is required, got %d", i, n)
		}
		if step.Args != nil && step.Emit == "" {
			return fmt.Errorf("steps[%d]: args are only valid with emit", i)
		}
	}

	return nil
}
