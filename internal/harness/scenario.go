package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/uibridge/internal/source"
	"github.com/roach88/uibridge/internal/target"
)

// Scenario defines one conversion scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Project is the fixture project directory.
	Project string `yaml:"project"`

	// Asset is a db:// path or a uuid inside Project.
	Asset string `yaml:"asset"`

	// Profile overrides the detected source profile.
	Profile string `yaml:"profile,omitempty"`

	// Target, when set, builds the IR into this framework.
	Target string `yaml:"target,omitempty"`

	// AutoCanvas wraps UGUI roots in a Canvas.
	AutoCanvas bool `yaml:"auto_canvas,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one property of a scenario result.
type Assertion struct {
	Type string `yaml:"type"`

	// Node is a slash-joined node path (component, target_component, flag).
	Node string `yaml:"node,omitempty"`

	// Kind is a component kind (component, target_component).
	Kind string `yaml:"kind,omitempty"`

	// UUID and Resource select a referenced resource (resource).
	UUID     string `yaml:"uuid,omitempty"`
	Resource string `yaml:"resource,omitempty"`

	// Loss is a loss kind (loss_count).
	Loss string `yaml:"loss,omitempty"`

	// Flag is button, scrollView or grid (flag).
	Flag string `yaml:"flag,omitempty"`

	// Count is the expected number (node_count, loss_count).
	Count int `yaml:"count,omitempty"`
}

// Assertion types.
const (
	AssertNodeCount       = "node_count"
	AssertComponent       = "component"
	AssertTargetComponent = "target_component"
	AssertResource        = "resource"
	AssertLossCount       = "loss_count"
	AssertFlag            = "flag"
	AssertRoundTrip       = "round_trip"
)

// Node flags checked by the flag assertion.
const (
	FlagButton     = "button"
	FlagScrollView = "scrollView"
	FlagGrid       = "grid"
)

// ScenarioExt is the extension DiscoverScenarios matches.
const ScenarioExt = ".yaml"

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected and the project path is resolved relative to the file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Project != "" && !filepath.IsAbs(scenario.Project) {
		scenario.Project = filepath.Join(filepath.Dir(path), scenario.Project)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// DiscoverScenarios returns the scenario files directly inside dir, sorted.
func DiscoverScenarios(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+ScenarioExt))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Project == "" {
		return fmt.Errorf("project is required")
	}
	if s.Asset == "" {
		return fmt.Errorf("asset is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	if _, err := os.Stat(s.Project); os.IsNotExist(err) {
		return fmt.Errorf("project not found: %s", s.Project)
	}
	if s.Profile != "" {
		if _, err := source.ParseProfile(s.Profile); err != nil {
			return err
		}
	}
	if s.Target != "" {
		if _, err := target.NewMapper(s.Target, target.Options{}); err != nil {
			return err
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], s); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion, s *Scenario) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertNodeCount:
		if a.Count <= 0 {
			return fmt.Errorf("assertions[%d]: count must be positive for node_count", index)
		}
	case AssertComponent, AssertTargetComponent:
		if a.Node == "" || a.Kind == "" {
			return fmt.Errorf("assertions[%d]: node and kind are required for %s", index, a.Type)
		}
		if a.Type == AssertTargetComponent && s.Target == "" {
			return fmt.Errorf("assertions[%d]: target_component needs a scenario target", index)
		}
	case AssertResource:
		if a.UUID == "" {
			return fmt.Errorf("assertions[%d]: uuid is required for resource", index)
		}
	case AssertLossCount:
		if a.Loss == "" {
			return fmt.Errorf("assertions[%d]: loss is required for loss_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for loss_count", index)
		}
	case AssertFlag:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for flag", index)
		}
		switch a.Flag {
		case FlagButton, FlagScrollView, FlagGrid:
		default:
			return fmt.Errorf("assertions[%d]: unknown flag %q", index, a.Flag)
		}
	case AssertRoundTrip:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
