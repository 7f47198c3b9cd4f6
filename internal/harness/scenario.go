package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/linejournal/internal/entry"
)

// Scenario defines one end-to-end journaling run.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Retention caps each journal. Zero selects the default cap.
	Retention int `yaml:"retention,omitempty"`

	// Format is the record format written: "v2" (default) or "legacy".
	Format string `yaml:"format,omitempty"`

	// Steps are applied in order, one change notification each.
	Steps []Step `yaml:"steps"`

	// Assertions are checked after the last step.
	Assertions []Assertion `yaml:"assertions"`
}

// Step writes a new version of a file, or deletes it.
type Step struct {
	// File is a bare file name inside the scenario's scratch directory.
	File string `yaml:"file"`

	// Lines is the new content. Omitted or empty writes an empty file.
	Lines []string `yaml:"lines,omitempty"`

	// Delete removes the file instead of writing it.
	Delete bool `yaml:"delete,omitempty"`
}

// Assertion checks one journal after the run.
type Assertion struct {
	Type    string   `yaml:"type"`
	File    string   `yaml:"file"`
	Lines   []string `yaml:"lines,omitempty"`
	Since   string   `yaml:"since,omitempty"`
	Count   int      `yaml:"count,omitempty"`
	Content string   `yaml:"content,omitempty"`
}

// Assertion type constants.
const (
	AssertState       = "state"
	AssertStateSince  = "state_since"
	AssertEntryCount  = "entry_count"
	AssertEntryAbsent = "entry_absent"
	AssertMatchesFile = "matches_file"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Reject unknown fields so typos like "assertion:" fail loudly
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := Validate(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// Validate checks that required fields are present and valid.
func Validate(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Retention < 0 {
		return fmt.Errorf("retention must be non-negative")
	}
	if _, err := entry.ParseFormat(s.Format); err != nil {
		return err
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateFileName(step.File); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
		if step.Delete && len(step.Lines) > 0 {
			return fmt.Errorf("steps[%d]: lines and delete are exclusive", i)
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateFileName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("file is required")
	case name == "." || name == "..", strings.ContainsAny(name, `/\`), name != filepath.Base(name):
		return fmt.Errorf("file %q must be a bare name", name)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if err := validateFileName(a.File); err != nil {
		return fmt.Errorf("assertions[%d]: %w", index, err)
	}

	switch a.Type {
	case AssertState, AssertMatchesFile:
	case AssertStateSince:
		if _, err := entry.ParseTimestamp(a.Since); err != nil {
			return fmt.Errorf("assertions[%d]: since: %w", index, err)
		}
	case AssertEntryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for entry_count", index)
		}
	case AssertEntryAbsent:
		if a.Content == "" {
			return fmt.Errorf("assertions[%d]: content is required for entry_absent", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
