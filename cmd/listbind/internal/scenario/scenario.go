// Package scenario loads scripted list sessions for the simulate command.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	lberrors "github.com/go-drift/listbind/pkg/errors"
)

// SupportedMajor is the scenario schema major version this build reads.
const SupportedMajor = "v1"

// Scenario is the on-disk form of a scripted session.
type Scenario struct {
	Version string     `yaml:"version,omitempty"`
	Name    string     `yaml:"name,omitempty"`
	Items   int        `yaml:"items,omitempty"`
	List    ListConfig `yaml:"list"`
	Steps   []Step     `yaml:"steps"`
}

// ListConfig mirrors host.Config.
type ListConfig struct {
	ItemExtent     float64 `yaml:"item_extent,omitempty"`
	ViewportExtent float64 `yaml:"viewport_extent,omitempty"`
	CacheExtent    float64 `yaml:"cache_extent,omitempty"`
}

// Range selects Count items starting at At.
type Range struct {
	At    int `yaml:"at"`
	Count int `yaml:"count,omitempty"`
}

// Step is one scripted action. Exactly one field must be set.
type Step struct {
	// Scroll scrolls by a delta.
	Scroll *float64 `yaml:"scroll,omitempty"`
	// ScrollTo scrolls to an absolute offset.
	ScrollTo *float64 `yaml:"scroll_to,omitempty"`
	// Insert adds Count new items at At.
	Insert *Range `yaml:"insert,omitempty"`
	// Remove removes Count items at At.
	Remove *Range `yaml:"remove,omitempty"`
	// Touch fires the item-changed notification of the item at a position.
	Touch *int `yaml:"touch,omitempty"`
	// Dirty marks the view laid out at a position dirty.
	Dirty *int `yaml:"dirty,omitempty"`
	// Attach and Detach register and unregister the host.
	Attach bool `yaml:"attach,omitempty"`
	Detach bool `yaml:"detach,omitempty"`
}

// Kind returns the name of the action the step performs.
func (s Step) Kind() string {
	switch {
	case s.Scroll != nil:
		return "scroll"
	case s.ScrollTo != nil:
		return "scroll_to"
	case s.Insert != nil:
		return "insert"
	case s.Remove != nil:
		return "remove"
	case s.Touch != nil:
		return "touch"
	case s.Dirty != nil:
		return "dirty"
	case s.Attach:
		return "attach"
	case s.Detach:
		return "detach"
	default:
		return ""
	}
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Scroll != nil, s.ScrollTo != nil, s.Insert != nil, s.Remove != nil,
		s.Touch != nil, s.Dirty != nil, s.Attach, s.Detach,
	} {
		if set {
			n++
		}
	}
	return n
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Parse decodes a scenario document. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Scenario{}, nil
		}
		return nil, lberrors.InvalidConfig("scenario.Parse", err)
	}
	return &sc, nil
}

// Resolve applies defaults and validates the scenario. Failures are
// *errors.AdapterError values of kind KindConfig.
func (sc *Scenario) Resolve() error {
	if err := sc.resolve(); err != nil {
		return lberrors.InvalidConfig("scenario.Resolve", err)
	}
	return nil
}

func (sc *Scenario) resolve() error {
	if sc.Version == "" {
		sc.Version = SupportedMajor + ".0.0"
	}
	if !semver.IsValid(sc.Version) {
		return fmt.Errorf("version %q is not a valid semantic version", sc.Version)
	}
	if major := semver.Major(sc.Version); major != SupportedMajor {
		return fmt.Errorf("scenario version %s is not supported (want %s.x)", sc.Version, SupportedMajor)
	}
	if sc.Name == "" {
		sc.Name = "scenario"
	}
	if sc.Items == 0 {
		sc.Items = 100
	}
	if sc.Items < 0 {
		return fmt.Errorf("items must not be negative (got %d)", sc.Items)
	}
	if sc.List.ItemExtent == 0 {
		sc.List.ItemExtent = 48
	}
	if sc.List.ViewportExtent == 0 {
		sc.List.ViewportExtent = 480
	}
	if sc.List.ItemExtent < 0 || sc.List.ViewportExtent < 0 || sc.List.CacheExtent < 0 {
		return fmt.Errorf("list extents must not be negative")
	}
	for i := range sc.Steps {
		if err := sc.Steps[i].validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Step) validate() error {
	switch s.actions() {
	case 0:
		return fmt.Errorf("no action given")
	case 1:
	default:
		return fmt.Errorf("more than one action given")
	}
	for _, r := range []*Range{s.Insert, s.Remove} {
		if r == nil {
			continue
		}
		if r.Count == 0 {
			r.Count = 1
		}
		if r.At < 0 || r.Count < 0 {
			return fmt.Errorf("%s range must not be negative", s.Kind())
		}
	}
	return nil
}
