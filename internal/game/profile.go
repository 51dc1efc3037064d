package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultProfileID is used whenever a requested profile cannot be resolved.
const DefaultProfileID = "normal"

// Profile is an immutable named difficulty configuration.
type Profile struct {
	ID               string `yaml:"id" json:"id"`
	Label            string `yaml:"label" json:"label"`
	DurationSeconds  int    `yaml:"durationSeconds" json:"durationSeconds"`
	MaxMisses        int    `yaml:"maxMisses" json:"maxMisses"`
	BaseSpawnDelayMs int    `yaml:"baseSpawnDelayMs" json:"baseSpawnDelayMs"`
	MinSpawnDelayMs  int    `yaml:"minSpawnDelayMs" json:"minSpawnDelayMs"`
}

// Validate checks that the profile can drive a round.
func (p Profile) Validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return errors.New("profile id is empty")
	case p.DurationSeconds <= 0:
		return fmt.Errorf("profile %q: durationSeconds must be positive", p.ID)
	case p.MaxMisses <= 0:
		return fmt.Errorf("profile %q: maxMisses must be positive", p.ID)
	case p.MinSpawnDelayMs <= 0:
		return fmt.Errorf("profile %q: minSpawnDelayMs must be positive", p.ID)
	case p.BaseSpawnDelayMs < p.MinSpawnDelayMs:
		return fmt.Errorf("profile %q: baseSpawnDelayMs %d below minSpawnDelayMs %d",
			p.ID, p.BaseSpawnDelayMs, p.MinSpawnDelayMs)
	}
	return nil
}

// Duration is the round length.
func (p Profile) Duration() time.Duration {
	return time.Duration(p.DurationSeconds) * time.Second
}

var builtinProfiles = []Profile{
	{ID: "easy", Label: "Easy", DurationSeconds: 75, MaxMisses: 12, BaseSpawnDelayMs: 1250, MinSpawnDelayMs: 560},
	{ID: "normal", Label: "Normal", DurationSeconds: 60, MaxMisses: 10, BaseSpawnDelayMs: 1050, MinSpawnDelayMs: 420},
	{ID: "hard", Label: "Hard", DurationSeconds: 45, MaxMisses: 8, BaseSpawnDelayMs: 900, MinSpawnDelayMs: 320},
}

// Catalog is an ordered, read-only set of profiles with a default.
type Catalog struct {
	profiles []Profile
	byID     map[string]int
	def      string
}

// NewCatalog validates profiles and builds a catalog. def must name one of them.
func NewCatalog(def string, profiles ...Profile) (*Catalog, error) {
	if len(profiles) == 0 {
		return nil, errors.New("catalog has no profiles")
	}
	c := &Catalog{
		profiles: make([]Profile, 0, len(profiles)),
		byID:     make(map[string]int, len(profiles)),
		def:      normalizeID(def),
	}
	for _, p := range profiles {
		p.ID = normalizeID(p.ID)
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		if p.Label == "" {
			p.Label = p.ID
		}
		c.byID[p.ID] = len(c.profiles)
		c.profiles = append(c.profiles, p)
	}
	if _, ok := c.byID[c.def]; !ok {
		return nil, fmt.Errorf("default profile %q not in catalog", def)
	}
	return c, nil
}

// DefaultCatalog returns the built-in easy/normal/hard catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultProfileID, builtinProfiles...)
	if err != nil {
		panic(err) // built-ins are constant
	}
	return c
}

// catalogFile is the YAML shape of a catalog.
type catalogFile struct {
	Default  string    `yaml:"default"`
	Profiles []Profile `yaml:"profiles"`
}

// LoadCatalog parses a YAML catalog. A missing default falls back to "normal".
func LoadCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	if f.Default == "" {
		f.Default = DefaultProfileID
	}
	c, err := NewCatalog(f.Default, f.Profiles...)
	if err != nil {
		return nil, fmt.Errorf("invalid profiles: %w", err)
	}
	return c, nil
}

// Lookup resolves id. Unknown ids resolve to the default profile with ok=false.
func (c *Catalog) Lookup(id string) (Profile, bool) {
	if i, ok := c.byID[normalizeID(id)]; ok {
		return c.profiles[i], true
	}
	return c.Default(), false
}

// Default returns the catalog's default profile.
func (c *Catalog) Default() Profile { return c.profiles[c.byID[c.def]] }

// All returns the profiles in declaration order.
func (c *Catalog) All() []Profile {
	out := make([]Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

func normalizeID(id string) string { return strings.ToLower(strings.TrimSpace(id)) }
