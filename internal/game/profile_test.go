package game

import (
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if got := c.Default(); got.ID != "normal" || got.DurationSeconds != 60 || got.MaxMisses != 10 ||
		got.BaseSpawnDelayMs != 1050 || got.MinSpawnDelayMs != 420 {
		t.Fatalf("default profile: %+v", got)
	}
	ids := []string{}
	for _, p := range c.All() {
		ids = append(ids, p.ID)
	}
	if strings.Join(ids, ",") != "easy,normal,hard" {
		t.Fatalf("order: %v", ids)
	}
}

func TestLookupFallsBack(t *testing.T) {
	c := DefaultCatalog()
	if p, ok := c.Lookup(" HARD "); !ok || p.ID != "hard" {
		t.Fatalf("Lookup(HARD) = %+v, %v", p, ok)
	}
	if p, ok := c.Lookup("nightmare"); ok || p.ID != "normal" {
		t.Fatalf("Lookup(nightmare) = %+v, %v", p, ok)
	}
	if p, ok := c.Lookup(""); ok || p.ID != "normal" {
		t.Fatalf("Lookup(\"\") = %+v, %v", p, ok)
	}
}

func TestLoadCatalog(t *testing.T) {
	data := []byte(`
default: calm
profiles:
  - id: calm
    label: Calm
    durationSeconds: 90
    maxMisses: 20
    baseSpawnDelayMs: 1400
    minSpawnDelayMs: 700
  - id: frantic
    durationSeconds: 30
    maxMisses: 5
    baseSpawnDelayMs: 600
    minSpawnDelayMs: 250
`)
	c, err := LoadCatalog(data)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if c.Default().ID != "calm" {
		t.Fatalf("default: %q", c.Default().ID)
	}
	p, ok := c.Lookup("frantic")
	if !ok || p.Label != "frantic" || p.MaxMisses != 5 {
		t.Fatalf("frantic: %+v", p)
	}
}

func TestLoadCatalogRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"not yaml":   "profiles: [",
		"empty":      "profiles: []",
		"no default": "profiles:\n  - {id: a, durationSeconds: 1, maxMisses: 1, baseSpawnDelayMs: 10, minSpawnDelayMs: 5}",
		"duplicate": `default: a
profiles:
  - {id: a, durationSeconds: 1, maxMisses: 1, baseSpawnDelayMs: 10, minSpawnDelayMs: 5}
  - {id: A, durationSeconds: 1, maxMisses: 1, baseSpawnDelayMs: 10, minSpawnDelayMs: 5}`,
		"min above base": `default: a
profiles:
  - {id: a, durationSeconds: 1, maxMisses: 1, baseSpawnDelayMs: 10, minSpawnDelayMs: 50}`,
		"zero misses": `default: a
profiles:
  - {id: a, durationSeconds: 1, maxMisses: 0, baseSpawnDelayMs: 10, minSpawnDelayMs: 5}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadCatalog([]byte(data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
