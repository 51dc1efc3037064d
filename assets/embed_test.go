package assets

import (
	"io/fs"
	"reflect"
	"testing"

	"github.com/robalobadob/whack/internal/game"
)

func TestProfilesEmbedded(t *testing.T) {
	data, err := Profiles()
	if err != nil {
		t.Fatalf("Profiles: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("profiles.yaml is empty")
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(Migrations(), "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no migrations embedded")
	}
}

func TestProfilesMatchBuiltins(t *testing.T) {
	data, err := Profiles()
	if err != nil {
		t.Fatalf("Profiles: %v", err)
	}
	c, err := game.LoadCatalog(data)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if !reflect.DeepEqual(c.All(), game.DefaultCatalog().All()) {
		t.Fatalf("embedded catalog drifted from built-ins:\n%+v\n%+v", c.All(), game.DefaultCatalog().All())
	}
	if c.Default().ID != game.DefaultProfileID {
		t.Fatalf("default: %q", c.Default().ID)
	}
}
