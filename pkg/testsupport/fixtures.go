package testsupport

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

//go:embed testdata/*.yaml
var fixtures embed.FS

// Fixture returns one of the bundled definitions ("intake", "order").
// Testing helpers fail the test on error to keep call sites concise.
func Fixture(t *testing.T, name string) model.FormDefinition {
	t.Helper()

	data, err := fixtures.ReadFile("testdata/" + name + ".yaml")
	if err != nil {
		t.Fatalf("fixture %s: %v", name, err)
	}
	def, err := definition.Parse(data, name)
	if err != nil {
		t.Fatalf("fixture %s: %v", name, err)
	}
	return def
}

// LoadDefinition reads a definition file, failing the test on error.
func LoadDefinition(t *testing.T, path string) model.FormDefinition {
	t.Helper()

	def, err := LoadDefinitionFromPath(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinitionFromPath returns a definition without requiring testing.T,
// allowing callers to wire fixtures in setup functions.
func LoadDefinitionFromPath(path string) (model.FormDefinition, error) {
	if path == "" {
		return model.FormDefinition{}, errors.New("testsupport: definition path is required")
	}
	def, err := definition.LoadFile(path)
	if err != nil {
		return model.FormDefinition{}, fmt.Errorf("testsupport: %w", err)
	}
	return def, nil
}

// MustLoadRecord loads a JSON record file.
func MustLoadRecord(t *testing.T, path string) model.Record {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	var out model.Record
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	return out
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
