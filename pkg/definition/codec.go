package definition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/fieldschema"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Format selects the encoding used by Encode.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrEmpty is returned when a definition file has no content.
var ErrEmpty = errors.New("definition: document is empty")

// FormatFromPath picks the encoding from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a form definition from JSON or YAML. source names the input
// in error messages. The result is normalized.
func Parse(data []byte, source string) (model.FormDefinition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return model.FormDefinition{}, fmt.Errorf("%w: %s", ErrEmpty, source)
	}

	var def model.FormDefinition
	if err := json.Unmarshal(data, &def); err == nil {
		return Normalize(def), nil
	}

	def = model.FormDefinition{}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return model.FormDefinition{}, fmt.Errorf("definition: parse %s: invalid JSON or YAML: %w", source, err)
	}
	return Normalize(def), nil
}

// LoadFile reads and parses the definition stored at path.
func LoadFile(path string) (model.FormDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormDefinition{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Document is a definition together with the file it came from.
type Document struct {
	Path       string
	Definition model.FormDefinition
}

// LoadFS walks fsys and parses every JSON or YAML file as a definition.
// Documents are returned in lexical path order. Two files declaring the same
// form id are rejected.
func LoadFS(fsys fs.FS) ([]Document, error) {
	if fsys == nil {
		return nil, nil
	}

	var docs []Document
	seen := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		def, err := Parse(data, path)
		if err != nil {
			return err
		}
		if def.ID != "" {
			if prev, dup := seen[def.ID]; dup {
				return fmt.Errorf("definition: duplicate form id %q (files %s and %s)", def.ID, prev, path)
			}
			seen[def.ID] = path
		}
		docs = append(docs, Document{Path: path, Definition: def})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Encode serializes def. JSON output is indented two spaces.
func Encode(def model.FormDefinition, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(def); err != nil {
			return nil, fmt.Errorf("definition: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("definition: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		data, err := json.MarshalIndent(def, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("definition: encode json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("definition: unsupported format %q", format)
	}
}

// WriteFile encodes def using the format implied by path.
func WriteFile(path string, def model.FormDefinition) error {
	data, err := Encode(def, FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("definition: write %s: %w", path, err)
	}
	return nil
}

// Normalize fills the defaults a hand-written definition may omit: version
// 1, single layout, full width and seeded options for select and tags. It
// never invents ids or keys.
func Normalize(def model.FormDefinition) model.FormDefinition {
	out := def.Clone()
	if out.Version < 1 {
		out.Version = 1
	}
	if out.LayoutMode == "" {
		out.LayoutMode = model.LayoutSingle
	}
	for i := range out.Fields {
		field := &out.Fields[i]
		if field.Layout.Width == "" {
			field.Layout.Width = model.WidthFull
		}
		if fieldschema.HasOptions(field.Type) && len(field.Options) == 0 {
			field.Options = append([]string(nil), fieldschema.DefaultOptions...)
		}
	}
	return out
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
