package uischema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks the provided filesystem and parses JSON/YAML UI schema files.
// When fsys is nil or no schema files are present, the returned store is
// empty. Icons are sanitized here so nothing downstream has to re-check
// them.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{
		entities: make(map[string]EntityOverride),
		reports:  make(map[string]ReportOverride),
	}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for name, raw := range doc.Entities {
			entity := strings.TrimSpace(name)
			if entity == "" {
				return fmt.Errorf("uischema: file %s defines an empty entity name", path)
			}
			if _, exists := store.entities[entity]; exists {
				return fmt.Errorf("uischema: duplicate entity %q (file %s)", entity, path)
			}
			raw.Entity = entity
			raw.Source = path
			raw.Icon = sanitizeIconMarkup(raw.Icon)
			store.entities[entity] = raw
		}

		for name, raw := range doc.Reports {
			report := strings.TrimSpace(name)
			if report == "" {
				return fmt.Errorf("uischema: file %s defines an empty report name", path)
			}
			if _, exists := store.reports[report]; exists {
				return fmt.Errorf("uischema: duplicate report %q (file %s)", report, path)
			}
			raw.Report = report
			raw.Source = path
			raw.Icon = sanitizeIconMarkup(raw.Icon)
			store.reports[report] = raw
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

type documentFile struct {
	Entities map[string]EntityOverride `json:"entities" yaml:"entities"`
	Reports  map[string]ReportOverride `json:"reports" yaml:"reports"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("uischema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("uischema: parse %s: invalid JSON or YAML", source)
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
