package site

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads a site definition from a YAML file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site file: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing site YAML: %w", err)
	}
	def.ApplyDefaults()

	return &def, nil
}

// LoadProject loads a site definition from a project directory.
// It looks for site.yaml in the given directory.
func LoadProject(projectDir string) (*Definition, error) {
	sitePath := filepath.Join(projectDir, "site.yaml")
	return Load(sitePath)
}
