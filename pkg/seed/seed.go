package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/grievance-api/internal/models"
)

//go:embed default.yaml
var defaultSeed []byte

// Data is the reference data loaded once at start.
type Data struct {
	Institutions []models.Institution `yaml:"institutions"`
	Roles        []models.Role        `yaml:"roles"`
}

// Default returns the embedded reference data.
func Default() (*Data, error) {
	return Decode(bytes.NewReader(defaultSeed))
}

// Load reads reference data from path. An empty path selects the embedded default.
func Load(path string) (*Data, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	data, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return data, nil
}

// Decode parses and validates a YAML seed document.
func Decode(r io.Reader) (*Data, error) {
	var data Data
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("seed document is empty")
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate rejects blank or duplicate ids and names.
func (d *Data) Validate() error {
	if len(d.Institutions) == 0 {
		return fmt.Errorf("seed must declare at least one institution")
	}
	if len(d.Roles) == 0 {
		return fmt.Errorf("seed must declare at least one role")
	}

	seen := make(map[string]struct{}, len(d.Institutions))
	for i := range d.Institutions {
		inst := &d.Institutions[i]
		inst.ID = strings.TrimSpace(inst.ID)
		inst.Name = strings.TrimSpace(inst.Name)
		if inst.ID == "" {
			return fmt.Errorf("institution %d: id is required", i)
		}
		if inst.Name == "" {
			return fmt.Errorf("institution %s: name is required", inst.ID)
		}
		if _, dup := seen[inst.ID]; dup {
			return fmt.Errorf("duplicate institution id %q", inst.ID)
		}
		seen[inst.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(d.Roles))
	names := make(map[string]struct{}, len(d.Roles))
	for i := range d.Roles {
		role := &d.Roles[i]
		role.ID = strings.TrimSpace(role.ID)
		role.Name = strings.TrimSpace(role.Name)
		if role.ID == "" {
			return fmt.Errorf("role %d: id is required", i)
		}
		if role.Name == "" {
			return fmt.Errorf("role %s: name is required", role.ID)
		}
		if _, dup := seen[role.ID]; dup {
			return fmt.Errorf("duplicate role id %q", role.ID)
		}
		if _, dup := names[role.Name]; dup {
			return fmt.Errorf("duplicate role name %q", role.Name)
		}
		seen[role.ID] = struct{}{}
		names[role.Name] = struct{}{}
	}
	return nil
}
