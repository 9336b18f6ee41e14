package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProfilesFile is the optional CLI profile store under ~/.elydora.
const ProfilesFile = "profiles.yaml"

// Profile is one named platform environment for CLI use.
type Profile struct {
	Name    string `yaml:"name" json:"name"`
	BaseURL string `yaml:"base_url" json:"base_url"`
	Token   string `yaml:"token,omitempty" json:"token,omitempty"`
}

// Profiles is the parsed profiles.yaml document.
type Profiles struct {
	Default  string    `yaml:"default,omitempty" json:"default,omitempty"`
	Profiles []Profile `yaml:"profiles" json:"profiles"`
}

// LoadProfiles reads profiles.yaml from the ~/.elydora root. A missing file
// yields an empty set, not an error.
func LoadProfiles() (*Profiles, error) {
	root, err := Root()
	if err != nil {
		return nil, err
	}
	return LoadProfilesFrom(filepath.Join(root, ProfilesFile))
}

// LoadProfilesFrom reads a profile document from an explicit path.
func LoadProfilesFrom(path string) (*Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Profiles{}, nil
		}
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	var p Profiles
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	return &p, nil
}

// Lookup resolves a profile by name, falling back to the document default
// when name is empty.
func (p *Profiles) Lookup(name string) (*Profile, bool) {
	if name == "" {
		name = p.Default
	}
	if name == "" {
		return nil, false
	}
	for i := range p.Profiles {
		if p.Profiles[i].Name == name {
			return &p.Profiles[i], true
		}
	}
	return nil, false
}
