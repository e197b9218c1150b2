package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadBoss reads one boss definition, fills defaults and validates it.
func LoadBoss(path string) (*BossConfig, error) {
	bc := seeded()
	if err := loadYAML(path, &bc); err != nil {
		return nil, fmt.Errorf("load boss %s: %w", path, err)
	}
	if bc.ID == "" {
		bc.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	bc.ApplyDefaults()
	if err := bc.Validate(); err != nil {
		return nil, fmt.Errorf("boss %s: %w", path, err)
	}
	return &bc, nil
}

// LoadBossDir loads every *.yaml / *.yml file in dir, keyed by boss id.
func LoadBossDir(dir string) (map[string]*BossConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read boss dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isSpecFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	out := make(map[string]*BossConfig, len(names))
	for _, name := range names {
		bc, err := LoadBoss(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if _, dup := out[bc.ID]; dup {
			return nil, fmt.Errorf("duplicate boss id %q in %s", bc.ID, name)
		}
		out[bc.ID] = bc
	}
	return out, nil
}

// ResolveBoss finds id in dir. A missing directory or id falls back to the
// built-in definition of the same name, if there is one.
func ResolveBoss(dir, id string) (*BossConfig, error) {
	if dir != "" {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, id+ext)
			if _, err := os.Stat(path); err == nil {
				return LoadBoss(path)
			}
		}
		if all, err := LoadBossDir(dir); err == nil {
			if bc, ok := all[id]; ok {
				return bc, nil
			}
		}
	}
	switch id {
	case "cave_warden", VariantNormal:
		return DefaultBoss(VariantNormal), nil
	case "frost_warden", VariantIce:
		return DefaultBoss(VariantIce), nil
	}
	return nil, fmt.Errorf("boss %q not found in %q", id, dir)
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
