// Package gamedata loads magic, player and enemy definitions from YAML.
package gamedata

import (
	_ "embed"
	"os"

	"github.com/KirkDiggler/battle-core/internal/catalog"
	"github.com/KirkDiggler/battle-core/internal/domain/combat"
	battleerr "github.com/KirkDiggler/battle-core/internal/errors"
	"github.com/KirkDiggler/battle-core/internal/spawn"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultData []byte

// File is the contents of a game data file
type File struct {
	Party     []string                `yaml:"party"`
	EnemyPool []string                `yaml:"enemy_pool"`
	Magic     []*combat.Magic         `yaml:"magic"`
	Players   []*spawn.PlayerTemplate `yaml:"players"`
	Enemies   []*spawn.EnemyTemplate  `yaml:"enemies"`
}

// Default returns the built-in game data
func Default() (*File, error) {
	return Parse(defaultData)
}

// Load reads game data from path, or the built-in data when path is empty
func Load(path string) (*File, error) {
	if path == "" {
		return Default()
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, battleerr.Wrapf(err, "failed to read game data %s", path)
	}
	return Parse(b)
}

// Parse decodes and validates game data
func Parse(b []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, battleerr.WrapWithCode(err, battleerr.CodeValidation, "failed to parse game data")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks cross references: every spell a player knows must exist
// and every party member must have a template
func (f *File) Validate() error {
	magic := make(map[int]bool, len(f.Magic))
	for _, m := range f.Magic {
		magic[m.ID] = true
	}

	players := make(map[string]bool, len(f.Players))
	for _, p := range f.Players {
		for _, id := range p.Magic {
			if !magic[id] {
				return battleerr.Validationf("player %s knows unknown magic %d", p.Key, id)
			}
		}
		players[p.Key] = true
	}

	for _, key := range f.Party {
		if !players[key] {
			return battleerr.Validationf("party member %s has no player template", key)
		}
	}

	return nil
}

// Catalog builds the magic catalog
func (f *File) Catalog() (catalog.Catalog, error) {
	return catalog.New(f.Magic)
}

// Provider builds a spawn provider over the file's templates
func (f *File) Provider() (spawn.Provider, error) {
	return spawn.NewStaticProvider(f.Players, f.Enemies)
}
