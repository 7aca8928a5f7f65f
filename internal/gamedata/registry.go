package gamedata

import (
	"errors"
	"math/rand"
)

// CharacterRegistry holds loaded character definitions in display order.
type CharacterRegistry struct {
	characters []CharacterDef
}

// NewCharacterRegistry creates a registry from loaded character definitions.
func NewCharacterRegistry(characters []CharacterDef) *CharacterRegistry {
	return &CharacterRegistry{characters: characters}
}

// LoadCharacterRegistry loads and creates a registry from the embedded characters.json.
func LoadCharacterRegistry() (*CharacterRegistry, error) {
	characters, err := LoadCharacters()
	if err != nil {
		return nil, err
	}
	if len(characters) == 0 {
		return nil, errors.New("no characters loaded from characters.json")
	}
	return NewCharacterRegistry(characters), nil
}

// MustLoadCharacterRegistry loads a registry, panicking on error.
func MustLoadCharacterRegistry() *CharacterRegistry {
	registry, err := LoadCharacterRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the character definition with the given ID, or nil if not found.
func (r *CharacterRegistry) GetByID(id string) *CharacterDef {
	for i := range r.characters {
		if r.characters[i].ID == id {
			return &r.characters[i]
		}
	}
	return nil
}

// Random selects a character uniformly.
func (r *CharacterRegistry) Random(rng *rand.Rand) *CharacterDef {
	if len(r.characters) == 0 {
		return nil
	}
	return &r.characters[rng.Intn(len(r.characters))]
}

// ShuffledNames returns a shuffled copy of names.
func ShuffledNames(rng *rand.Rand, names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
