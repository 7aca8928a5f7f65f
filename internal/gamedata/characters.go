package gamedata

import "github.com/gdamore/tcell/v2"

// CharacterDef defines a playable character loaded from JSON.
type CharacterDef struct {
	ID    string `json:"id"`    // Unique identifier (e.g., "knight")
	Name  string `json:"name"`  // Display name (e.g., "Knight")
	Glyph string `json:"glyph"` // Single character for rendering (e.g., "K")
	Color string `json:"color"` // Hex color code (e.g., "#E0C040")
}

// GlyphRune returns the glyph as a rune for rendering.
func (c *CharacterDef) GlyphRune() rune {
	if len(c.Glyph) == 0 {
		return '?'
	}
	return rune(c.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (c *CharacterDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(c.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// CharactersFile represents the structure of characters.json.
type CharactersFile struct {
	Characters []CharacterDef `json:"characters"`
}

// LoadCharacters loads character definitions from the embedded characters.json file.
func LoadCharacters() ([]CharacterDef, error) {
	file, err := Load[CharactersFile]("characters.json")
	if err != nil {
		return nil, err
	}
	return file.Characters, nil
}

// BotNamesFile represents the structure of botnames.json.
type BotNamesFile struct {
	Names []string `json:"names"`
}

// LoadBotNames loads the pool of bot display names.
func LoadBotNames() ([]string, error) {
	file, err := Load[BotNamesFile]("botnames.json")
	if err != nil {
		return nil, err
	}
	return file.Names, nil
}
