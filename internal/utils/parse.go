package utils

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// LoadTOMLFile decodes a TOML file into config. Decode failures are
// returned to the caller, which may retry section by section.
func LoadTOMLFile(configPath string, config interface{}) error {
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Warnf("TOML decode failed for %s: %v", configPath, err)
		return err
	}
	return nil
}

// ParseTOMLWithRecovery re-reads a TOML file as a loose map, so
// sections that are intact survive a bad key or wrong type elsewhere
// in the file.
func ParseTOMLWithRecovery(configPath string) (map[string]any, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	loose := make(map[string]any)
	if _, err := toml.Decode(string(data), &loose); err != nil {
		log.Warnf("No recoverable sections in %s: %v", configPath, err)
		return nil, err
	}
	return loose, nil
}

// ExtractSection pulls one named table out of a loosely parsed file.
func ExtractSection(data map[string]any, sectionName string) (map[string]any, bool) {
	section, ok := data[sectionName].(map[string]any)
	return section, ok
}

// ExtractInt64 reads an integer key from a loose table. TOML integers
// arrive as int64; a float that is really a whole number is accepted
// too, since hand-edited files get that wrong.
func ExtractInt64(data map[string]any, key string) (int, bool) {
	switch val := data[key].(type) {
	case int64:
		return int(val), true
	case float64:
		if val == float64(int64(val)) {
			return int(val), true
		}
	}
	return 0, false
}

// ExtractBool reads a boolean key from a loose table.
func ExtractBool(data map[string]any, key string) (bool, bool) {
	val, ok := data[key].(bool)
	return val, ok
}
