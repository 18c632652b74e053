package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const path = "infra/config"

// Load loads the config for the given key from <dir>/<key>.json
func Load(dir, key string, v interface{}) error {
	return LoadFile(filepath.Join(dir, fmt.Sprintf("%s.json", key)), v)
}

// LoadFile loads the config from the given json file.
func LoadFile(file string, v interface{}) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("could not load config from %s: %w", file, err)
	}

	err = json.Unmarshal(b, v)
	if err != nil {
		return fmt.Errorf("could not unmarshal the config from %s: %w", file, err)
	}

	log.Info().Str("file", file).Msg("loaded config")
	return nil
}

// MustLoad loads the config for the given key
func MustLoad(key string, v interface{}) {
	if err := Load(path, key, v); err != nil {
		panic(err.Error())
	}
}
