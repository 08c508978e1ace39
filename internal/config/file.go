package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/model"
)

// ConfigFileName is the discoverable config file's base name (extension
// resolved by LoadFile/Discover), per §4.10/§6.
const ConfigFileName = "kreuzberg"

// LoadFile reads path and decodes it into an ExtractionConfig, dispatched
// on its extension (.toml, .yaml/.yml, .json). Unknown fields are
// rejected (strict parse) per §6, so a typo in a config file surfaces
// immediately instead of silently extracting with defaults.
func LoadFile(path string) (model.ExtractionConfig, error) {
	var zero model.ExtractionConfig

	ext := strings.ToLower(filepath.Ext(path))
	var viperType string
	switch ext {
	case ".toml":
		viperType = "toml"
	case ".yaml", ".yml":
		viperType = "yaml"
	case ".json":
		viperType = "json"
	default:
		return zero, kerrors.NewValidationError(fmt.Sprintf("unrecognized config file extension %q", ext), nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return zero, kerrors.NewIoError(fmt.Sprintf("failed to open config file %s", path), err)
	}
	defer f.Close()

	v := viper.New()
	v.SetConfigType(viperType)
	if err := v.ReadConfig(f); err != nil {
		return zero, kerrors.NewSerializationError(viperType, err)
	}

	var cfg model.ExtractionConfig
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook,
		Result:           &cfg,
	})
	if err != nil {
		return zero, kerrors.NewSerializationError(viperType, err)
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return zero, kerrors.NewSerializationError(viperType, err)
	}

	return cfg, nil
}

// Discover walks from startDir up to the filesystem root looking for
// kreuzberg.toml (preferring .toml, then .yaml/.yml, then .json at each
// directory level), per §4.10. Returns "" with no error if none is found.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", kerrors.NewIoError("failed to resolve start directory", err)
	}

	candidates := []string{
		ConfigFileName + ".toml",
		ConfigFileName + ".yaml",
		ConfigFileName + ".yml",
		ConfigFileName + ".json",
	}

	for {
		for _, name := range candidates {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadWithDiscovery discovers and loads a config file starting from
// startDir, merged over defaults. Returns DefaultExtractionConfig()
// unchanged if no file is found.
func LoadWithDiscovery(startDir string) (model.ExtractionConfig, error) {
	defaults := model.DefaultExtractionConfig()

	path, err := Discover(startDir)
	if err != nil {
		return defaults, err
	}
	if path == "" {
		return defaults, nil
	}

	fileCfg, err := LoadFile(path)
	if err != nil {
		return defaults, err
	}

	return model.Merge(defaults, fileCfg), nil
}
