// Package config loads optional CLI defaults for expertsystem from a
// TOML file. It never holds rule data — rules always come from the
// positional input file argument — only cosmetic defaults for the
// explain-mode output.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/usercrixus/42expertSystem/internal/xerrors"
)

// defaultWrapWidth is the console width explain output wraps at when
// no config file overrides it.
const defaultWrapWidth = 80

// DefaultFileName is the config file auto-discovered in the working
// directory when --config is not given.
const DefaultFileName = ".expertsystemrc"

// Config holds the CLI defaults read from the config file.
type Config struct {
	WrapWidth int  `toml:"wrap_width"`
	NoColor   bool `toml:"no_color"`
}

// Default returns the built-in defaults used when no config file is
// present.
func Default() Config {
	return Config{WrapWidth: defaultWrapWidth}
}

// Load reads path as a TOML config file layered over Default. A
// missing file at the auto-discovered DefaultFileName is not an
// error — Default is returned unchanged; a missing file at an
// explicitly-requested path is.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, xerrors.IO(err, "reading config file %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, xerrors.Syntax("parsing config file %s: %s", path, err)
	}
	if cfg.WrapWidth <= 0 {
		cfg.WrapWidth = defaultWrapWidth
	}
	return cfg, nil
}
