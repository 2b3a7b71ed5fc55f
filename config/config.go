// Package config holds the run configuration shared by the command line
// entry point and the api package.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds parameters for the Run function.
type Config struct {
	// Model names the instrumentation strategy applied during translation.
	Model string `mapstructure:"model"`

	// OutDir is the directory the generated .pml files are written to. An
	// empty value keeps outputs next to their input files.
	OutDir string `mapstructure:"out_dir"`

	// OutName overrides the output file name. It only applies when a
	// single input file is translated.
	OutName string `mapstructure:"out_name"`
}

// ReadConfig loads a configuration file (YAML, TOML, or JSON, decided by
// the file extension) into a Config.
func ReadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config file: %w", err)
	}
	return c, nil
}
