package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const currentCultureKey = "current_culture"

// viperPersister keeps the current culture in the CLI config file.
type viperPersister struct {
	v    *viper.Viper
	path string
}

func newViperPersister(v *viper.Viper, path string) *viperPersister {
	return &viperPersister{v: v, path: path}
}

func (p *viperPersister) LoadCulture() (string, error) {
	return p.v.GetString(currentCultureKey), nil
}

// SaveCulture rewrites the config file with only current_culture changed.
// Flags and environment values bound to p.v stay out of the file.
func (p *viperPersister) SaveCulture(culture string) error {
	file := viper.New()
	file.SetConfigFile(p.path)
	if filepath.Ext(p.path) == "" {
		file.SetConfigType("yaml")
	}
	if err := file.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config %s: %w", p.path, err)
		}
	}

	file.Set(currentCultureKey, culture)
	if err := file.WriteConfigAs(p.path); err != nil {
		return err
	}
	p.v.Set(currentCultureKey, culture)
	return nil
}
