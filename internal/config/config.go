// Package config loads the TOML configuration of the asmparse tool.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"reflect"

	"asmparse/internal/grammar"
	"asmparse/internal/logging"
	"asmparse/internal/parsecache"

	"github.com/naoina/toml"
	"github.com/pkg/errors"
)

// Config is the whole tool configuration.
type Config struct {
	Log     logging.Config
	Cache   parsecache.Config
	Grammar grammar.Definition
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Log:     logging.DefaultConfig,
		Cache:   parsecache.DefaultConfig,
		Grammar: grammar.DefaultDefinition(),
	}
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Load decodes file over cfg. Keys absent from the file keep their value in
// cfg; a [Grammar] table replaces the whole grammar.
func Load(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return errors.Wrap(err, "opening config")
	}
	defer f.Close()

	err = Decode(bufio.NewReader(f), cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		return errors.New(file + ", " + err.Error())
	}
	return errors.Wrap(err, file)
}

// Decode reads TOML from r over cfg.
func Decode(r io.Reader, cfg *Config) error {
	next := *cfg
	next.Grammar = grammar.Definition{}
	if err := tomlSettings.NewDecoder(r).Decode(&next); err != nil {
		return err
	}
	if reflect.DeepEqual(next.Grammar, grammar.Definition{}) {
		next.Grammar = cfg.Grammar
	}
	*cfg = next
	return nil
}

// Dump writes cfg as TOML.
func Dump(w io.Writer, cfg Config) error {
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	_, err = w.Write(out)
	return err
}
