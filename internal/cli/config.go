package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// ApplyConfigFile reads a YAML mapping of flag names to values and sets every
// flag the command line left unset. Keys must name registered flags.
func ApplyConfigFile(fs *pflag.FlagSet, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}
	return applyConfig(fs, raw, path)
}

func applyConfig(fs *pflag.FlagSet, raw []byte, name string) error {
	values := map[string]any{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrapf(err, "parsing config %s", name)
	}

	for key, v := range values {
		f := fs.Lookup(key)
		if f == nil || key == "config" {
			return errors.Errorf("config %s: unknown option %q", name, key)
		}
		if f.Changed {
			continue
		}
		if err := fs.Set(key, fmt.Sprint(v)); err != nil {
			return errors.Wrapf(err, "config %s: option %q", name, key)
		}
	}
	return nil
}
