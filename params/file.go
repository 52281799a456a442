package params

import (
	"fmt"
	"os"

	"github.com/buildkite/interpolate"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML params file into an Environment. The file is a
// flat mapping of parameter name to value; a key with no value (or an
// explicit ~) becomes a null parameter. `${NAME}` references inside
// values are interpolated from the process environment, so a params
// file can say `reportHTTP: ${REPORT_ENDPOINT}/report`.
func LoadFile(path string) (*Environment, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading params file: %w", err)
	}

	var raw map[string]*string
	if err := yaml.Unmarshal(contents, &raw); err != nil {
		return nil, fmt.Errorf("parsing params file %q: %w", path, err)
	}

	osEnv := interpolate.NewSliceEnv(os.Environ())

	env := New()
	for k, v := range raw {
		if v == nil {
			env.SetNull(k)
			continue
		}

		val, err := interpolate.Interpolate(osEnv, *v)
		if err != nil {
			return nil, fmt.Errorf("interpolating params file value for %q: %w", k, err)
		}
		env.Set(k, val)
	}

	return env, nil
}
