package process

import (
	"fmt"
	"maps"
	"os"
	"regexp"
	"strings"

	"github.com/slok/renderci/internal/model"
)

var envKeyRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RendererEnv returns DefaultEnv with the user specs layered on top, later specs win.
// A spec is KEY=VALUE, or a bare KEY to pass the variable from the current environment.
func RendererEnv(specs []string) (map[string]string, error) {
	env := maps.Clone(DefaultEnv)
	for _, spec := range specs {
		key, value, err := parseEnvSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid renderer env %q: %w", spec, err)
		}
		env[key] = value
	}

	return env, nil
}

func parseEnvSpec(spec string) (key, value string, err error) {
	key, value, hasValue := strings.Cut(spec, "=")
	if !envKeyRegexp.MatchString(key) {
		return "", "", fmt.Errorf("%q is not a valid variable name: %w", key, model.ErrNotValid)
	}
	if hasValue {
		return key, value, nil
	}

	value, ok := os.LookupEnv(key)
	if !ok {
		return "", "", fmt.Errorf("%q is not set in the environment: %w", key, model.ErrNotValid)
	}

	return key, value, nil
}
