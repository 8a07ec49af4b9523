package process_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/renderci/internal/model"
	"github.com/slok/renderci/internal/process"
)

func TestRendererEnv(t *testing.T) {
	t.Setenv("RENDERCI_FROM_HOST", "host-value")

	tests := map[string]struct {
		specs  []string
		expEnv map[string]string
		expErr error
	}{
		"Without specs the forced defaults should be used.": {
			expEnv: map[string]string{"RUST_BACKTRACE": "1", "RUST_LOG": "info"},
		},
		"A KEY=VALUE spec should override a default.": {
			specs:  []string{"RUST_LOG=trace"},
			expEnv: map[string]string{"RUST_BACKTRACE": "1", "RUST_LOG": "trace"},
		},
		"A bare KEY should be passed from the current environment.": {
			specs:  []string{"RENDERCI_FROM_HOST"},
			expEnv: map[string]string{"RUST_BACKTRACE": "1", "RUST_LOG": "info", "RENDERCI_FROM_HOST": "host-value"},
		},
		"Later specs should win over earlier ones.": {
			specs:  []string{"RAYON_NUM_THREADS=2", "RAYON_NUM_THREADS=4"},
			expEnv: map[string]string{"RUST_BACKTRACE": "1", "RUST_LOG": "info", "RAYON_NUM_THREADS": "4"},
		},
		"An empty value should be kept.": {
			specs:  []string{"RUST_BACKTRACE="},
			expEnv: map[string]string{"RUST_BACKTRACE": "", "RUST_LOG": "info"},
		},
		"A bare KEY missing from the environment should fail.": {
			specs:  []string{"RENDERCI_DOES_NOT_EXIST"},
			expErr: model.ErrNotValid,
		},
		"An invalid variable name should fail.": {
			specs:  []string{"1INVALID=value"},
			expErr: model.ErrNotValid,
		},
		"An empty spec should fail.": {
			specs:  []string{""},
			expErr: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := process.RendererEnv(test.specs)

			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expEnv, got)
		})
	}

	// The defaults are never mutated.
	assert.Equal(t, map[string]string{"RUST_BACKTRACE": "1", "RUST_LOG": "info"}, process.DefaultEnv)
}
