package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			opts := Options{APIKey: "key"}
			if name == "custom" {
				opts.Endpoint = "http://localhost:8080/translate"
			}
			p, err := New(name, opts)
			require.NoError(t, err)
			assert.Equal(t, name, p.Name())
		})
	}

	t.Run("Offline Alias", func(t *testing.T) {
		p, err := New("offline", Options{})
		require.NoError(t, err)
		assert.Equal(t, "none", p.Name())
	})

	t.Run("Empty Name Defaults To None", func(t *testing.T) {
		p, err := New("", Options{})
		require.NoError(t, err)
		assert.Equal(t, "none", p.Name())
	})

	t.Run("Case Insensitive", func(t *testing.T) {
		p, err := New("Echo", Options{})
		require.NoError(t, err)
		assert.Equal(t, "echo", p.Name())
	})

	t.Run("Unknown Provider", func(t *testing.T) {
		_, err := New("babelfish", Options{})
		assert.Error(t, err)
	})
}
