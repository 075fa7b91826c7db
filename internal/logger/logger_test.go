package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_New(t *testing.T) {
	t.Run("success - level from settings is applied", func(t *testing.T) {
		// arrange
		buf := new(bytes.Buffer)
		l := NewWithWriter(buf, "production", "warn")

		// act
		l.Info().Msg("hidden")
		l.Warn().Msg("visible")

		// assert
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "visible")
		assert.Contains(t, buf.String(), "env=production")
	})
	t.Run("success - invalid level falls back to debug outside production", func(t *testing.T) {
		// arrange
		buf := new(bytes.Buffer)
		l := NewWithWriter(buf, "development", "loud")

		// act
		l.Debug().Msg("debugging")

		// assert
		assert.Contains(t, buf.String(), "debugging")
	})
}
