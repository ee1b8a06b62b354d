package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogging_New(t *testing.T) {
	t.Parallel()

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()

		_, err := New(&bytes.Buffer{}, "loud")

		assert.Error(t, err)
	})

	t.Run("level filtering", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		logger, err := New(&buf, "warn")
		require.NoError(t, err)

		logger.Info("hidden")
		logger.Warn("shown", Err(errors.New("boom")))

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
		assert.Contains(t, buf.String(), "boom")
	})
}
