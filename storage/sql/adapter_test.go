package sql

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/flip/storage/storagetest"
)

func TestParseSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("valid payload", func(t *testing.T) {
		t.Parallel()

		var (
			at       = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
			snapshot = storagetest.NewSnapshot("Standard", at)
		)

		body := []byte(`{
			"bundles": [{
				"want": "Chaos",
				"have": "Alteration",
				"league": "Standard",
				"offers": [{
					"contact": "trader",
					"want": "Chaos",
					"have": "Alteration",
					"league": "Standard",
					"conversion_rate": 0.0714,
					"stock": 120
				}]
			}],
			"failures": [{
				"want": "Exalted",
				"have": "Chaos",
				"error": "request timed out"
			}]
		}`)

		parsed, err := parseSnapshot(snapshot.ID, "Standard", timeToTimestampz(at), body)
		require.NoError(t, err)

		assert.Equal(t, snapshot, parsed)
	})

	t.Run("invalid payload", func(t *testing.T) {
		t.Parallel()

		_, err := parseSnapshot("id", "Standard", timeToTimestampz(time.Now()), []byte("{"))
		assert.Error(t, err)
	})
}

func TestTimestampz(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

		converted := timestampzToTime(timeToTimestampz(at))

		assert.True(t, at.Equal(converted))
		assert.Equal(t, time.UTC, converted.Location())
	})

	t.Run("invalid timestamp", func(t *testing.T) {
		t.Parallel()

		assert.True(t, timestampzToTime(pgtype.Timestamptz{}).IsZero())
	})
}
