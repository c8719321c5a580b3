package services

import (
	"archivist/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateDocument_FromZero(t *testing.T) {
	doc := map[string]any{
		"prompts": []any{
			map[string]any{"id": float64(1), "rating": float64(4)},
			map[string]any{"id": float64(2)},
			"not a record",
		},
	}

	applied, err := migrateDocument(doc, 0, models.DefaultSettings(5))
	require.NoError(t, err)
	assert.Len(t, applied, len(migrations))

	prompts := doc["prompts"].([]any)
	assert.Equal(t, float64(4), prompts[0].(map[string]any)["rating"])
	assert.Equal(t, float64(0), prompts[1].(map[string]any)["rating"])
	assert.Equal(t, false, prompts[1].(map[string]any)["favorite"])

	settings := doc["settings"].(map[string]any)
	assert.Equal(t, float64(5), settings["maxBackups"])
	assert.Equal(t, CurrentSchemaVersion, doc[SchemaVersionKey])
}

func TestMigrateDocument_SkipsAppliedSteps(t *testing.T) {
	doc := map[string]any{
		"prompts":  []any{map[string]any{"id": float64(1)}},
		"settings": map[string]any{"theme": "light"},
	}

	applied, err := migrateDocument(doc, 1, models.DefaultSettings(0))
	require.NoError(t, err)
	assert.Equal(t, []string{"back-fill missing settings"}, applied)

	record := doc["prompts"].([]any)[0].(map[string]any)
	assert.NotContains(t, record, "rating")
	assert.Equal(t, "light", doc["settings"].(map[string]any)["theme"])
}

func TestMigrateDocument_CurrentIsNoop(t *testing.T) {
	doc := map[string]any{"prompts": []any{}}
	applied, err := migrateDocument(doc, CurrentSchemaVersion, models.DefaultSettings(0))
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.NotContains(t, doc, "settings")
}
