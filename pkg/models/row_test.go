package models_test

import (
	"testing"

	"github.com/m-mizutani/jirasearch/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowSeal(t *testing.T) {
	t.Run("Raw is JSON snapshot of other fields", func(tt *testing.T) {
		row := models.Row{"key": "PROJ-1", "summary": "blue"}
		row.SetTime(1700000000)
		require.NoError(tt, row.Seal())
		assert.Equal(tt, `{"_time":1700000000,"key":"PROJ-1","summary":"blue"}`, row[models.FieldRaw])
	})

	t.Run("Seal again does not nest raw", func(tt *testing.T) {
		row := models.Row{"key": "PROJ-1"}
		require.NoError(tt, row.Seal())
		require.NoError(tt, row.Seal())
		assert.Equal(tt, `{"key":"PROJ-1"}`, row[models.FieldRaw])
	})
}

func TestRowAccessor(t *testing.T) {
	row := models.Row{
		"Cost":   []string{"10", "20"},
		"status": "Open",
	}
	row.SetRouting(models.Routing{Host: "jira.example.com", Index: "jira", Source: "jql", Sourcetype: "jira"})

	assert.Equal(t, "10,20", row.String("Cost"))
	assert.Equal(t, "Open", row.String("status"))
	assert.Equal(t, "", row.String("nothing"))
	assert.Equal(t, "jira.example.com", row[models.FieldHost])

	_, ok := row.Time()
	assert.False(t, ok)
	row.SetTime(5)
	ts, ok := row.Time()
	assert.True(t, ok)
	assert.Equal(t, int64(5), ts)

	assert.Equal(t, []string{"Cost", "_time", "host", "index", "source", "sourcetype", "status"}, row.Keys())
}

func TestLookupTable(t *testing.T) {
	table := models.NewLookupTable([]models.RemoteConstant{
		{ID: "1", Name: "Open"},
		{ID: "6", Name: "Closed"},
	})

	label, ok := table.Label("6")
	assert.True(t, ok)
	assert.Equal(t, "Closed", label)

	_, ok = table.Label(models.NoResolution)
	assert.False(t, ok)
}
