package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectScenarios(t *testing.T) {
	t.Run("Default excludes optional", func(t *testing.T) {
		selected, err := selectScenarios(nil)
		require.NoError(t, err)
		require.NotEmpty(t, selected)
		for _, s := range selected {
			assert.False(t, s.Optional, s.Name)
		}
		assert.Equal(t, "GetMovieDetails", selected[0].Name)
	})

	t.Run("By name", func(t *testing.T) {
		selected, err := selectScenarios([]string{"PostMovieRating", "CrossReferenceIMDb"})
		require.NoError(t, err)
		require.Len(t, selected, 2)
		assert.Equal(t, "PostMovieRating", selected[0].Name)
		assert.Equal(t, "CrossReferenceIMDb", selected[1].Name)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := selectScenarios([]string{"GetMovieDetails", "Nope"})
		assert.EqualError(t, err, `unknown scenario "Nope"`)
	})
}
