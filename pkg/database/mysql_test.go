package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoTargetsOwnedBySeededUser(t *testing.T) {
	targets := demoTargets(7)
	require.NotEmpty(t, targets)

	for _, target := range targets {
		assert.Equal(t, uint(7), target.UserID, "seed targets must belong to the seeded account, not a guessed ID")
		assert.NotEmpty(t, target.URL)
		assert.Equal(t, 1, target.Status)
	}
}
