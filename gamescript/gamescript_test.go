package gamescript

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunScripts(t *testing.T) {
	scripts, err := filepath.Glob("test_scripts/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, scripts)

	for _, fileName := range scripts {
		fileName := fileName
		t.Run(filepath.Base(fileName), func(t *testing.T) {
			script, err := ReadScript(fileName)
			require.NoError(t, err)
			require.NoError(t, NewRunner(script).Run())
		})
	}
}

func TestReadScript(t *testing.T) {
	script, err := ReadScript("test_scripts/showdown-trips.yaml")
	require.NoError(t, err)
	assert.Equal(t, "showdown-trips", script.Name)
	assert.Equal(t, int64(10), script.Game.SmallBlind)
	assert.Equal(t, int64(20), script.Game.BigBlind)
	assert.Len(t, script.Seats, 3)
	assert.Len(t, script.Hand.Rounds, 4)
	assert.Equal(t, "SHOWDOWN", script.Hand.Verify.WonBy)
}

func TestReadScriptMissing(t *testing.T) {
	_, err := ReadScript("test_scripts/no-such-script.yaml")
	assert.Error(t, err)
}

func TestStackedDeckOrder(t *testing.T) {
	script, err := ReadScript("test_scripts/showdown-trips.yaml")
	require.NoError(t, err)

	// button on seat 1: dealing order is 2, 0, 1
	deck := script.Deck(1)
	cards, err := deck.Draw(6)
	require.NoError(t, err)
	assert.Equal(t, "2c", cards[0].String()) // seat 2, first card
	assert.Equal(t, "Ah", cards[1].String()) // seat 0
	assert.Equal(t, "Kh", cards[2].String()) // seat 1
	assert.Equal(t, "7d", cards[3].String()) // seat 2, second card
	assert.Equal(t, "Ad", cards[4].String())
	assert.Equal(t, "Kd", cards[5].String())
}
