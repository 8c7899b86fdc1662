package spread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionsForSupportedCounts(t *testing.T) {
	t.Parallel()

	expected := map[int][]string{
		3: {"Past", "Present", "Future"},
		5: {"Current Context", "Main Obstacle", "Support/Resource", "Card's Advice", "Potential Outcome"},
		7: {
			"Querent/Question", "Immediate Past", "Present Influences",
			"Obstacles and Challenges", "External Environment/Influences",
			"Key Advice/Action", "Probable Future",
		},
	}

	for count, labels := range expected {
		positions, err := PositionsFor(count)
		require.NoError(t, err)
		require.Len(t, positions, count)

		for i, pos := range positions {
			assert.Equal(t, i, pos.Index)
			assert.Equal(t, labels[i], pos.Label)
			assert.NotEmpty(t, pos.Meaning)
		}
	}
}

func TestPositionsForUnsupportedCounts(t *testing.T) {
	t.Parallel()

	for _, count := range []int{0, 1, 2, 4, 6, 8, 9, -3, 78} {
		_, err := PositionsFor(count)
		assert.ErrorIs(t, err, ErrUnsupportedCardCount, "count %d", count)
	}
}

func TestSpreadNames(t *testing.T) {
	t.Parallel()

	names := map[int]string{3: "Triad", 5: "Path", 7: "Horseshoe"}
	for count, name := range names {
		s, err := For(count)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name)
	}
}

func TestPositionsForReturnsCopy(t *testing.T) {
	t.Parallel()

	first, err := PositionsFor(3)
	require.NoError(t, err)
	first[0].Label = "mutated"

	second, err := PositionsFor(3)
	require.NoError(t, err)
	assert.Equal(t, "Past", second[0].Label)
}

func TestIsSupported(t *testing.T) {
	t.Parallel()

	for _, count := range SupportedCounts() {
		assert.True(t, IsSupported(count))
	}
	assert.False(t, IsSupported(4))
	assert.False(t, IsSupported(0))
}
