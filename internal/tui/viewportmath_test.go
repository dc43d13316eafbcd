package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"reelfeed/internal/viewport"
)

func TestObservationsWholeOffset(t *testing.T) {
	t.Parallel()

	obs := observations(2, 5)

	assert.Equal(t, []viewport.Visibility{{Index: 2, Fraction: 1}}, obs)
}

func TestObservationsSplitsBetweenTwoCards(t *testing.T) {
	t.Parallel()

	obs := observations(2.3, 5)

	assert.Len(t, obs, 2)
	assert.Equal(t, 2, obs[0].Index)
	assert.InDelta(t, 0.7, obs[0].Fraction, 1e-9)
	assert.Equal(t, 3, obs[1].Index)
	assert.InDelta(t, 0.3, obs[1].Fraction, 1e-9)
}

func TestObservationsEmptyFeed(t *testing.T) {
	t.Parallel()

	assert.Nil(t, observations(0, 0))
}

func TestObservationsAtLastCard(t *testing.T) {
	t.Parallel()

	obs := observations(4, 5)

	assert.Equal(t, []viewport.Visibility{{Index: 4, Fraction: 1}}, obs)
}

func TestClampOffset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, clampOffset(-1, 5))
	assert.Equal(t, 4.0, clampOffset(9, 5))
	assert.Equal(t, 2.5, clampOffset(2.5, 5))
	assert.Equal(t, 0.0, clampOffset(3, 0))
}

func TestSnap(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3.0, snap(2.3, 1))
	assert.Equal(t, 3.0, snap(2.0, 1))

	// Snapping up mid-card first settles on the current card's boundary;
	// from a boundary it moves to the previous card.
	assert.Equal(t, 2.0, snap(2.3, -1))
	assert.Equal(t, 1.0, snap(2.0, -1))
}
