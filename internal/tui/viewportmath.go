package tui

import (
	"math"

	"reelfeed/internal/viewport"
)

// scrollStep is the fraction of a card one scroll keypress moves.
const scrollStep = 0.25

// observations converts a scroll offset, measured in cards from the top, into
// the visibility observation for the two items sharing the viewport. Each
// card is exactly one viewport tall, so at offset 2.3 item 2 shows 70% and
// item 3 shows 30%.
func observations(offset float64, count int) []viewport.Visibility {
	if count == 0 {
		return nil
	}

	top := int(math.Floor(offset))
	frac := offset - float64(top)

	items := []viewport.Visibility{}
	if top >= 0 && top < count {
		items = append(items, viewport.Visibility{Index: top, Fraction: 1 - frac})
	}
	if frac > 0 && top+1 < count {
		items = append(items, viewport.Visibility{Index: top + 1, Fraction: frac})
	}
	return items
}

func clampOffset(offset float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Min(math.Max(offset, 0), float64(count-1))
}

// snap moves the offset to the next card boundary in the scroll direction.
// Snapping up mid-card settles on the current card's top first.
func snap(offset float64, direction int) float64 {
	if direction > 0 {
		return math.Floor(offset) + 1
	}
	return math.Ceil(offset) - 1
}
