// Package progress holds the pure page-progress math: clamping,
// percentage and completion. No state, no side effects.
package progress

// Clamp constrains a current page count to [0, total]. A zero or
// negative total always clamps to 0.
func Clamp(current, total int) int {
	if total < 0 {
		total = 0
	}
	if current < 0 {
		current = 0
	}
	if current > total {
		current = total
	}
	return current
}

// Percentage returns the completed share of the book as an integer in
// [0, 100], rounded half-up. Books without a positive page target are 0%.
func Percentage(current, total int) int {
	if total <= 0 {
		return 0
	}
	safe := Clamp(current, total)
	// Round half-up on the scaled integer value.
	return (200*safe + total) / (2 * total)
}

// IsComplete reports whether the book is finished: the target must be
// positive and the current page must have reached it.
func IsComplete(current, total int) bool {
	return total > 0 && current >= total
}
