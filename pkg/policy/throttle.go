package policy

// PeriodicThrottle trips every time the counter completes a full traversal
// of the logical items.
type PeriodicThrottle struct{}

func (PeriodicThrottle) ShouldThrottle(counter, count int) bool {
	if count <= 0 || counter <= 0 {
		return false
	}
	return counter%count == 0
}
