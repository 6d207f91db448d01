package task

// Diff returns the entries of next whose value differs from prev.
// The result is empty when nothing changed.
func Diff(prev, next map[string]string) map[string]string {
	changes := make(map[string]string)
	for k, v := range next {
		if old, ok := prev[k]; !ok || old != v {
			changes[k] = v
		}
	}
	return changes
}
