package editor

// Copy-on-write helpers. None of them modify their input slice.

func insertAt[T any](items []T, i int, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, v)
	return append(out, items[i:]...)
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func replaceAt[T any](items []T, i int, v T) []T {
	out := append([]T(nil), items...)
	out[i] = v
	return out
}

// moveItem removes the element at from and reinserts it so that it ends up at index to.
func moveItem[T any](items []T, from, to int) []T {
	v := items[from]
	return insertAt(removeAt(items, from), to, v)
}

func inRange(i, n int) bool {
	return i >= 0 && i < n
}
