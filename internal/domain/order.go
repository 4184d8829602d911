package domain

// identified is implemented by every entity kept in an ordered collection.
type identified interface {
	comparable
	ID() int64
}

func indexOf[T identified](items []T, id int64) int {
	for i, it := range items {
		if it.ID() == id {
			return i
		}
	}
	return -1
}

// checkHook validates a "place after" hook before anything is mutated. The
// zero hook is the sentinel for the beginning of the collection.
func checkHook[T identified](items []T, moved, after int64, what string) error {
	if after == 0 {
		return nil
	}
	if after == moved {
		return invalid("%s %d cannot be placed after itself", what, moved)
	}
	if indexOf(items, after) < 0 {
		return notFound(what, after)
	}
	return nil
}

// placeAfter removes item and reinserts it one past the hook, or at the
// front for the sentinel. The hook must already have passed checkHook.
func placeAfter[T identified](items []T, item T, after int64) []T {
	out := make([]T, 0, len(items)+1)
	for _, it := range items {
		if it != item {
			out = append(out, it)
		}
	}
	at := 0
	if after != 0 {
		at = indexOf(out, after) + 1
	}
	out = append(out, item)
	copy(out[at+1:], out[at:len(out)-1])
	out[at] = item
	return out
}

func without[T identified](items []T, item T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it != item {
			out = append(out, it)
		}
	}
	return out
}

func ids[T identified](items []T) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID()
	}
	return out
}
