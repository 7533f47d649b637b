// Package sliceutil has generic helpers for slices.
package sliceutil

// Map returns f applied to every element of v, in order. A nil v gives an empty slice.
func Map[From any, To any](v []From, f func(From) To) []To {
	out := make([]To, len(v))
	for idx, e := range v {
		out[idx] = f(e)
	}
	return out
}
