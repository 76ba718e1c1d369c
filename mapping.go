package axle

// Identity returns v unchanged. Generated code passes Identity[T] where a
// conversion function is required but none is needed.
func Identity[T any](v T) T { return v }

// MapSlice converts each element of s with f, preserving order.
// A nil slice maps to nil.
func MapSlice[D, W any](s []D, f func(D) W) []W {
	if s == nil {
		return nil
	}
	out := make([]W, len(s))
	for i, v := range s {
		out[i] = f(v)
	}
	return out
}

// MapSet converts each element of a set with f. Elements that convert to
// the same value collapse into one.
func MapSet[D, W comparable](s map[D]struct{}, f func(D) W) map[W]struct{} {
	if s == nil {
		return nil
	}
	out := make(map[W]struct{}, len(s))
	for v := range s {
		out[f(v)] = struct{}{}
	}
	return out
}

// MapValues converts each value of m with f. Keys are kept as they are.
func MapValues[K comparable, D, W any](m map[K]D, f func(D) W) map[K]W {
	if m == nil {
		return nil
	}
	out := make(map[K]W, len(m))
	for k, v := range m {
		out[k] = f(v)
	}
	return out
}

// MapEntries converts both the keys and the values of m. Keys that
// convert to the same value collapse into one entry.
func MapEntries[DK, WK comparable, DV, WV any](m map[DK]DV, kf func(DK) WK, vf func(DV) WV) map[WK]WV {
	if m == nil {
		return nil
	}
	out := make(map[WK]WV, len(m))
	for k, v := range m {
		out[kf(k)] = vf(v)
	}
	return out
}
