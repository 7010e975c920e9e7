package aggregate

// Index maps every item by key. When keys repeat, the last item wins.
func Index[K comparable, V any](items []V, key func(V) K) map[K]V {
	m := make(map[K]V, len(items))
	for _, it := range items {
		m[key(it)] = it
	}
	return m
}

// IndexIf is Index restricted to items for which key reports ok.
func IndexIf[K comparable, V any](items []V, key func(V) (K, bool)) map[K]V {
	m := make(map[K]V, len(items))
	for _, it := range items {
		if k, ok := key(it); ok {
			m[k] = it
		}
	}
	return m
}

// Join enriches every primary record with its match in lookup. found is false
// when nothing matched, and enrich is expected to fall back to a placeholder.
// Output order equals primary order.
func Join[P any, K comparable, L any, E any](primary []P, lookup map[K]L, key func(P) K, enrich func(p P, match L, found bool) E) []E {
	out := make([]E, 0, len(primary))
	for _, p := range primary {
		l, ok := lookup[key(p)]
		out = append(out, enrich(p, l, ok))
	}
	return out
}
