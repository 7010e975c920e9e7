package aggregate

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
)

// UnknownGroup is the key of records without a group key.
const UnknownGroup = "unknown"

// Group is one bucket of records sharing a key.
type Group[T any] struct {
	Key     string `json:"key"`
	Members []T    `json:"members"`
}

// GroupBy buckets items by key, keeping fetch order inside each bucket.
// An empty key maps to UnknownGroup. Groups come back in first-seen order.
func GroupBy[T any](items []T, key func(T) string) []Group[T] {
	idx := make(map[string]int)
	var groups []Group[T]
	for _, it := range items {
		k := key(it)
		if k == "" {
			k = UnknownGroup
		}
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group[T]{Key: k})
		}
		groups[i].Members = append(groups[i].Members, it)
	}
	return groups
}

// SortMembers stable-sorts the members of every group by rank, lowest first.
func SortMembers[T any](groups []Group[T], rank func(T) int) {
	for i := range groups {
		slices.SortStableFunc(groups[i].Members, func(a, b T) int {
			return cmp.Compare(rank(a), rank(b))
		})
	}
}

// SortGroups orders groups by CompareApartmentKeys on their keys.
func SortGroups[T any](groups []Group[T]) {
	slices.SortStableFunc(groups, func(a, b Group[T]) int {
		return CompareApartmentKeys(a.Key, b.Key)
	})
}

var apartmentKey = regexp.MustCompile(`([A-Za-z]*)(\d+)`)

// ParseApartmentKey splits keys such as "A12" into ("A", 12). Keys without a
// numeric part parse as ("", 0).
func ParseApartmentKey(s string) (string, int) {
	m := apartmentKey.FindStringSubmatch(s)
	if m == nil {
		return "", 0
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0
	}
	return m[1], n
}

// CompareApartmentKeys orders by alphabetic prefix, then numeric suffix.
func CompareApartmentKeys(a, b string) int {
	pa, na := ParseApartmentKey(a)
	pb, nb := ParseApartmentKey(b)
	if c := cmp.Compare(pa, pb); c != 0 {
		return c
	}
	return cmp.Compare(na, nb)
}

// SortByApartment stable-sorts items by the apartment key they report.
func SortByApartment[T any](items []T, key func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		return CompareApartmentKeys(key(a), key(b))
	})
}

// NumericKey parses s as an integer, 0 when it does not parse.
func NumericKey(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
