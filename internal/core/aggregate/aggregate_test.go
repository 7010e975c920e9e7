package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	name      string
	apartment string
	rank      int
}

func keysOf[T any](groups []Group[T]) []string {
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	return keys
}

func TestGroupAndSortApartments(t *testing.T) {
	items := []member{{name: "a", apartment: "A2"}, {name: "b", apartment: "A1"}, {name: "c", apartment: "B1"}}

	groups := GroupBy(items, func(m member) string { return m.apartment })
	SortGroups(groups)

	assert.Equal(t, []string{"A1", "A2", "B1"}, keysOf(groups))
}

func TestGroupBy_UnknownSentinel(t *testing.T) {
	items := []member{{name: "a", apartment: "A1"}, {name: "b"}, {name: "c"}}

	groups := GroupBy(items, func(m member) string { return m.apartment })
	SortGroups(groups)

	require.Len(t, groups, 2)
	assert.Equal(t, UnknownGroup, groups[0].Key, "unparsable keys sort as (\"\", 0)")
	assert.Len(t, groups[0].Members, 2)
}

func TestCompareApartmentKeys(t *testing.T) {
	tcases := []struct {
		a, b string
		want int
	}{
		{"A1", "A2", -1},
		{"A10", "A9", 1},
		{"B1", "A99", 1},
		{"12", "A1", -1},
		{"A3", "A3", 0},
		{"unknown", "1", -1},
		{"unknown", "0", 0},
	}

	for _, tc := range tcases {
		t.Run(fmt.Sprintf("%s_vs_%s", tc.a, tc.b), func(t *testing.T) {
			assert.Equal(t, tc.want, CompareApartmentKeys(tc.a, tc.b))
		})
	}
}

func TestSortMembers_StableByRank(t *testing.T) {
	groups := []Group[member]{{Key: "A1", Members: []member{
		{name: "kid", rank: 3},
		{name: "owner", rank: 1},
		{name: "cousin-1", rank: 99},
		{name: "kid-2", rank: 3},
		{name: "cousin-2", rank: 99},
	}}}

	SortMembers(groups, func(m member) int { return m.rank })

	names := make([]string, 0, 5)
	for _, m := range groups[0].Members {
		names = append(names, m.name)
	}
	assert.Equal(t, []string{"owner", "kid", "kid-2", "cousin-1", "cousin-2"}, names)
}

func TestIndexAndJoin(t *testing.T) {
	type user struct {
		residentID int
		username   string
	}
	users := []user{{1, "first"}, {2, "bob"}, {1, "second"}}
	lookup := Index(users, func(u user) int { return u.residentID })

	assert.Equal(t, "second", lookup[1].username, "last write wins")

	joined := Join([]int{2, 1, 7}, lookup, func(id int) int { return id }, func(id int, u user, ok bool) string {
		if !ok {
			return "unknown"
		}
		return u.username
	})
	assert.Equal(t, []string{"bob", "second", "unknown"}, joined)
}

func TestIndexIf_SkipsMissingKeys(t *testing.T) {
	ptr := func(i int) *int { return &i }
	items := []*int{ptr(1), nil, ptr(3)}

	m := IndexIf(items, func(p *int) (int, bool) {
		if p == nil {
			return 0, false
		}
		return *p, true
	})

	assert.Len(t, m, 2)
}

func TestPaginate(t *testing.T) {
	groups := []int{1, 2, 3, 4, 5, 6, 7}

	p1 := Paginate(groups, 3, 1)
	assert.Equal(t, []int{1, 2, 3}, p1.Items)
	assert.False(t, p1.HasPrev)
	assert.True(t, p1.HasNext)
	assert.Equal(t, 3, p1.TotalPages)

	p3 := Paginate(groups, 3, 3)
	assert.Equal(t, []int{7}, p3.Items)
	assert.False(t, p3.HasNext)

	p4 := Paginate(groups, 3, 4)
	assert.Equal(t, 3, p4.Number, "past the end clamps to the last page")
	assert.Equal(t, []int{7}, p4.Items)

	p0 := Paginate(groups, 3, 0)
	assert.Equal(t, 1, p0.Number)
}

func TestPaginator_NoWrap(t *testing.T) {
	p := NewPaginator(7, 3)

	p.Go(0)
	assert.Equal(t, 1, p.Current())
	assert.False(t, p.HasPrev())

	p.Go(4)
	assert.Equal(t, 3, p.Current(), "requesting page 4 stays on the last page")
	assert.False(t, p.HasNext())

	start, end := p.Bounds()
	assert.Equal(t, 6, start)
	assert.Equal(t, 7, end)
}

func TestPaginate_Empty(t *testing.T) {
	page := Paginate([]string{}, 5, 2)
	assert.Equal(t, 1, page.Number)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrev)
}

func TestPaginate_Idempotent(t *testing.T) {
	items := []int{5, 4, 3, 2, 1}
	assert.Equal(t, Paginate(items, 2, 2), Paginate(items, 2, 2))
}

func TestGather_AllSucceed(t *testing.T) {
	var primary []int
	var lookup map[int]string

	err := Gather(context.Background(),
		Into(&primary, func(context.Context) ([]int, error) { return []int{1, 2}, nil }),
		Into(&lookup, func(context.Context) (map[int]string, error) { return map[int]string{1: "x"}, nil }),
	)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, primary)
	assert.Equal(t, "x", lookup[1])
}

func TestGather_FailureCancelsOthers(t *testing.T) {
	boom := errors.New("lookup failed")
	var cancelled atomic.Bool

	err := Gather(context.Background(),
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				cancelled.Store(true)
				return ctx.Err()
			case <-time.After(2 * time.Second):
				return nil
			}
		},
		func(context.Context) error { return boom },
	)

	assert.ErrorIs(t, err, boom)
	assert.True(t, cancelled.Load())
}

func TestNumericKey(t *testing.T) {
	assert.Equal(t, 12, NumericKey("12"))
	assert.Equal(t, 0, NumericKey("L-3"))
}
