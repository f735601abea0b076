package memo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPair_ReusesOutputForSameSlices(t *testing.T) {
	var p Pair[int, string, int]
	calls := 0
	sum := func(a []int, b []string) int {
		calls++
		return len(a) + len(b)
	}

	a := []int{1, 2, 3}
	b := []string{"x"}

	out, hit := p.Get(a, b, sum)
	require.False(t, hit)
	require.Equal(t, 4, out)

	out, hit = p.Get(a, b, sum)
	require.True(t, hit)
	require.Equal(t, 4, out)
	require.Equal(t, 1, calls)
}

func TestPair_RecomputesOnNewReference(t *testing.T) {
	var p Pair[int, int, int]
	calls := 0
	count := func(a []int, b []int) int {
		calls++
		return len(a) + len(b)
	}

	a := []int{1, 2}
	_, _ = p.Get(a, nil, count)

	// Same contents, different backing array.
	copied := append([]int(nil), a...)
	_, hit := p.Get(copied, nil, count)
	require.False(t, hit)

	// Reslicing the same array changes the length and so the identity.
	_, hit = p.Get(copied[:1], nil, count)
	require.False(t, hit)
	require.Equal(t, 3, calls)
}

func TestPair_InPlaceMutationGoesUnnoticed(t *testing.T) {
	var p Pair[int, int, int]
	first := func(a []int, _ []int) int { return a[0] }

	a := []int{7}
	out, _ := p.Get(a, nil, first)
	require.Equal(t, 7, out)

	a[0] = 9
	out, hit := p.Get(a, nil, first)
	require.True(t, hit)
	require.Equal(t, 7, out)
}

func TestPair_EmptyInputsShareIdentity(t *testing.T) {
	var p Pair[int, int, int]
	calls := 0
	f := func(_ []int, _ []int) int { calls++; return 0 }

	_, _ = p.Get(nil, nil, f)
	_, hit := p.Get([]int{}, nil, f)
	require.True(t, hit)

	p.Reset()
	_, hit = p.Get(nil, nil, f)
	require.False(t, hit)
	require.Equal(t, 2, calls)
}
