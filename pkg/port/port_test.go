package port_test

import (
	"testing"

	"github.com/aretw0/harbor/pkg/domain"
	"github.com/aretw0/harbor/pkg/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(t *testing.T, p *port.Port[int], n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, p.Insert(i))
	}
}

func TestNew_Capacity(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantCap       int
		wantColumns   int
	}{
		{"reference layout", 900, 300, 8, 2},
		{"exact cells", 420, 240, 4, 2},
		{"single place", 210, 120, 1, 1},
		{"too narrow", 209, 500, 0, 4},
		{"too short", 900, 119, 0, 0},
		{"negative", -10, 300, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := port.New[int](tt.width, tt.height)
			assert.Equal(t, tt.wantCap, p.Capacity())
			assert.Equal(t, tt.wantColumns, p.Columns())
			assert.Equal(t, 0, p.Len())
		})
	}
}

func TestInsert_Overflow(t *testing.T) {
	p := port.New[int](900, 300)
	fill(t, p, 8)
	assert.True(t, p.Full())

	err := p.Insert(99)
	assert.ErrorIs(t, err, domain.ErrPortOverflow)
	assert.Equal(t, 8, p.Len())

	last, ok := p.GetAt(7)
	require.True(t, ok)
	assert.Equal(t, 7, last, "overflowing insert must not replace anything")
}

func TestInsert_ZeroCapacity(t *testing.T) {
	p := port.New[string](100, 100)
	assert.ErrorIs(t, p.Insert("x"), domain.ErrPortOverflow)
	assert.Equal(t, 0, p.Len())
}

func TestRemoveAt_Shifts(t *testing.T) {
	for i := 0; i < 5; i++ {
		p := port.New[int](900, 300)
		fill(t, p, 5)

		got, err := p.RemoveAt(i)
		require.NoError(t, err)
		assert.Equal(t, i, got)
		assert.Equal(t, 4, p.Len())

		var want []int
		for v := 0; v < 5; v++ {
			if v != i {
				want = append(want, v)
			}
		}
		var rest []int
		for _, v := range p.All() {
			rest = append(rest, v)
		}
		assert.Equal(t, want, rest)
	}
}

func TestRemoveAt_OutOfRange(t *testing.T) {
	p := port.New[int](900, 300)
	fill(t, p, 3)

	for _, idx := range []int{-2, -1, 3, 4, 100} {
		_, err := p.RemoveAt(idx)
		assert.ErrorIs(t, err, domain.ErrPlaceNotFound, "index %d", idx)
		assert.Equal(t, 3, p.Len(), "index %d must not mutate", idx)
	}

	empty := port.New[int](900, 300)
	_, err := empty.RemoveAt(0)
	assert.ErrorIs(t, err, domain.ErrPlaceNotFound)
}

func TestGetAt_NotPresent(t *testing.T) {
	p := port.New[int](900, 300)
	for n := 0; n <= p.Capacity(); n++ {
		for i := 0; i < n; i++ {
			v, ok := p.GetAt(i)
			assert.True(t, ok, "len %d index %d", n, i)
			assert.Equal(t, i, v)
		}
		_, ok := p.GetAt(n)
		assert.False(t, ok, "len %d index %d", n, n)
		_, ok = p.GetAt(-1)
		assert.False(t, ok)

		if n < p.Capacity() {
			require.NoError(t, p.Insert(n))
		}
	}
}

func TestAll_StopsEarly(t *testing.T) {
	p := port.New[int](900, 300)
	fill(t, p, 6)

	seen := 0
	for i := range p.All() {
		if i == 2 {
			break
		}
		seen++
	}
	assert.Equal(t, 2, seen)
}
