package band

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidBand(t *testing.T) {
	g, err := New(7, 7, -3, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, g.Width())
}

func TestNewBandExcludesEnd(t *testing.T) {
	_, err := New(10, 4, -1, 1)
	assert.ErrorIs(t, err, ErrBandExcludesEnd)
}

func TestNewEmptyBandLUSwapped(t *testing.T) {
	_, err := New(5, 5, 3, -3)
	assert.ErrorIs(t, err, ErrEmptyBand)
}

func TestRowClampsToMatrixBounds(t *testing.T) {
	g, err := New(5, 5, -2, 2)
	require.NoError(t, err)

	lo, hi := g.Row(0)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 2, hi)

	lo, hi = g.Row(5)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 5, hi)
}

func TestLocalTranslation(t *testing.T) {
	g, err := New(10, 10, -2, 2)
	require.NoError(t, err)

	for i := 0; i <= 10; i++ {
		lo, hi := g.Row(i)
		for j := lo; j <= hi; j++ {
			off := g.Local(i, j)
			assert.GreaterOrEqual(t, off, 0)
			assert.Less(t, off, g.Width())
		}
	}
}

func TestWidenRelaxesBand(t *testing.T) {
	g, err := New(10, 10, -1, 1)
	require.NoError(t, err)

	wider, err := g.Widen(2, 2)
	require.NoError(t, err)
	assert.Equal(t, -3, wider.L())
	assert.Equal(t, 3, wider.U())
	assert.Greater(t, wider.Width(), g.Width())
}

func TestInBand(t *testing.T) {
	g, err := New(5, 5, -1, 1)
	require.NoError(t, err)

	assert.True(t, g.InBand(2, 2))
	assert.True(t, g.InBand(2, 3))
	assert.False(t, g.InBand(2, 5))
}
