package imageproc

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholder_Deterministic(t *testing.T) {
	img := solidImage(32, 24, color.NRGBA{R: 120, G: 200, B: 40, A: 255})

	first, err := Placeholder(img)
	require.NoError(t, err)
	second, err := Placeholder(img)
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestPlaceholder_SamePixelsDifferentBuffers(t *testing.T) {
	a := solidImage(16, 16, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	b := solidImage(16, 16, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	hashA, err := Placeholder(a)
	require.NoError(t, err)
	hashB, err := Placeholder(b)
	require.NoError(t, err)

	assert.Equal(t, hashA, hashB)
}

func TestPlaceholder_DistinguishesImages(t *testing.T) {
	red := solidImage(16, 16, color.NRGBA{R: 255, A: 255})
	blue := solidImage(16, 16, color.NRGBA{B: 255, A: 255})

	hashRed, err := Placeholder(red)
	require.NoError(t, err)
	hashBlue, err := Placeholder(blue)
	require.NoError(t, err)

	assert.NotEqual(t, hashRed, hashBlue)
}

func TestPlaceholder_FixedLength(t *testing.T) {
	// 4x4 components encode to a fixed-size string:
	// 1 size flag + 1 max AC + 4 DC + 15 AC pairs.
	img := solidImage(40, 30, color.NRGBA{R: 77, G: 88, B: 99, A: 255})

	hash, err := Placeholder(img)
	require.NoError(t, err)
	assert.Len(t, hash, 36)
}
