package classifier

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wormdetector/internal/server/models"
)

func encodeUniform(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestClassify_ReturnsValidResult(t *testing.T) {
	cl := NewLogistic()

	data := encodeUniform(t, color.RGBA{R: 150, G: 80, B: 60, A: 255})
	res, err := cl.Classify(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)

	assert.Contains(t, []string{models.ClassEarthworm, models.ClassFlatworm}, res.Class)
	assert.Greater(t, res.Confidence, 0.5)
	assert.LessOrEqual(t, res.Confidence, 1.0)
}

func TestClassify_Deterministic(t *testing.T) {
	cl := NewLogistic()
	data := encodeUniform(t, color.RGBA{R: 40, G: 90, B: 50, A: 255})

	first, err := cl.Classify(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		res, err := cl.Classify(context.Background(), bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, first.Class, res.Class)
		assert.Equal(t, first.Confidence, res.Confidence)
	}
}

func TestClassify_RejectsGarbage(t *testing.T) {
	cl := NewLogistic()
	_, err := cl.Classify(context.Background(), strings.NewReader("not an image"))
	assert.Error(t, err)
}

func TestClassify_CancelledContext(t *testing.T) {
	cl := NewLogistic()
	data := encodeUniform(t, color.RGBA{R: 10, G: 10, B: 10, A: 255})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cl.Classify(ctx, bytes.NewReader(data))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSigmoid_Bounds(t *testing.T) {
	assert.InDelta(t, 0.5, sigmoid(0), 1e-9)
	assert.Greater(t, sigmoid(10), 0.99)
	assert.Less(t, sigmoid(-10), 0.01)
}
