package services

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))

	res, err := AnalyzeImage(buf.Bytes(), "rash.png")
	require.NoError(t, err)
	assert.Equal(t, "png", res.Format)
	assert.Equal(t, 4, res.Width)
	assert.Equal(t, 3, res.Height)
	assert.NotEmpty(t, res.Message)
}

func TestAnalyzeImageRejects(t *testing.T) {
	_, err := AnalyzeImage([]byte("GIF89a"), "a.gif")
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = AnalyzeImage([]byte("not an image"), "a.jpg")
	assert.ErrorIs(t, err, ErrUnreadableImage)
}
