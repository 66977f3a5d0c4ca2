package utils

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestParseDataURI(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)

	img, err := ParseDataURI(uri, 0)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, pngHeader, img.Data)
	assert.Equal(t, ".png", img.Ext())
	assert.Equal(t, uri, img.DataURI())
}

func TestParseDataURIRejects(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))

	cases := map[string]string{
		"no comma":      "data:image/png;base64",
		"not data":      "http://example.com/a.png," + payload,
		"not base64":    "data:image/png," + payload,
		"bad payload":   "data:image/png;base64,@@@",
		"not an image":  "data:text/plain;base64," + payload,
		"empty payload": "data:image/png;base64,",
	}
	for name, uri := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDataURI(uri, 0)
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
}

func TestNewImageLimitsAndSniffing(t *testing.T) {
	_, err := NewImage("image/png", pngHeader, 4)
	assert.ErrorIs(t, err, ErrInvalidImage)

	img, err := NewImage("", pngHeader, 0)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)

	img, err = NewImage("image/jpeg; charset=binary", []byte{0xff, 0xd8, 0xff}, 0)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MimeType)
	assert.Equal(t, ".jpg", img.Ext())
}
