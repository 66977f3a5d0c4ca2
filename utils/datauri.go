package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

var ErrInvalidImage = errors.New("invalid image")

// Image is an uploaded picture ready for the vision model and storage.
type Image struct {
	MimeType string
	Data     []byte
}

// DataURI renders the image as "data:<mime>;base64,<payload>".
func (img Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", img.MimeType, base64.StdEncoding.EncodeToString(img.Data))
}

// Ext picks a file extension for the mime type.
func (img Image) Ext() string {
	switch img.MimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	if exts, _ := mime.ExtensionsByType(img.MimeType); len(exts) > 0 {
		return exts[0]
	}
	if parts := strings.SplitN(img.MimeType, "/", 2); len(parts) == 2 && parts[1] != "" {
		return "." + parts[1]
	}
	return ""
}

// ParseDataURI decodes "data:<mime>;base64,<data>". Only image types are accepted.
func ParseDataURI(uri string, maxBytes int64) (Image, error) {
	meta, data, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return Image{}, fmt.Errorf("%w: not a data URI", ErrInvalidImage)
	}
	mediaType, enc, _ := strings.Cut(strings.TrimPrefix(meta, "data:"), ";")
	if enc != "base64" {
		return Image{}, fmt.Errorf("%w: data URI must be base64 encoded", ErrInvalidImage)
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return Image{}, fmt.Errorf("%w: failed to decode image: %v", ErrInvalidImage, err)
	}
	return NewImage(strings.ToLower(mediaType), raw, maxBytes)
}

// NewImage validates raw bytes. An empty mime type is sniffed from the data.
func NewImage(mimeType string, data []byte, maxBytes int64) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return Image{}, fmt.Errorf("%w: image larger than %d bytes", ErrInvalidImage, maxBytes)
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return Image{}, fmt.Errorf("%w: unsupported type %s", ErrInvalidImage, mimeType)
	}
	return Image{MimeType: mimeType, Data: data}, nil
}
