package pdfs

import (
	"errors"
	"net/http"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// ImageType sniffs the image format in the fpdf naming (PNG, JPG, GIF)
func ImageType(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrUnsupportedImage
	}
	switch http.DetectContentType(data) {
	case "image/png":
		return "PNG", nil
	case "image/jpeg":
		return "JPG", nil
	case "image/gif":
		return "GIF", nil
	}
	return "", ErrUnsupportedImage
}

// fitBox scales (w, h) down or up to fit inside (boxW, boxH)
func fitBox(w float64, h float64, boxW float64, boxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return boxW, boxH
	}
	scale := boxW / w
	if h*scale > boxH {
		scale = boxH / h
	}
	return w * scale, h * scale
}
