package renderer

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Render styles
const (
	StyleStandard = "standard"
	StyleCompact  = "compact"
	StylePoster   = "poster"
)

// QRRenderer renders tracking links as PNG QR codes with high error
// correction, sized per style.
type QRRenderer struct{}

// NewQRRenderer creates a QR code renderer
func NewQRRenderer() *QRRenderer {
	return &QRRenderer{}
}

// Render encodes the link as a QR code. An empty or unknown style falls back
// to the standard preset.
func (r *QRRenderer) Render(link string, style string) (*Artifact, error) {
	size := 400
	switch style {
	case StyleCompact:
		size = 200
	case StylePoster:
		size = 800
	}

	png, err := qrcode.Encode(link, qrcode.High, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}

	return &Artifact{
		ContentType: "image/png",
		Data:        png,
		DataURL:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}
