// Package decoder adapts the gozxing QR reader to the two capture modes a
// scanner session supports: a rate-limited live frame stream bound to one
// capture device, and single uploaded images.
package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// UploadFailureMessage is shown when an uploaded image holds no readable code
const UploadFailureMessage = "Could not read QR code from this image. Please try another image."

// ErrNoCode is returned when an image contains no decodable QR code
var ErrNoCode = errors.New(UploadFailureMessage)

// ErrSourceClosed is returned by a live source after Close
var ErrSourceClosed = errors.New("live source closed")

// ErrImageTooLarge is returned for images wider or taller than MaxDimension
var ErrImageTooLarge = errors.New("image dimensions too large")

// MaxDimension bounds the width and height of any decoded image. Compressed
// size says little about decoded size, so the header is checked first.
const MaxDimension = 4096

// Decoder decodes QR codes only; other symbologies are never reported.
type Decoder struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// New creates a QR-only decoder
func New() *Decoder {
	return &Decoder{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER:       true,
			gozxing.DecodeHintType_POSSIBLE_FORMATS: []gozxing.BarcodeFormat{gozxing.BarcodeFormat_QR_CODE},
		},
	}
}

// DecodeImage returns the text of the QR code in img or ErrNoCode
func (d *Decoder) DecodeImage(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCode, err)
	}

	// Readers keep per-call state, so each decode gets its own
	result, err := qrcode.NewQRCodeReader().Decode(bmp, d.hints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoCode, err)
	}
	return result.GetText(), nil
}

// DecodeFile decodes a whole uploaded image. Any failure, including an
// unreadable image format, is reported as ErrNoCode.
func (d *Decoder) DecodeFile(r io.Reader) (string, error) {
	img, err := decodeBounded(r)
	if errors.Is(err, ErrImageTooLarge) {
		return "", fmt.Errorf("%w: %w", ErrNoCode, err)
	}
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode image: %v", ErrNoCode, err)
	}
	return d.DecodeImage(img)
}

// decodeBounded reads the image header and refuses oversized images before
// any pixel buffer is allocated
func decodeBounded(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height, MaxDimension, MaxDimension)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
