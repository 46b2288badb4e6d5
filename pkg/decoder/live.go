package decoder

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/time/rate"
)

// LiveConfig fixes the frame rate and decode region of a live source
type LiveConfig struct {
	FPS       int
	BoxWidth  int
	BoxHeight int
}

// DefaultLiveConfig returns the standard live-camera settings
func DefaultLiveConfig() LiveConfig {
	return LiveConfig{FPS: 10, BoxWidth: 250, BoxHeight: 250}
}

// LiveSource decodes frames streamed from one capture device
type LiveSource struct {
	deviceID string
	decoder  *Decoder
	cfg      LiveConfig
	limiter  *rate.Limiter

	mu     sync.Mutex
	closed bool
}

// OpenLive starts a live source bound to deviceID. An empty deviceID means
// the client's default camera.
func (d *Decoder) OpenLive(deviceID string, cfg LiveConfig) *LiveSource {
	def := DefaultLiveConfig()
	if cfg.FPS <= 0 {
		cfg.FPS = def.FPS
	}
	if cfg.BoxWidth <= 0 {
		cfg.BoxWidth = def.BoxWidth
	}
	if cfg.BoxHeight <= 0 {
		cfg.BoxHeight = def.BoxHeight
	}

	return &LiveSource{
		deviceID: deviceID,
		decoder:  d,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.FPS), 1),
	}
}

// DeviceID returns the device this source is bound to
func (l *LiveSource) DeviceID() string {
	return l.deviceID
}

// Config returns the source's settings
func (l *LiveSource) Config() LiveConfig {
	return l.cfg
}

// DecodeFrame decodes one frame arriving at now. Frames over the rate limit
// and frames without a readable code return ok=false and no error; only an
// undecodable image or a closed source is an error.
func (l *LiveSource) DecodeFrame(r io.Reader, now time.Time) (text string, ok bool, err error) {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return "", false, ErrSourceClosed
	}

	if !l.limiter.AllowN(now, 1) {
		return "", false, nil
	}

	img, err := decodeBounded(r)
	if errors.Is(err, ErrImageTooLarge) {
		return "", false, err
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to decode frame: %w", err)
	}

	text, err = l.decoder.DecodeImage(l.region(img))
	if errors.Is(err, ErrNoCode) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// Close stops the source; later frames are rejected
func (l *LiveSource) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}

// region crops the centered decode box, clamped to the frame
func (l *LiveSource) region(img image.Image) image.Image {
	b := img.Bounds()
	w, h := l.cfg.BoxWidth, l.cfg.BoxHeight
	if w >= b.Dx() && h >= b.Dy() {
		return img
	}
	if w > b.Dx() {
		w = b.Dx()
	}
	if h > b.Dy() {
		h = b.Dy()
	}

	x0 := b.Min.X + (b.Dx()-w)/2
	y0 := b.Min.Y + (b.Dy()-h)/2
	src := image.Rect(x0, y0, x0+w, y0+h)

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.Copy(dst, image.Point{}, img, src, draw.Src, nil)
	return dst
}
