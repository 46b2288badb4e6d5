package decoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"qrscan-go/pkg/models"
)

func qrImage(t *testing.T, text string, size int) image.Image {
	t.Helper()
	img, err := qrcode.NewQRCodeWriter().Encode(text, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	if err != nil {
		t.Fatalf("encode QR: %v", err)
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func blank(size int) image.Image {
	img := image.NewGray(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}

// centered pastes src in the middle of a white canvas
func centered(src image.Image, size int) image.Image {
	canvas := image.NewGray(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	sb := src.Bounds()
	off := image.Pt((size-sb.Dx())/2, (size-sb.Dy())/2)
	draw.Draw(canvas, sb.Add(off), src, sb.Min, draw.Src)
	return canvas
}

// pngHeader returns only the signature and IHDR chunk of a grayscale PNG
// claiming the given size; enough for image.DecodeConfig
func pngHeader(width, height uint32) []byte {
	var ihdr bytes.Buffer
	ihdr.WriteString("IHDR")
	binary.Write(&ihdr, binary.BigEndian, width)
	binary.Write(&ihdr, binary.BigEndian, height)
	ihdr.Write([]byte{8, 0, 0, 0, 0}) // 8-bit gray, no interlace

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	binary.Write(&buf, binary.BigEndian, uint32(ihdr.Len()-4))
	buf.Write(ihdr.Bytes())
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(ihdr.Bytes()))
	return buf.Bytes()
}

func TestDecodeFile(t *testing.T) {
	d := New()

	text, err := d.DecodeFile(bytes.NewReader(pngBytes(t, qrImage(t, "hello gophers", 300))))
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if text != "hello gophers" {
		t.Errorf("DecodeFile() = %q, want %q", text, "hello gophers")
	}
}

func TestDecodeFile_Failures(t *testing.T) {
	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{"no code", func(t *testing.T) []byte { return pngBytes(t, blank(200)) }},
		{"not an image", func(t *testing.T) []byte { return []byte("definitely not a png") }},
		{"empty", func(t *testing.T) []byte { return nil }},
		{"oversized", func(t *testing.T) []byte { return pngHeader(16000, 16000) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().DecodeFile(bytes.NewReader(tt.data(t)))
			if !errors.Is(err, ErrNoCode) {
				t.Fatalf("DecodeFile() error = %v, want ErrNoCode", err)
			}
			if !strings.HasPrefix(err.Error(), UploadFailureMessage) {
				t.Errorf("error text = %q, want user message prefix", err.Error())
			}
		})
	}
}

func TestLiveSource_DecodeFrame(t *testing.T) {
	src := New().OpenLive("cam-1", DefaultLiveConfig())
	now := time.Now()

	text, ok, err := src.DecodeFrame(bytes.NewReader(pngBytes(t, qrImage(t, "frame code", 250))), now)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if !ok || text != "frame code" {
		t.Errorf("DecodeFrame() = %q, %v; want %q, true", text, ok, "frame code")
	}
}

func TestLiveSource_CropsToRegion(t *testing.T) {
	src := New().OpenLive("cam-1", LiveConfig{FPS: 10, BoxWidth: 250, BoxHeight: 250})
	frame := centered(qrImage(t, "boxed", 250), 480)

	text, ok, err := src.DecodeFrame(bytes.NewReader(pngBytes(t, frame)), time.Now())
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if !ok || text != "boxed" {
		t.Errorf("DecodeFrame() = %q, %v; want %q, true", text, ok, "boxed")
	}
}

func TestLiveSource_MissIsSilent(t *testing.T) {
	src := New().OpenLive("", DefaultLiveConfig())

	text, ok, err := src.DecodeFrame(bytes.NewReader(pngBytes(t, blank(250))), time.Now())
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v, want nil for a miss", err)
	}
	if ok || text != "" {
		t.Errorf("DecodeFrame() = %q, %v; want empty miss", text, ok)
	}
}

func TestLiveSource_MalformedFrame(t *testing.T) {
	src := New().OpenLive("", DefaultLiveConfig())

	if _, _, err := src.DecodeFrame(strings.NewReader("garbage"), time.Now()); err == nil {
		t.Error("DecodeFrame() error = nil for malformed frame")
	}
}

func TestDecodeFile_RejectsOversizedBeforeDecoding(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
	}{
		{"huge square", 16000, 16000},
		{"wide strip", MaxDimension + 1, 1},
		{"tall strip", 1, MaxDimension + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().DecodeFile(bytes.NewReader(pngHeader(tt.width, tt.height)))
			if !errors.Is(err, ErrNoCode) || !errors.Is(err, ErrImageTooLarge) {
				t.Errorf("DecodeFile() error = %v, want ErrNoCode and ErrImageTooLarge", err)
			}
		})
	}
}

func TestDecodeFile_AcceptsMaxDimension(t *testing.T) {
	// A header at the limit passes the size check and fails later on the
	// missing pixel data
	_, err := New().DecodeFile(bytes.NewReader(pngHeader(MaxDimension, MaxDimension)))
	if errors.Is(err, ErrImageTooLarge) {
		t.Errorf("DecodeFile() error = %v, limit is inclusive", err)
	}
}

func TestLiveSource_OversizedFrame(t *testing.T) {
	src := New().OpenLive("", DefaultLiveConfig())

	_, ok, err := src.DecodeFrame(bytes.NewReader(pngHeader(16000, 16000)), time.Now())
	if !errors.Is(err, ErrImageTooLarge) || ok {
		t.Errorf("DecodeFrame() = %v, %v; want ErrImageTooLarge", ok, err)
	}
}

func TestLiveSource_RateLimit(t *testing.T) {
	src := New().OpenLive("", LiveConfig{FPS: 10})
	frame := pngBytes(t, qrImage(t, "limited", 250))
	base := time.Now()

	tests := []struct {
		at     time.Duration
		wantOK bool
	}{
		{0, true},
		{10 * time.Millisecond, false},
		{50 * time.Millisecond, false},
		{120 * time.Millisecond, true},
		{170 * time.Millisecond, false},
		{300 * time.Millisecond, true},
	}

	for _, tt := range tests {
		_, ok, err := src.DecodeFrame(bytes.NewReader(frame), base.Add(tt.at))
		if err != nil {
			t.Fatalf("+%v: DecodeFrame() error = %v", tt.at, err)
		}
		if ok != tt.wantOK {
			t.Errorf("+%v: ok = %v, want %v", tt.at, ok, tt.wantOK)
		}
	}
}

func TestLiveSource_Close(t *testing.T) {
	src := New().OpenLive("cam-2", DefaultLiveConfig())
	src.Close()

	_, _, err := src.DecodeFrame(bytes.NewReader(pngBytes(t, qrImage(t, "x", 250))), time.Now())
	if !errors.Is(err, ErrSourceClosed) {
		t.Errorf("DecodeFrame() after Close error = %v, want ErrSourceClosed", err)
	}
	if src.DeviceID() != "cam-2" {
		t.Errorf("DeviceID() = %q", src.DeviceID())
	}
}

func TestNormalizeDevices(t *testing.T) {
	listing := []models.MediaDevice{
		{DeviceID: "mic", Kind: "audioinput", Label: "Mic"},
		{DeviceID: "front", Kind: "videoinput", Label: "Front Camera"},
		{DeviceID: "spk", Kind: "audiooutput"},
		{DeviceID: "back", Kind: "videoinput"},
	}

	got := NormalizeDevices(listing)
	want := []models.Device{
		{DeviceID: "front", Label: "Front Camera"},
		{DeviceID: "back", Label: "Camera 4"},
	}

	if len(got) != len(want) {
		t.Fatalf("NormalizeDevices() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("device %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if got := NormalizeDevices(nil); len(got) != 0 {
		t.Errorf("NormalizeDevices(nil) = %v, want empty", got)
	}
}
