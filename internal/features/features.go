// Package features computes the image features the recommender scores on:
// an average RGB color and a 64-bit average hash (aHash).
package features

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
)

// allowedMagicBytes defines magic bytes for allowed image types.
var allowedMagicBytes = map[string][]byte{
	"image/jpeg": {0xFF, 0xD8, 0xFF},
	"image/png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"image/webp": {0x52, 0x49, 0x46, 0x46}, // RIFF header (WebP starts with RIFF....WEBP)
}

// DetectType detects the actual image type from magic bytes.
func DetectType(data []byte) (string, error) {
	if len(data) < 12 {
		return "", fmt.Errorf("data too short to detect type")
	}
	if bytes.HasPrefix(data, allowedMagicBytes["image/jpeg"]) {
		return "image/jpeg", nil
	}
	if bytes.HasPrefix(data, allowedMagicBytes["image/png"]) {
		return "image/png", nil
	}
	if bytes.HasPrefix(data, allowedMagicBytes["image/webp"]) && string(data[8:12]) == "WEBP" {
		return "image/webp", nil
	}
	return "", fmt.Errorf("unsupported image type")
}

// Decode decodes raw bytes into an image, sniffing the type first.
func Decode(data []byte) (image.Image, error) {
	mimeType, err := DetectType(data)
	if err != nil {
		return nil, err
	}
	reader := bytes.NewReader(data)
	switch mimeType {
	case "image/jpeg":
		return jpeg.Decode(reader)
	case "image/png":
		return png.Decode(reader)
	case "image/webp":
		return webp.Decode(reader)
	default:
		return nil, fmt.Errorf("unsupported image type: %s", mimeType)
	}
}

// Extract computes both features from a decoded image.
func Extract(img image.Image) (domain.RGB, string) {
	return AverageColor(img), AHash(img)
}

// AverageColor downsamples to 32x32 and averages the channels. The
// downsample keeps the cost flat regardless of upload size.
func AverageColor(img image.Image) domain.RGB {
	small := scaleTo(img, 32, 32)
	bounds := small.Bounds()

	var rSum, gSum, bSum uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := small.At(x, y).RGBA()
			rSum += uint64(r >> 8)
			gSum += uint64(g >> 8)
			bSum += uint64(b >> 8)
		}
	}
	n := uint64(bounds.Dx() * bounds.Dy())
	if n == 0 {
		return domain.RGB{}
	}
	return domain.RGB{
		R: uint8(rSum / n),
		G: uint8(gSum / n),
		B: uint8(bSum / n),
	}
}

// AHash downsamples to 8x8 grayscale, thresholds each pixel against the mean
// brightness (strictly above = 1) and packs the 64 bits row-major, first
// pixel in the most significant bit. Encoded as 16 lowercase hex chars.
func AHash(img image.Image) string {
	small := scaleTo(img, 8, 8)
	bounds := small.Bounds()

	var luma [64]float64
	var sum float64
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := small.At(x, y).RGBA()
			// Rec. 601 luma on 8-bit channels
			l := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			luma[i] = l
			sum += l
			i++
		}
	}
	mean := sum / 64

	var hash uint64
	for i, l := range luma {
		if l > mean {
			hash |= 1 << (63 - uint(i))
		}
	}
	return fmt.Sprintf("%016x", hash)
}

func scaleTo(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}
