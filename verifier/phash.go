package verifier

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const hashGridSize = 8

// PerceptualHash computes a 64-bit average hash: the image is downscaled
// to an 8x8 grid, greyscaled, and each cell contributes one bit depending
// on whether it is brighter than the grid mean. Visually similar images
// hash to similar values, so near-duplicate detection tolerates minor
// re-encoding.
func PerceptualHash(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return hashImage(img), nil
}

func hashImage(img image.Image) string {
	small := imaging.Grayscale(imaging.Resize(img, hashGridSize, hashGridSize, imaging.Lanczos))

	var pixels [hashGridSize * hashGridSize]uint8
	var sum int
	for y := 0; y < hashGridSize; y++ {
		for x := 0; x < hashGridSize; x++ {
			r, _, _, _ := small.At(x, y).RGBA()
			pixels[y*hashGridSize+x] = uint8(r >> 8)
			sum += int(r >> 8)
		}
	}
	mean := sum / len(pixels)

	var bits uint64
	for i, p := range pixels {
		if int(p) >= mean {
			bits |= 1 << uint(i)
		}
	}
	return fmt.Sprintf("%016x", bits)
}

// HammingDistance counts differing bits between two perceptual hashes.
func HammingDistance(a, b string) (int, error) {
	var x, y uint64
	if _, err := fmt.Sscanf(a, "%x", &x); err != nil {
		return 0, fmt.Errorf("bad hash %q: %w", a, err)
	}
	if _, err := fmt.Sscanf(b, "%x", &y); err != nil {
		return 0, fmt.Errorf("bad hash %q: %w", b, err)
	}
	diff := x ^ y
	count := 0
	for diff != 0 {
		diff &= diff - 1
		count++
	}
	return count, nil
}
