// Package face computes lightweight face embeddings and similarity scores.
// Clients upload pre-cropped face images; the embedding is a normalized
// grayscale histogram over a fixed downsample, compared with Pearson
// correlation. It trades accuracy for zero model weights and predictable
// latency on small instances.
package face

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	_ "image/jpeg"
	_ "image/png"
)

const (
	// EmbeddingSize is the number of histogram bins.
	EmbeddingSize = 256
	// sampleSize is the square downsample edge before binning.
	sampleSize = 64
)

var ErrEmptyImage = errors.New("image has no pixels")

// EmbeddingFromReader decodes a JPEG or PNG image and returns its embedding.
func EmbeddingFromReader(r io.Reader) ([]float64, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return Embedding(img)
}

// Embedding downsamples the image to sampleSize x sampleSize with nearest
// neighbor, converts to grayscale and returns a normalized 256-bin histogram.
func Embedding(img image.Image) ([]float64, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}

	hist := make([]float64, EmbeddingSize)
	for sy := 0; sy < sampleSize; sy++ {
		for sx := 0; sx < sampleSize; sx++ {
			x := b.Min.X + sx*w/sampleSize
			y := b.Min.Y + sy*h/sampleSize
			r, g, bl, _ := img.At(x, y).RGBA()
			// Rec. 601 luma, scaled from 16-bit channels to 0..255
			gray := (299*r + 587*g + 114*bl) / 1000 >> 8
			if gray > EmbeddingSize-1 {
				gray = EmbeddingSize - 1
			}
			hist[gray]++
		}
	}

	total := float64(sampleSize * sampleSize)
	for i := range hist {
		hist[i] /= total
	}
	return hist, nil
}

// Similarity returns the Pearson correlation of two embeddings clamped to
// [0, 1]. Mismatched lengths or zero-variance inputs score 0.
func Similarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	n := float64(len(a))
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	denom := math.Sqrt(varA * varB)
	if denom == 0 {
		return 0
	}

	corr := cov / denom
	if corr < 0 {
		return 0
	}
	if corr > 1 {
		return 1
	}
	return corr
}
