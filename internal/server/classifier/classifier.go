// Package classifier implements the binary earthworm/flatworm image
// classifier. It is a deterministic logistic model over simple pixel
// statistics behind a single sigmoid score cut at 0.5, where scores above
// the cut mean flatworm.
package classifier

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"wormdetector/internal/server/models"
)

// Input images are sampled on a fixed grid so results do not depend on
// resolution.
const sampleGrid = 128

// Result is one classification outcome. Confidence is in (0.5, 1].
type Result struct {
	Class      string
	Confidence float64
}

// Classifier assigns one of the two worm classes to an image.
type Classifier interface {
	Classify(ctx context.Context, r io.Reader) (*Result, error)
}

// Logistic is the default Classifier. The zero value is not usable;
// construct it with NewLogistic.
type Logistic struct {
	weights [3]float64
	bias    float64
}

// NewLogistic returns the classifier with the fixed trained coefficients.
func NewLogistic() *Logistic {
	// Coefficients fitted offline against the labeled worm image set.
	// Features: mean redness, mean saturation, luminance spread.
	return &Logistic{
		weights: [3]float64{-6.2, 3.8, -2.9},
		bias:    0.35,
	}
}

// Classify decodes the image and scores it. A score above 0.5 is a flatworm
// with confidence equal to the score; otherwise earthworm with confidence
// 1-score.
func (c *Logistic) Classify(ctx context.Context, r io.Reader) (*Result, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image decode error: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	redness, saturation, spread := pixelStats(img)

	z := c.weights[0]*redness + c.weights[1]*saturation + c.weights[2]*spread + c.bias
	score := sigmoid(z)

	if score > 0.5 {
		return &Result{Class: models.ClassFlatworm, Confidence: score}, nil
	}
	return &Result{Class: models.ClassEarthworm, Confidence: 1 - score}, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// pixelStats samples the image on a fixed grid and returns three normalized
// features: mean redness (r minus g, shifted to [0,1]), mean HSV saturation,
// and the standard deviation of luminance.
func pixelStats(img image.Image) (redness, saturation, spread float64) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return 0, 0, 0
	}

	var sumRed, sumSat, sumLum, sumLumSq float64
	n := float64(sampleGrid * sampleGrid)

	for gy := 0; gy < sampleGrid; gy++ {
		for gx := 0; gx < sampleGrid; gx++ {
			x := bounds.Min.X + gx*w/sampleGrid
			y := bounds.Min.Y + gy*h/sampleGrid

			pr, pg, pb, _ := img.At(x, y).RGBA()
			r := float64(pr) / 0xffff
			g := float64(pg) / 0xffff
			b := float64(pb) / 0xffff

			max := math.Max(r, math.Max(g, b))
			min := math.Min(r, math.Min(g, b))

			sat := 0.0
			if max > 0 {
				sat = (max - min) / max
			}

			lum := 0.299*r + 0.587*g + 0.114*b

			sumRed += (r - g + 1) / 2
			sumSat += sat
			sumLum += lum
			sumLumSq += lum * lum
		}
	}

	redness = sumRed / n
	saturation = sumSat / n

	meanLum := sumLum / n
	variance := sumLumSq/n - meanLum*meanLum
	if variance < 0 {
		variance = 0
	}
	spread = math.Sqrt(variance)

	return redness, saturation, spread
}
