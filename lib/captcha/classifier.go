package captcha

import (
	"fmt"
	"image"
	"math"
)

const cellRows = 22
const cellCols = 24
const cellCount = 6

// saturationGrid computes per-pixel saturation over the RGBA canvas,
// the captcha's glyphs are drawn in saturated colors on a gray noise
// field so saturation separates ink from background.
func saturationGrid(img *image.RGBA) [imageHeight][imageWidth]int {
	var grid [imageHeight][imageWidth]int
	for y := 0; y < imageHeight; y++ {
		for x := 0; x < imageWidth; x++ {
			c := img.RGBAAt(x, y)
			maxc := max(c.R, max(c.G, c.B))
			minc := min(c.R, min(c.G, c.B))
			if maxc == 0 {
				continue
			}
			grid[y][x] = int(math.Round(float64(maxc-minc) * 255 / float64(maxc)))
		}
	}
	return grid
}

// charCell slices out the i-th character window. The offsets encode the
// renderer's fixed 25px character pitch and the alternating 5px
// vertical jitter of its font.
func charCell(grid *[imageHeight][imageWidth]int, i int) [cellRows][cellCols]int {
	x1 := (i+1)*25 + 2
	y1 := 7 + 5*(i%2) + 1
	y2 := 35 - 5*((i+1)%2)

	var cell [cellRows][cellCols]int
	for r := 0; r < y2-y1; r++ {
		for c := 0; c < cellCols; c++ {
			cell[r][c] = grid[y1+r][x1+c]
		}
	}
	return cell
}

// binarize flattens the cell row-major, thresholding each pixel against
// the cell's own mean intensity.
func binarize(cell [cellRows][cellCols]int) [cellRows * cellCols]float64 {
	sum := 0
	for r := 0; r < cellRows; r++ {
		for c := 0; c < cellCols; c++ {
			sum += cell[r][c]
		}
	}
	mean := float64(sum) / float64(cellRows*cellCols)

	var bits [cellRows * cellCols]float64
	for r := 0; r < cellRows; r++ {
		for c := 0; c < cellCols; c++ {
			if float64(cell[r][c]) > mean {
				bits[r*cellCols+c] = 1
			}
		}
	}
	return bits
}

func softmaxArgmax(logits []float64) int {
	sum := 0.0
	for _, l := range logits {
		sum += math.Exp(l)
	}
	best, bestScore := 0, math.Inf(-1)
	for i, l := range logits {
		score := math.Exp(l) / sum
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func solveClassifier(img *image.RGBA) (string, error) {
	model, _, err := loadAssets()
	if err != nil {
		return "", err
	}

	grid := saturationGrid(img)

	out := make([]byte, 0, cellCount)
	for i := 0; i < cellCount; i++ {
		bits := binarize(charCell(&grid, i))

		logits := make([]float64, len(model.Alphabet))
		copy(logits, model.Biases)
		for k, b := range bits {
			if b == 0 {
				continue
			}
			for j := range logits {
				logits[j] += model.Weights[k][j]
			}
		}

		idx := softmaxArgmax(logits)
		if idx >= len(model.Alphabet) {
			return "", fmt.Errorf("classifier: argmax out of alphabet range")
		}
		out = append(out, model.Alphabet[idx])
	}

	return string(out), nil
}
