package captcha

import (
	"fmt"
	"image"
	"math"
)

const templateRows = 32
const templateCols = 30
const windowWidth = 30

// luminanceGrid converts the canvas to grayscale. Values other than
// pure black and pure white are treated as noise by the despeckle pass.
func luminanceGrid(img *image.RGBA) [imageHeight][imageWidth]int {
	var grid [imageHeight][imageWidth]int
	for y := 0; y < imageHeight; y++ {
		for x := 0; x < imageWidth; x++ {
			c := img.RGBAAt(x, y)
			grid[y][x] = int(math.Round(
				0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B),
			))
		}
	}
	return grid
}

// despeckle whitens isolated single-pixel flips between two differing
// neighbors, and any pixel that is neither pure black nor pure white.
func despeckle(grid *[imageHeight][imageWidth]int) {
	for y := 1; y < imageHeight-1; y++ {
		for x := 1; x < imageWidth-1; x++ {
			horizontal := grid[y][x-1] == 255 && grid[y][x] == 0 && grid[y][x+1] == 255
			vertical := grid[y-1][x] == 255 && grid[y][x] == 0 && grid[y+1][x] == 255
			gray := grid[y][x] != 255 && grid[y][x] != 0
			if horizontal || vertical || gray {
				grid[y][x] = 255
			}
		}
	}
}

// solveTemplates scores every candidate symbol's ink bitmap against
// each of six fixed windows and keeps the best-agreeing symbol per
// window.
func solveTemplates(img *image.RGBA) (string, error) {
	_, templates, err := loadAssets()
	if err != nil {
		return "", err
	}
	if len(templates.Glyphs) == 0 {
		return "", fmt.Errorf("template matcher: no glyph bitmaps bundled")
	}

	grid := luminanceGrid(img)
	despeckle(&grid)

	out := make([]byte, 0, cellCount)
	for j := windowWidth; j < imageWidth-19; j += windowWidth {
		bestScore := -1.0
		var bestSymbol byte

		for i := 0; i < len(templates.Alphabet); i++ {
			symbol := templates.Alphabet[i]
			mask, ok := templates.Glyphs[string(symbol)]
			if !ok {
				continue
			}

			match, black := 0, 0
			for x := 0; x < templateRows; x++ {
				for y := 0; y < templateCols; y++ {
					if mask[x][y] != '0' {
						continue
					}
					black++
					gy := y + j - windowWidth
					gx := x + 12
					if gx < imageHeight && gy < imageWidth && grid[gx][gy] == 0 {
						match++
					}
				}
			}
			if black == 0 {
				continue
			}

			score := float64(match) / float64(black)
			if score > bestScore {
				bestScore = score
				bestSymbol = symbol
			}
		}

		out = append(out, bestSymbol)
	}

	return string(out), nil
}
