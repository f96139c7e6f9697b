package captcha

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodePng(t *testing.T, img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSolveProducesSixSymbols(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 200; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 120, G: 60, B: 200, A: 255})
		}
	}

	guess, err := Solve(encodePng(t, img))
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, guess, 6)

	model, _, err := loadAssets()
	if err != nil {
		t.Fatal(err)
	}
	for _, symbol := range guess {
		require.True(t, strings.ContainsRune(model.Alphabet, symbol))
	}
}

func TestSolveScalesOddSizes(t *testing.T) {
	// The portal occasionally serves captchas at non-native sizes.
	img := image.NewRGBA(image.Rect(0, 0, 400, 80))
	guess, err := Solve(encodePng(t, img))
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, guess, 6)
}

func TestSolveRejectsGarbage(t *testing.T) {
	_, err := Solve([]byte("not an image at all"))
	require.Error(t, err)

	_, err = Solve(nil)
	require.Error(t, err)
}

func TestDespeckle(t *testing.T) {
	var grid [imageHeight][imageWidth]int
	for y := range grid {
		for x := range grid[y] {
			grid[y][x] = 255
		}
	}
	// An isolated black pixel and a gray smudge, both noise.
	grid[10][50] = 0
	grid[20][90] = 128
	// A horizontal black run, genuine ink.
	grid[15][100] = 0
	grid[15][101] = 0
	grid[15][102] = 0
	grid[14][101] = 0
	grid[16][101] = 0

	despeckle(&grid)

	require.Equal(t, 255, grid[10][50])
	require.Equal(t, 255, grid[20][90])
	require.Equal(t, 0, grid[15][101])
}

func TestTemplateFallback(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 200; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	guess, err := solveTemplates(img)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, guess, 6)
}
