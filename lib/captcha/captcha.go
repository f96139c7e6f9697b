// Package captcha guesses the text inside the portal's login captcha.
//
// Two independent strategies are layered because the portal's captcha
// renderer is unreliable: a pretrained segmentation classifier runs
// first and a bitmap template matcher takes over if it errors. Both are
// pure functions over the image bytes and the bundled model assets.
package captcha

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

const imageWidth = 200
const imageHeight = 40

// Solve turns a captcha image into its guessed text. It fails only on
// undecodable input or corrupt bundled assets.
func Solve(imageBytes []byte) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, imageWidth, imageHeight))
	err := normalize(imageBytes, img)
	if err != nil {
		return "", fmt.Errorf("captcha: decode image: %w", err)
	}

	guess, err := solveClassifier(img)
	if err == nil {
		return guess, nil
	}
	slog.Debug("captcha classifier failed, falling back to template matcher", "err", err)

	guess, err = solveTemplates(img)
	if err != nil {
		return "", fmt.Errorf("captcha: both strategies failed: %w", err)
	}
	return guess, nil
}

// normalize decodes the buffer and scales it onto a fixed 200x40 RGBA
// canvas, the offsets used during segmentation assume exactly that
// geometry.
func normalize(imageBytes []byte, dst *image.RGBA) error {
	src, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return err
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return nil
}
