package captcha

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed assets/weights.json assets/templates.json
var assetFS embed.FS

// classifierAssets is the pretrained affine layer used by the primary
// strategy. 528 inputs (22x24 binarized cell) to one logit per symbol.
type classifierAssets struct {
	Alphabet string      `json:"alphabet"`
	Weights  [][]float64 `json:"weights"`
	Biases   []float64   `json:"biases"`
}

// templateAssets holds per-symbol ink bitmaps for the fallback matcher,
// each glyph is 32 rows of 30 columns where '0' marks ink.
type templateAssets struct {
	Alphabet string              `json:"alphabet"`
	Glyphs   map[string][]string `json:"glyphs"`
}

var loadOnce sync.Once
var loadedClassifier classifierAssets
var loadedTemplates templateAssets
var loadErr error

func loadAssets() (classifierAssets, templateAssets, error) {
	loadOnce.Do(func() {
		raw, err := assetFS.ReadFile("assets/weights.json")
		if err != nil {
			loadErr = err
			return
		}
		err = json.Unmarshal(raw, &loadedClassifier)
		if err != nil {
			loadErr = fmt.Errorf("parse weights asset: %w", err)
			return
		}
		if len(loadedClassifier.Weights) != cellRows*cellCols {
			loadErr = fmt.Errorf(
				"weights asset: expected %d rows, got %d",
				cellRows*cellCols, len(loadedClassifier.Weights),
			)
			return
		}
		for _, row := range loadedClassifier.Weights {
			if len(row) != len(loadedClassifier.Alphabet) {
				loadErr = fmt.Errorf("weights asset: ragged weight matrix")
				return
			}
		}
		if len(loadedClassifier.Biases) != len(loadedClassifier.Alphabet) {
			loadErr = fmt.Errorf("weights asset: bias length mismatch")
			return
		}

		raw, err = assetFS.ReadFile("assets/templates.json")
		if err != nil {
			loadErr = err
			return
		}
		err = json.Unmarshal(raw, &loadedTemplates)
		if err != nil {
			loadErr = fmt.Errorf("parse templates asset: %w", err)
			return
		}
	})
	return loadedClassifier, loadedTemplates, loadErr
}
