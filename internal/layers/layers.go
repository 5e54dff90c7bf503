// Package layers keeps the bookkeeping for overlay layers in the clip editor.
package layers

import (
	"fmt"
	"math/rand"

	"github.com/maheshrc27/clipstudio/internal/models"
)

const defaultLayerSize = 150

// AddLayer returns a copy of layers with one new layer appended. The new layer
// sits above every existing one and takes the next free id.
func AddLayer(layers []models.Layer) []models.Layer {
	maxID, maxZ := 0, 0
	for _, l := range layers {
		maxID = max(maxID, l.ID)
		maxZ = max(maxZ, l.ZIndex)
	}

	area := models.LayerArea{Rect: models.Rect{Width: defaultLayerSize, Height: defaultLayerSize}}
	layer := models.Layer{
		ID:          maxID + 1,
		ZIndex:      maxZ + 1,
		BorderColor: RandomColor(),
		Input:       area,
		Output:      area,
		Locked:      false,
		Filter:      models.LayerFilterNone,
		Aspect:      models.LayerAspectFree,
	}

	next := make([]models.Layer, 0, len(layers)+1)
	next = append(next, layers...)
	return append(next, layer)
}

// RandomColor returns a "#rrggbb" string.
func RandomColor() string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}

// Validate checks the enum fields of each layer and that ids are unique.
func Validate(layers []models.Layer) error {
	seen := make(map[int]bool, len(layers))
	for _, l := range layers {
		if !l.Filter.Valid() {
			return fmt.Errorf("layer %d: invalid filter %q", l.ID, l.Filter)
		}
		if !l.Aspect.Valid() {
			return fmt.Errorf("layer %d: invalid aspect %q", l.ID, l.Aspect)
		}
		if seen[l.ID] {
			return fmt.Errorf("duplicate layer id %d", l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}
