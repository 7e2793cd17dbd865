// Atlas places the kingdoms on an abstract map using layered simplex noise.
// The map is presentation data only — the simulation never reads it — but the
// world view consumes it, so it is generated deterministically here alongside
// the roster it describes.
package realm

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Tile is one kingdom's placement on the atlas.
type Tile struct {
	KingdomID string  `json:"kingdom_id"`
	X         float64 `json:"x"` // [0,1)
	Y         float64 `json:"y"` // [0,1)
	Terrain   string  `json:"terrain"`
}

// Atlas is the generated world map.
type Atlas struct {
	Tiles []Tile `json:"tiles"`
}

// BuildAtlas lays the registry's kingdoms out on a ring perturbed by
// elevation noise, so reruns with the same seed produce the same map.
func BuildAtlas(r *Registry, seed int64) *Atlas {
	elev := opensimplex.NewNormalized(seed)
	jitter := opensimplex.NewNormalized(seed + 1)

	kingdoms := r.All()
	tiles := make([]Tile, 0, len(kingdoms))
	n := float64(len(kingdoms))

	for i, k := range kingdoms {
		angle := 2 * math.Pi * float64(i) / n
		// Base ring radius perturbed per kingdom so the layout looks organic.
		radius := 0.30 + 0.12*jitter.Eval2(float64(i)*0.7, 0)
		x := 0.5 + radius*math.Cos(angle)
		y := 0.5 + radius*math.Sin(angle)

		e := elev.Eval2(x*3, y*3)
		tiles = append(tiles, Tile{
			KingdomID: k.ID,
			X:         x,
			Y:         y,
			Terrain:   terrainFor(e),
		})
	}
	return &Atlas{Tiles: tiles}
}

func terrainFor(elev float64) string {
	switch {
	case elev < 0.30:
		return "coast"
	case elev < 0.55:
		return "plains"
	case elev < 0.75:
		return "hills"
	default:
		return "mountains"
	}
}
