package encoding

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/graphlens/graphlens/pkg/model"
)

// typePalette maps the entity type vocabulary to fixed colors. Unrecognized
// types fall back to the neutral default.
var typePalette = map[model.EntityType]string{
	model.EntityPerson:       "#4C78A8",
	model.EntityOrganization: "#F58518",
	model.EntityLocation:     "#54A24B",
	model.EntityConcept:      "#B279A2",
	model.EntityEvent:        "#E45756",
	model.EntityTechnology:   "#72B7B2",
	model.EntityDefault:      "#9D9D9D",
}

// TypeColor returns the palette color for an entity type tag.
func TypeColor(typeTag string) string {
	return typePalette[model.NormalizeEntityType(typeTag)]
}

// CommunityColor derives a stable, visually distinct color from a community
// id. Hash-derived hue keeps identical ids on identical colors across
// renders and sessions; saturation and lightness are pinned so every
// community stays readable on a dark canvas.
func CommunityColor(communityID string) string {
	if communityID == "" {
		return typePalette[model.EntityDefault]
	}
	h := fnv.New32a()
	h.Write([]byte(communityID))
	hue := float64(h.Sum32()%360) / 360.0
	return hslToHex(hue, 0.62, 0.55)
}

// degreeCeiling is the degree at which degree-based coloring reaches maximum
// intensity. Above it the intensity is clamped, never extrapolated.
const degreeCeiling = 10

// DegreeColor maps a degree onto a blue intensity ramp. Intensity grows
// linearly up to degreeCeiling and clamps there.
func DegreeColor(degree int) string {
	if degree < 0 {
		degree = 0
	}
	t := float64(degree) / float64(degreeCeiling)
	if t > 1 {
		t = 1
	}
	// Ramp from a washed-out blue to a saturated one.
	r := lerp(0xC6, 0x1F, t)
	g := lerp(0xDB, 0x77, t)
	b := lerp(0xEF, 0xB4, t)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// BlendColors mixes two #RRGGBB colors, t fraction of the way from a to b.
// Malformed input falls back to the first color unchanged.
func BlendColors(a, b string, t float64) string {
	ar, ag, ab, ok := parseHex(a)
	if !ok {
		return a
	}
	br, bg, bb, ok := parseHex(b)
	if !ok {
		return a
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return fmt.Sprintf("#%02X%02X%02X", lerp(ar, br, t), lerp(ag, bg, t), lerp(ab, bb, t))
}

func parseHex(c string) (r, g, b int, ok bool) {
	if len(c) != 7 || c[0] != '#' {
		return 0, 0, 0, false
	}
	if _, err := fmt.Sscanf(c, "#%02X%02X%02X", &r, &g, &b); err != nil {
		return 0, 0, 0, false
	}
	return r, g, b, true
}

func lerp(from, to int, t float64) int {
	return int(math.Round(float64(from) + (float64(to)-float64(from))*t))
}

// hslToHex converts HSL (all components in [0,1]) to a #RRGGBB string.
func hslToHex(h, s, l float64) string {
	var r, g, b float64
	if s == 0 {
		r, g, b = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		r = hueToRGB(p, q, h+1.0/3.0)
		g = hueToRGB(p, q, h)
		b = hueToRGB(p, q, h-1.0/3.0)
	}
	return fmt.Sprintf("#%02X%02X%02X",
		int(math.Round(r*255)),
		int(math.Round(g*255)),
		int(math.Round(b*255)))
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}
