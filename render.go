package sprig

import (
	"image"
	"math"
	"sort"

	xdraw "golang.org/x/image/draw"
)

// The compositing pipeline is pure CPU work on stdlib RGBA rasters. Rasters
// are square, canvasSize pixels a side, with the pixel-grid origin at the
// center: grid coordinate (x, y) lands at raster (x+half, y+half).

// NewRaster allocates a transparent square raster for the given canvas size.
func NewRaster(size int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, size, size))
}

// RenderObject rasterizes an object's sparse pixel grid into a fresh raster.
// Out-of-bounds entries and malformed keys are skipped; unparseable colors
// come back from ParseColor as opaque black.
func RenderObject(obj *PixelObject, size int) *image.RGBA {
	img := NewRaster(size)
	half := size / 2
	for key, cs := range obj.Pixels {
		x, y, ok := ParsePixelKey(key)
		if !ok {
			continue
		}
		px, py := x+half, y+half
		if px < 0 || py < 0 || px >= size || py >= size {
			continue
		}
		r, g, b, a := ParseColor(cs)
		i := img.PixOffset(px, py)
		img.Pix[i+0] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// ApplyTint multiplies every non-transparent pixel by the tint, with the
// tint's alpha applied as a final multiplier over color and alpha alike.
func ApplyTint(img *image.RGBA, tint Color) {
	if tint == ColorWhite {
		return
	}
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		a := pix[i+3]
		if a == 0 {
			continue
		}
		pix[i+0] = clamp255(float64(pix[i+0]) * tint.R * tint.A)
		pix[i+1] = clamp255(float64(pix[i+1]) * tint.G * tint.A)
		pix[i+2] = clamp255(float64(pix[i+2]) * tint.B * tint.A)
		pix[i+3] = clamp255(float64(a) * tint.A)
	}
}

// ApplyAdjustments applies brightness, contrast, and saturation in
// normalized [0, 1] color space, clamping back to [0, 255] on write.
// Brightness is additive; contrast scales around mid-gray with
// factor (c+1)/(1-c); saturation interpolates against the Rec. 601
// luminance (0.299 R + 0.587 G + 0.114 B).
func ApplyAdjustments(img *image.RGBA, adj ColorAdjustments) {
	if adj.IsIdentity() {
		return
	}
	contrastFactor := 0.0
	if adj.Contrast != 0 {
		denom := 1 - adj.Contrast
		if denom < 1e-6 {
			denom = 1e-6 // full contrast clamps to the extremes instead of dividing by zero
		}
		contrastFactor = (adj.Contrast + 1) / denom
	}

	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		if pix[i+3] == 0 {
			continue
		}
		r := float64(pix[i+0]) / 255
		g := float64(pix[i+1]) / 255
		b := float64(pix[i+2]) / 255

		if adj.Brightness != 0 {
			r += adj.Brightness
			g += adj.Brightness
			b += adj.Brightness
		}
		if adj.Contrast != 0 {
			r = (r-0.5)*contrastFactor + 0.5
			g = (g-0.5)*contrastFactor + 0.5
			b = (b-0.5)*contrastFactor + 0.5
		}
		if adj.Saturation != 0 {
			lum := 0.299*r + 0.587*g + 0.114*b
			s := adj.Saturation + 1
			r = lum + (r-lum)*s
			g = lum + (g-lum)*s
			b = lum + (b-lum)*s
		}

		pix[i+0] = clamp255(r * 255)
		pix[i+1] = clamp255(g * 255)
		pix[i+2] = clamp255(b * 255)
	}
}

// Composite alpha-blends src onto dst, forward-mapping every source pixel's
// centered coordinate through t and rounding to the nearest destination
// cell. Forward mapping can leave unfilled destination pixels under rotation
// or scale-up; that is the accepted contract of this renderer, not a gap to
// patch with resampling.
func Composite(dst, src *image.RGBA, t Transform) {
	size := dst.Rect.Dx()
	half := size / 2
	identity := t.IsIdentity()
	m := t.ToMatrix()

	for sy := 0; sy < size; sy++ {
		for sx := 0; sx < size; sx++ {
			si := src.PixOffset(sx, sy)
			srcA := src.Pix[si+3]
			if srcA == 0 {
				continue
			}
			dx, dy := sx, sy
			if !identity {
				fx, fy := applyAffine(m, float64(sx-half), float64(sy-half))
				dx = int(math.Round(fx)) + half
				dy = int(math.Round(fy)) + half
				if dx < 0 || dy < 0 || dx >= size || dy >= size {
					continue
				}
			}
			blendPixel(dst, dst.PixOffset(dx, dy), src.Pix[si], src.Pix[si+1], src.Pix[si+2], srcA)
		}
	}
}

// blendPixel source-over blends one RGBA pixel into dst at byte offset di:
// out = src*a + dst*(1-a), with alpha accumulating toward opaque.
func blendPixel(dst *image.RGBA, di int, r, g, b, a uint8) {
	af := float64(a) / 255
	inv := 1 - af
	dst.Pix[di+0] = clamp255(float64(r)*af + float64(dst.Pix[di+0])*inv)
	dst.Pix[di+1] = clamp255(float64(g)*af + float64(dst.Pix[di+1])*inv)
	dst.Pix[di+2] = clamp255(float64(b)*af + float64(dst.Pix[di+2])*inv)
	dst.Pix[di+3] = clamp255(float64(a) + float64(dst.Pix[di+3])*inv)
}

// RenderAsset composites the full scene into one raster: flatten the tree,
// sort every object (nested included) by the global order key ascending,
// and paint visible objects in that order — later composites win on top.
func RenderAsset(a *Asset, size int) *image.RGBA {
	flat := Flatten(a.Objects)
	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].Object.Order < flat[j].Object.Order
	})

	dst := NewRaster(size)
	for _, f := range flat {
		if !f.Object.Visible {
			continue
		}
		layer := RenderObject(f.Object, size)
		ApplyTint(layer, f.Object.ColorTint)
		ApplyAdjustments(layer, f.Object.Adjustments)
		Composite(dst, layer, f.World)
	}
	return dst
}

// Thumbnail scales src into a w×h raster with nearest-neighbor sampling,
// keeping pixel edges hard. Used for animation frame strips.
func Thumbnail(src *image.RGBA, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func clamp255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
