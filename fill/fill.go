// Package fill implements the paint-bucket flood fill.
package fill

import (
	"image"
	"image/color"
)

// neighbours are the 4-connected offsets.
var neighbours = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Flood recolours the 4-connected region of pixels exactly matching the
// seed pixel (all four channels) with target, forcing alpha to 255.
// It returns the number of pixels changed.
//
// Flood is a no-op when seed is outside img or when the seed pixel already
// equals the opaque target. The fill is iterative and visits each pixel at
// most once, so its cost is bounded by the image size.
func Flood(img *image.NRGBA, seed image.Point, target color.NRGBA) int {
	if img == nil || !seed.In(img.Rect) {
		return 0
	}
	target.A = 255

	match := img.NRGBAAt(seed.X, seed.Y)
	if match == target {
		return 0
	}

	b := img.Rect
	w, h := b.Dx(), b.Dy()
	visited := make([]bool, w*h)

	start := (seed.Y-b.Min.Y)*w + (seed.X - b.Min.X)
	stack := []int{start}
	visited[start] = true
	changed := 0

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		lx, ly := idx%w, idx/w

		off := img.PixOffset(b.Min.X+lx, b.Min.Y+ly)
		px := img.Pix[off : off+4 : off+4]
		if px[0] != match.R || px[1] != match.G || px[2] != match.B || px[3] != match.A {
			continue
		}
		px[0], px[1], px[2], px[3] = target.R, target.G, target.B, target.A
		changed++

		for _, d := range neighbours {
			nx, ny := lx+d[0], ly+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			n := ny*w + nx
			if !visited[n] {
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}
	return changed
}
