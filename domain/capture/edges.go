package capture

import (
	boterrors "github.com/soocke/splash-bot-go/domain/errors"
)

// EdgeOptions configures EdgeFilter.
type EdgeOptions struct {
	Low      float64 // hysteresis lower bound on gradient magnitude
	High     float64 // definite-edge bound on gradient magnitude
	Aperture int     // Sobel aperture: 3, 5 or 7
}

// DefaultEdgeOptions returns the thresholds the templates were tuned with.
func DefaultEdgeOptions() EdgeOptions {
	return EdgeOptions{Low: 50, High: 100, Aperture: 3}
}

const (
	edgeNone uint8 = iota
	edgeWeak
	edgeStrong
)

// tan(22.5°) in Q15 fixed point.
const tg22 = 13573

func sobelKernels(aperture int) (deriv, smooth []int32, ok bool) {
	switch aperture {
	case 3:
		return []int32{-1, 0, 1}, []int32{1, 2, 1}, true
	case 5:
		return []int32{-1, -2, 0, 2, 1}, []int32{1, 4, 6, 4, 1}, true
	case 7:
		return []int32{-1, -4, -5, 0, 5, 4, 1}, []int32{1, 6, 15, 20, 15, 6, 1}, true
	}
	return nil, nil, false
}

// EdgeFilter converts a grayscale frame into a binary edge map (0 or 255) of
// the same size using Sobel gradients, non-maximum suppression and hysteresis.
// The transform is pure: identical input and options give identical output.
func EdgeFilter(src *Frame, opts EdgeOptions) (*Frame, error) {
	if src.Empty() {
		return nil, boterrors.New(boterrors.KindDetection, "edges", "empty frame")
	}
	deriv, smooth, ok := sobelKernels(opts.Aperture)
	if !ok {
		return nil, boterrors.Newf(boterrors.KindDetection, "edges", "unsupported aperture %d", opts.Aperture)
	}
	low, high := opts.Low, opts.High
	if low > high {
		low, high = high, low
	}
	w, h := src.Width, src.Height
	dx := separable(src, w, h, deriv, smooth)
	dy := separable(src, w, h, smooth, deriv)

	mag := make([]int32, w*h)
	for i := range mag {
		mag[i] = abs32(dx[i]) + abs32(dy[i])
	}
	magAt := func(x, y int) int32 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	state := make([]uint8, w*h)
	stack := make([]int, 0, 64)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := mag[i]
			if float64(m) <= low {
				continue
			}
			gx, gy := int64(dx[i]), int64(dy[i])
			ax, ay := gx, gy
			if ax < 0 {
				ax = -ax
			}
			if ay < 0 {
				ay = -ay
			}
			ay <<= 15
			tg22x := ax * tg22
			var peak bool
			if ay < tg22x {
				peak = m > magAt(x-1, y) && m >= magAt(x+1, y)
			} else if tg67x := tg22x + (ax << 16); ay > tg67x {
				peak = m > magAt(x, y-1) && m >= magAt(x, y+1)
			} else {
				s := 1
				if (gx < 0) != (gy < 0) {
					s = -1
				}
				peak = m > magAt(x-s, y-1) && m > magAt(x+s, y+1)
			}
			if !peak {
				continue
			}
			if float64(m) > high {
				state[i] = edgeStrong
				stack = append(stack, i)
			} else {
				state[i] = edgeWeak
			}
		}
	}

	// Promote weak pixels 8-connected to a strong one.
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for ny := y - 1; ny <= y+1; ny++ {
			if ny < 0 || ny >= h {
				continue
			}
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || nx >= w {
					continue
				}
				j := ny*w + nx
				if state[j] == edgeWeak {
					state[j] = edgeStrong
					stack = append(stack, j)
				}
			}
		}
	}

	out := &Frame{Pix: make([]uint8, w*h), Width: w, Height: h, Seq: src.Seq, CapturedAt: src.CapturedAt, Origin: src.Origin}
	for i, s := range state {
		if s == edgeStrong {
			out.Pix[i] = 255
		}
	}
	return out, nil
}

// separable applies kx along rows then ky along columns with replicated borders.
func separable(src *Frame, w, h int, kx, ky []int32) []int32 {
	r := len(kx) / 2
	tmp := make([]int32, w*h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var acc int32
			for k, c := range kx {
				if c == 0 {
					continue
				}
				acc += c * int32(row[clampInt(x+k-r, 0, w-1)])
			}
			tmp[y*w+x] = acc
		}
	}
	out := make([]int32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc int32
			for k, c := range ky {
				if c == 0 {
					continue
				}
				acc += c * tmp[clampInt(y+k-r, 0, h-1)*w+x]
			}
			out[y*w+x] = acc
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
