package capture

import (
	"math"
	"runtime"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	boterrors "github.com/soocke/splash-bot-go/domain/errors"
)

// templatePrecomp caches the non-zero samples of a template and its summary
// statistics. Edge templates are sparse, so the cross term only visits the
// samples listed here.
type templatePrecomp struct {
	W, H  int
	xs    []int32
	ys    []int32
	vals  []int64
	sumT  int64
	nVarT float64 // n*Σt² - (Σt)²
}

func buildTemplatePrecomp(t *Frame) *templatePrecomp {
	pc := &templatePrecomp{W: t.Width, H: t.Height}
	var sumT2 int64
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			v := int64(t.Pix[y*t.Width+x])
			if v == 0 {
				continue
			}
			pc.xs = append(pc.xs, int32(x))
			pc.ys = append(pc.ys, int32(y))
			pc.vals = append(pc.vals, v)
			pc.sumT += v
			sumT2 += v * v
		}
	}
	n := int64(t.Width * t.Height)
	pc.nVarT = float64(n*sumT2 - pc.sumT*pc.sumT)
	return pc
}

// integral stores summed-area tables with a zero row and column of padding,
// so window sums need no edge cases.
type integral struct {
	sum, sumSq []int64
	stride     int
}

func buildIntegral(f *Frame) *integral {
	s := f.Width + 1
	in := &integral{sum: make([]int64, s*(f.Height+1)), sumSq: make([]int64, s*(f.Height+1)), stride: s}
	for y := 0; y < f.Height; y++ {
		var rowSum, rowSq int64
		for x := 0; x < f.Width; x++ {
			v := int64(f.Pix[y*f.Width+x])
			rowSum += v
			rowSq += v * v
			off := (y+1)*s + x + 1
			in.sum[off] = in.sum[y*s+x+1] + rowSum
			in.sumSq[off] = in.sumSq[y*s+x+1] + rowSq
		}
	}
	return in
}

func (in *integral) window(x, y, w, h int) (sum, sumSq int64) {
	s := in.stride
	a, b, c, d := y*s+x, y*s+x+w, (y+h)*s+x, (y+h)*s+x+w
	return in.sum[d] - in.sum[b] - in.sum[c] + in.sum[a], in.sumSq[d] - in.sumSq[b] - in.sumSq[c] + in.sumSq[a]
}

// Locator performs normalized cross-correlation template matching.
// It is safe for concurrent use.
type Locator struct {
	cache   *lru.Cache[*Template, *templatePrecomp]
	workers int
}

const defaultPrecompCacheSize = 32

// NewLocator returns a locator caching precomputation for up to cacheSize templates.
func NewLocator(cacheSize int) *Locator {
	if cacheSize <= 0 {
		cacheSize = defaultPrecompCacheSize
	}
	c, err := lru.New[*Template, *templatePrecomp](cacheSize)
	if err != nil {
		// only returned for non-positive sizes
		panic(err)
	}
	return &Locator{cache: c, workers: runtime.NumCPU()}
}

var (
	defaultLocatorOnce sync.Once
	defaultLocator     *Locator
)

// Locate matches tmpl against edges with a shared default Locator.
func Locate(edges *Frame, tmpl *Template) (MatchResult, error) {
	defaultLocatorOnce.Do(func() { defaultLocator = NewLocator(defaultPrecompCacheSize) })
	return defaultLocator.Locate(edges, tmpl)
}

func (l *Locator) precomp(tmpl *Template) *templatePrecomp {
	if pc, ok := l.cache.Get(tmpl); ok {
		return pc
	}
	pc := buildTemplatePrecomp(tmpl.Edges)
	l.cache.Add(tmpl, pc)
	return pc
}

type bandBest struct {
	x, y  int
	score float64
	set   bool
}

// Locate slides tmpl over every valid position of edges and returns the
// position of the global maximum correlation score. Ties go to the first
// position in row-major order. No score floor is applied.
func (l *Locator) Locate(edges *Frame, tmpl *Template) (MatchResult, error) {
	if edges.Empty() {
		return MatchResult{}, boterrors.New(boterrors.KindDetection, "locate", "empty frame")
	}
	if tmpl == nil || tmpl.Edges.Empty() {
		return MatchResult{}, boterrors.New(boterrors.KindDetection, "locate", "empty template")
	}
	W, H := edges.Width, edges.Height
	w, h := tmpl.Edges.Width, tmpl.Edges.Height
	if w > W || h > H {
		return MatchResult{}, boterrors.New(boterrors.KindDetection, "locate", "template larger than frame").
			WithDims("frame", W, H).
			WithDims("template", w, h).
			WithMetadata("template_name", tmpl.Name)
	}

	pc := l.precomp(tmpl)
	in := buildIntegral(edges)
	offs := make([]int, len(pc.xs))
	for i := range pc.xs {
		offs[i] = int(pc.ys[i])*W + int(pc.xs[i])
	}
	n := int64(w * h)

	scoreAt := func(x, y int) float64 {
		sumF, sumF2 := in.window(x, y, w, h)
		nVarF := float64(n*sumF2 - sumF*sumF)
		if nVarF <= 0 || pc.nVarT <= 0 {
			return 0
		}
		base := y*W + x
		var sumFT int64
		for i, o := range offs {
			sumFT += int64(edges.Pix[base+o]) * pc.vals[i]
		}
		score := float64(n*sumFT-sumF*pc.sumT) / math.Sqrt(nVarF*pc.nVarT)
		if score > 1 {
			score = 1
		} else if score < -1 {
			score = -1
		}
		return score
	}

	rows := H - h + 1
	workers := l.workers
	if workers < 1 {
		workers = 1
	}
	if workers > rows {
		workers = rows
	}
	bands := make([]bandBest, workers)
	per := (rows + workers - 1) / workers
	var wg sync.WaitGroup
	for b := 0; b < workers; b++ {
		y0 := b * per
		y1 := min(y0+per, rows)
		if y0 >= y1 {
			continue
		}
		wg.Add(1)
		go func(b, y0, y1 int) {
			defer wg.Done()
			best := bandBest{}
			for y := y0; y < y1; y++ {
				for x := 0; x <= W-w; x++ {
					s := scoreAt(x, y)
					if !best.set || s > best.score {
						best = bandBest{x: x, y: y, score: s, set: true}
					}
				}
			}
			bands[b] = best
		}(b, y0, y1)
	}
	wg.Wait()

	best := bandBest{}
	for _, b := range bands {
		if b.set && (!best.set || b.score > best.score) {
			best = b
		}
	}
	return MatchResult{
		Region:   Region{X: best.x, Y: best.y, W: w, H: h},
		Score:    best.score,
		Template: tmpl.Name,
	}, nil
}
