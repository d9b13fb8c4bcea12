package capture

import (
	"runtime"
	"sync"

	boterrors "github.com/soocke/splash-bot-go/domain/errors"
)

// LocateBest matches every template against edges and returns the highest
// scoring result. Ties go to the earlier template. Templates larger than the
// frame are skipped; if none fit, the first error is returned.
func (l *Locator) LocateBest(edges *Frame, templates []*Template) (MatchResult, error) {
	if len(templates) == 0 {
		return MatchResult{}, boterrors.New(boterrors.KindDetection, "locate", "no templates")
	}

	type slot struct {
		res MatchResult
		err error
	}
	results := make([]slot, len(templates))
	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())
	for i, t := range templates {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, t *Template) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := l.Locate(edges, t)
			results[i] = slot{res: res, err: err}
		}(i, t)
	}
	wg.Wait()

	var (
		best     MatchResult
		found    bool
		firstErr error
	)
	for _, s := range results {
		if s.err != nil {
			if firstErr == nil {
				firstErr = s.err
			}
			continue
		}
		if !found || s.res.Score > best.Score {
			best = s.res
			found = true
		}
	}
	if !found {
		return MatchResult{}, firstErr
	}
	return best, nil
}

// LocateBest matches against all templates with the shared default Locator.
func LocateBest(edges *Frame, templates []*Template) (MatchResult, error) {
	defaultLocatorOnce.Do(func() { defaultLocator = NewLocator(defaultPrecompCacheSize) })
	return defaultLocator.LocateBest(edges, templates)
}
