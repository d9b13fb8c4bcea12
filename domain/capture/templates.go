package capture

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"

	boterrors "github.com/soocke/splash-bot-go/domain/errors"
)

// TemplateOptions controls template loading.
type TemplateOptions struct {
	Edges EdgeOptions
	// Dedupe drops templates whose perceptual hash is within MaxHashDistance
	// of an earlier one.
	Dedupe          bool
	MaxHashDistance int
	Logger          *slog.Logger
}

const defaultMaxHashDistance = 4

// LoadTemplates decodes every image in dir (sorted by file name, dot-files and
// sub-directories skipped), converts it to grayscale and precomputes its edge
// map. Any decode failure or an empty result is a TemplateLoad error.
func LoadTemplates(dir string, opts TemplateOptions) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, boterrors.Wrap(err, boterrors.KindTemplateLoad, "templates", "read template directory").
			WithMetadata("dir", dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	maxDist := opts.MaxHashDistance
	if maxDist <= 0 {
		maxDist = defaultMaxHashDistance
	}

	var (
		out    []*Template
		hashes []*goimagehash.ImageHash
	)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		img, err := imaging.Open(path)
		if err != nil {
			return nil, boterrors.Wrap(err, boterrors.KindTemplateLoad, "templates", "decode template").
				WithMetadata("file", path)
		}
		if opts.Dedupe {
			h, err := goimagehash.DifferenceHash(img)
			if err != nil {
				return nil, boterrors.Wrap(err, boterrors.KindTemplateLoad, "templates", "hash template").
					WithMetadata("file", path)
			}
			if dup := nearDuplicate(h, hashes, maxDist); dup >= 0 {
				if opts.Logger != nil {
					opts.Logger.Info("skipping duplicate template", "file", name, "duplicate_of", out[dup].Name)
				}
				continue
			}
			hashes = append(hashes, h)
		}
		gray := FrameFromImage(img)
		edges, err := EdgeFilter(gray, opts.Edges)
		if err != nil {
			return nil, boterrors.Wrap(err, boterrors.KindTemplateLoad, "templates", "edge filter template").
				WithMetadata("file", path)
		}
		out = append(out, &Template{Name: name, Edges: edges})
		if opts.Logger != nil {
			opts.Logger.Debug("template loaded", "file", name, "width", edges.Width, "height", edges.Height)
		}
	}
	if len(out) == 0 {
		return nil, boterrors.New(boterrors.KindTemplateLoad, "templates", "no templates found").
			WithMetadata("dir", dir)
	}
	return out, nil
}

func nearDuplicate(h *goimagehash.ImageHash, seen []*goimagehash.ImageHash, maxDist int) int {
	for i, s := range seen {
		d, err := h.Distance(s)
		if err == nil && d <= maxDist {
			return i
		}
	}
	return -1
}
