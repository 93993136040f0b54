// Package pipeline orchestrates whole-package translation: unpack the
// archive, prune stale metadata, walk the content document, write the
// result back, and repack under a new name. Structural failures
// (archive, JSON, filesystem) abort a job; per-leaf engine failures
// are absorbed by the walker and only surface in its stats.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/h5p-tools/h5pkit/engine"
	"github.com/h5p-tools/h5pkit/h5pfile"
	"github.com/h5p-tools/h5pkit/walker"
)

// Job is one archive translated into one target language.
type Job struct {
	// Input is the source .h5p archive.
	Input string
	// Lang is the target language (BCP-47).
	Lang string
	// Output is the destination archive. Empty means DefaultOutput.
	Output string
}

// DefaultOutput derives the conventional output name for a single
// translation: file.h5p becomes file_translated.h5p.
func DefaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_translated" + ext
}

// LangOutput derives a language-suffixed output name, used when one
// input fans out into several languages: file.h5p becomes file_de.h5p.
func LangOutput(input, lang string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_" + lang + ext
}

// Runner executes translation jobs.
type Runner struct {
	// Translator builds the translate function for a target language.
	Translator func(lang string) (engine.TranslateFunc, error)
	// Walker configures the document walker.
	Walker walker.Options
	// KeepWorkdir leaves the unpacked working directory on disk for
	// debugging.
	KeepWorkdir bool
	// OnLog emits progress messages.
	OnLog func(format string, args ...any)
}

func (r *Runner) logf(format string, args ...any) {
	if r.OnLog != nil {
		r.OnLog(format, args...)
	}
}

// Run executes a single job and returns the walker's stats.
func (r *Runner) Run(ctx context.Context, job Job) (walker.Stats, error) {
	var stats walker.Stats

	if r.Translator == nil {
		return stats, errors.New("pipeline: no translator configured")
	}
	tr, err := r.Translator(job.Lang)
	if err != nil {
		return stats, err
	}

	output := job.Output
	if output == "" {
		output = DefaultOutput(job.Input)
	}

	workdir, err := os.MkdirTemp("", "h5pkit-*")
	if err != nil {
		return stats, fmt.Errorf("create working directory: %w", err)
	}
	if r.KeepWorkdir {
		r.logf("[Info] keeping working directory %s", workdir)
	} else {
		defer os.RemoveAll(workdir)
	}

	r.logf("[Info] unpacking %s", job.Input)
	if err := h5pfile.Unpack(job.Input, workdir); err != nil {
		return stats, err
	}

	meta, err := h5pfile.LoadMeta(workdir)
	if err != nil {
		return stats, err
	}
	if dropped := h5pfile.Prune(meta, workdir); len(dropped) > 0 {
		r.logf("[Info] pruned unavailable libraries: %s", strings.Join(dropped, ", "))
	}

	doc, err := h5pfile.LoadContent(workdir)
	if err != nil {
		return stats, err
	}

	wopts := r.Walker
	if wopts.OnLog == nil {
		wopts.OnLog = r.OnLog
	}
	w := walker.New(tr, wopts)

	r.logf("[Info] translating %s to %s", job.Input, job.Lang)
	stats, err = w.Run(ctx, doc)
	if err != nil {
		return stats, err
	}
	r.logf("[Info] %s: %s", job.Input, stats.Summary())

	if err := h5pfile.SaveContent(workdir, doc); err != nil {
		return stats, err
	}
	h5pfile.SetLanguage(meta, job.Lang)
	if err := h5pfile.SaveMeta(workdir, meta); err != nil {
		return stats, err
	}

	r.logf("[Info] packing %s", output)
	if err := h5pfile.Pack(workdir, output); err != nil {
		return stats, err
	}
	return stats, nil
}

// RunAll executes jobs with at most parallel running at once. A failed
// job does not cancel the others; all failures are joined into the
// returned error.
func (r *Runner) RunAll(ctx context.Context, jobs []Job, parallel int) error {
	if parallel < 1 {
		parallel = 1
	}

	var g errgroup.Group
	g.SetLimit(parallel)

	var mu sync.Mutex
	var failures []error

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := r.Run(ctx, job); err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("%s (%s): %w", job.Input, job.Lang, err))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(failures...)
}
