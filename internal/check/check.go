// Package check loads and validates compiled grammars and grammar definitions in batches,
// and re-checks them on change.
package check

import (
	"context"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava12/bachcg/langdef"
	"github.com/ava12/bachcg/pack"
	"github.com/ava12/bachcg/source"
	"github.com/ava12/bachcg/unpack"
)

// Options controls checking.
type Options struct {
	// Shorthand is used to resolve shorthand-dependent terminal sets.
	Shorthand string

	// Workers limits concurrently checked files, unlimited if not positive.
	Workers int

	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Report is the result of checking a single file.
type Report struct {
	Path   string
	Bytes  int
	States int
	Rules  int

	// Issues found by validation, including warnings.
	Issues []unpack.Issue

	// Err is set if the file cannot be read, compiled, or loaded.
	Err error
}

// OK reports whether the file was loaded and has no validation errors.
func (r *Report) OK() bool {
	if r.Err != nil {
		return false
	}
	for _, issue := range r.Issues {
		if !issue.Warning {
			return false
		}
	}
	return true
}

// ReadGrammar returns compiled grammar bytes of a file.
// Definition files (by extension, see langdef.FormatOf) are parsed and packed,
// other files are read as raw or hex compiled grammars.
func ReadGrammar(path string) ([]byte, error) {
	switch langdef.FormatOf(path) {
	case langdef.YAML, langdef.TOML, langdef.JSON:
		data, e := os.ReadFile(path)
		if e != nil {
			return nil, e
		}
		d, e := langdef.Parse(path, data)
		if e != nil {
			return nil, e
		}
		return pack.Encode(d)

	default:
		src, e := source.ReadFile(path)
		if e != nil {
			return nil, e
		}
		return src.Bytes()
	}
}

// File checks a single file.
func File(path string, opts Options) Report {
	r := Report{Path: path}
	data, e := ReadGrammar(path)
	if e != nil {
		r.Err = e
		return r
	}

	g, e := unpack.Load(data, unpack.WithLogger(opts.logger()))
	if e != nil {
		r.Err = e
		return r
	}

	r.Bytes = len(data)
	r.States = g.NumStates()
	for state := 0; state < r.States; state++ {
		n, _ := g.NumRules(state)
		r.Rules += n
	}
	r.Issues = g.Check(opts.Shorthand)
	return r
}

// Files checks files concurrently and returns reports in order of paths.
// File problems are reported in Report.Err, error is returned only if ctx is done before all files are checked.
func Files(ctx context.Context, paths []string, opts Options) ([]Report, error) {
	reports := make([]Report, len(paths))
	logger := opts.logger()

	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, path := range paths {
		g.Go(func() error {
			if e := gctx.Err(); e != nil {
				return e
			}
			reports[i] = File(path, opts)
			logReport(logger, &reports[i])
			return nil
		})
	}

	if e := g.Wait(); e != nil {
		return nil, e
	}
	return reports, nil
}

func logReport(logger *zap.Logger, r *Report) {
	if r.Err != nil {
		logger.Warn("grammar check failed", zap.String("path", r.Path), zap.Error(r.Err))
		return
	}

	logger.Debug("grammar checked",
		zap.String("path", r.Path),
		zap.Int("bytes", r.Bytes),
		zap.Int("states", r.States),
		zap.Int("rules", r.Rules),
		zap.Int("issues", len(r.Issues)),
	)
}
