package search

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

// Engine scans tables for a term. It holds no per-search state and is safe for
// concurrent use.
type Engine struct {
	policy    Policy
	normalize func(string) string
	log       logrus.FieldLogger
}

type Option func(*Engine)

func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

func New(policy Policy, opts ...Option) *Engine {
	if policy == "" {
		policy = PolicyLower
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	e := &Engine{
		policy:    policy,
		normalize: policy.normalizer(),
		log:       discard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New(PolicyLower)

// Search returns the rows of t with at least one cell containing term, using
// the lowercase policy.
func Search(t *types.Table, term string) *types.MatchResult {
	return defaultEngine.Search(t, term)
}

// Highlight reports whether value contains term under the lowercase policy.
func Highlight(value, term string) bool {
	return defaultEngine.Highlight(value, term)
}

func (e *Engine) Policy() Policy {
	return e.policy
}

func (e *Engine) normalizeTerm(term string) string {
	return e.normalize(strings.TrimSpace(term))
}

func (e *Engine) Search(t *types.Table, term string) *types.MatchResult {
	res := &types.MatchResult{Term: term}
	if t == nil {
		return res
	}
	res.Table = t.Name
	res.Columns = append([]string(nil), t.Columns...)

	needle := e.normalizeTerm(term)
	if needle == "" {
		return res
	}

	for i, row := range t.Rows {
		var matched map[string]bool
		for _, col := range t.Columns {
			text, err := types.CellText(row[col])
			if err != nil {
				e.log.WithFields(logrus.Fields{
					"table":  t.Name,
					"row":    i,
					"column": col,
				}).WithError(err).Debug("skipping cell")
				continue
			}
			if !strings.Contains(e.normalize(text), needle) {
				continue
			}
			if matched == nil {
				matched = map[string]bool{}
			}
			matched[col] = true
		}
		if matched != nil {
			res.Rows = append(res.Rows, types.MatchedRow{Index: i, Row: row, Matched: matched})
		}
	}
	return res
}

func (e *Engine) Highlight(value, term string) bool {
	needle := e.normalizeTerm(term)
	if needle == "" {
		return false
	}
	return strings.Contains(e.normalize(value), needle)
}

// SearchAll searches every table concurrently. Results are returned in the
// order of tables.
func (e *Engine) SearchAll(ctx context.Context, tables []*types.Table, term string) ([]*types.MatchResult, error) {
	results := make([]*types.MatchResult, len(tables))
	g, ctx := errgroup.WithContext(ctx)
	for i, t := range tables {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.Search(t, term)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
