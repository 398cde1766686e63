package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/alexanderjulianmartinez/rowsearch/internal/check"
	"github.com/alexanderjulianmartinez/rowsearch/internal/events"
	"github.com/alexanderjulianmartinez/rowsearch/internal/source"
	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

var ErrRowRejected = errors.New("row rejected")

// Store appends rows to a repository: load, validate, append, save, then
// announce the new row.
type Store struct {
	repo      source.Repository
	publisher events.Publisher
	log       logrus.FieldLogger
}

func New(repo source.Repository, publisher events.Publisher, log logrus.FieldLogger) *Store {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Store{repo: repo, publisher: publisher, log: log.WithField("table", repo.Name())}
}

func (s *Store) Load(ctx context.Context) (*types.Table, error) {
	return s.repo.Load(ctx)
}

func (s *Store) Append(ctx context.Context, values map[string]any) (types.Row, error) {
	t, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.repo.Name(), err)
	}

	row, err := t.NewRow(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRowRejected, err)
	}
	if rep := check.ValidateRow(t, row); rep.Blocking() {
		var msgs []string
		for _, iss := range rep.Issues {
			if iss.Severity == check.SeverityBlock {
				msgs = append(msgs, fmt.Sprintf("%s %q: %s", iss.Kind, iss.Column, iss.Message))
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrRowRejected, strings.Join(msgs, "; "))
	}

	if appender, ok := s.repo.(source.RowAppender); ok {
		err = appender.AppendRow(ctx, t.Columns, row)
	} else {
		t.Rows = append(t.Rows, row)
		err = s.repo.Save(ctx, t)
	}
	if err != nil {
		return nil, fmt.Errorf("append to %s: %w", s.repo.Name(), err)
	}
	s.log.Info("row appended")

	if err := s.publisher.Publish(ctx, events.RowAppended(s.repo.Name(), row)); err != nil {
		s.log.WithError(err).Warn("publish row_appended event")
	}
	return row, nil
}
