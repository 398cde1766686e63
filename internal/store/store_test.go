package store

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/rowsearch/internal/events"
	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

type memRepo struct {
	table *types.Table
	saves int
}

func (m *memRepo) Name() string { return "tickets" }

func (m *memRepo) Load(context.Context) (*types.Table, error) {
	return m.table.Clone(), nil
}

func (m *memRepo) Save(_ context.Context, t *types.Table) error {
	m.saves++
	m.table = t.Clone()
	return nil
}

type appendRepo struct {
	memRepo
	appended []types.Row
}

func (a *appendRepo) AppendRow(_ context.Context, _ []string, row types.Row) error {
	a.appended = append(a.appended, row)
	return nil
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func tickets() *types.Table {
	return types.NewTable("tickets", []string{"Ticket", "Circuit", "Status"})
}

func TestAppendSavesWholeTable(t *testing.T) {
	repo := &memRepo{table: tickets()}
	pub := &recordingPublisher{}
	s := New(repo, pub, quietLogger())

	row, err := s.Append(context.Background(), map[string]any{"Ticket": "101", "Circuit": "SPO-1"})
	require.NoError(t, err)

	assert.Equal(t, types.Row{"Ticket": "101", "Circuit": "SPO-1", "Status": nil}, row)
	assert.Equal(t, 1, repo.saves)
	require.Len(t, repo.table.Rows, 1)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "tickets", pub.events[0].Table)
	assert.Equal(t, events.TypeRowAppended, pub.events[0].Type)
}

func TestAppendUsesRowAppender(t *testing.T) {
	repo := &appendRepo{memRepo: memRepo{table: tickets()}}
	s := New(repo, nil, quietLogger())

	_, err := s.Append(context.Background(), map[string]any{"Ticket": "102"})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.saves)
	assert.Len(t, repo.appended, 1)
}

func TestAppendRejectsUnknownColumn(t *testing.T) {
	repo := &memRepo{table: tickets()}
	s := New(repo, nil, quietLogger())

	_, err := s.Append(context.Background(), map[string]any{"Operator": "Oi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRowRejected))
	assert.Equal(t, 0, repo.saves)
}

func TestAppendRejectsBrokenTable(t *testing.T) {
	tbl := types.NewTable("tickets", []string{"Ticket", "Ticket"})
	repo := &memRepo{table: tbl}
	s := New(repo, nil, quietLogger())

	_, err := s.Append(context.Background(), map[string]any{"Ticket": "1"})
	assert.ErrorIs(t, err, ErrRowRejected)
	assert.ErrorContains(t, err, "duplicate_column")
}

func TestPublishFailureDoesNotFailAppend(t *testing.T) {
	log, hook := test.NewNullLogger()
	repo := &memRepo{table: tickets()}
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := New(repo, pub, log)

	_, err := s.Append(context.Background(), map[string]any{"Ticket": "103"})
	require.NoError(t, err)
	assert.Len(t, repo.table.Rows, 1)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.WarnLevel, last.Level)
	assert.Equal(t, "tickets", last.Data["table"])
}
