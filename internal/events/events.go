package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

const TypeRowAppended = "row_appended"

type Event struct {
	ID    string    `json:"id"`
	Type  string    `json:"type"`
	Table string    `json:"table"`
	Row   types.Row `json:"row"`
	At    time.Time `json:"at"`
}

func RowAppended(table string, row types.Row) Event {
	return Event{
		ID:    uuid.NewString(),
		Type:  TypeRowAppended,
		Table: table,
		Row:   row,
		At:    time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error { return nil }
