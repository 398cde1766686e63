package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderjulianmartinez/rowsearch/internal/check"
	"github.com/alexanderjulianmartinez/rowsearch/internal/config"
	"github.com/alexanderjulianmartinez/rowsearch/internal/events"
	"github.com/alexanderjulianmartinez/rowsearch/internal/search"
	"github.com/alexanderjulianmartinez/rowsearch/internal/source"
	"github.com/alexanderjulianmartinez/rowsearch/internal/source/csvfile"
	"github.com/alexanderjulianmartinez/rowsearch/internal/source/mysql"
	"github.com/alexanderjulianmartinez/rowsearch/internal/source/sqlite"
	"github.com/alexanderjulianmartinez/rowsearch/internal/source/xlsx"
	"github.com/alexanderjulianmartinez/rowsearch/internal/store"
	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

// App wires a loaded config into repositories, the search engine and the
// event publisher.
type App struct {
	cfg       *config.Config
	log       logrus.FieldLogger
	engine    *search.Engine
	publisher events.Publisher

	mu  sync.Mutex
	dbs map[string]*sql.DB
}

func New(cfg *config.Config, log logrus.FieldLogger) (*App, error) {
	var pub events.Publisher = events.Nop{}
	if cfg.Events.Type == config.EventsKafka {
		k, err := events.NewKafka(cfg.Events.Brokers, cfg.Events.Topic)
		if err != nil {
			return nil, fmt.Errorf("events: %w", err)
		}
		pub = k
	}
	return &App{
		cfg:       cfg,
		log:       log,
		engine:    search.New(cfg.Policy(), search.WithLogger(log)),
		publisher: pub,
		dbs:       map[string]*sql.DB{},
	}, nil
}

func (a *App) Engine() *search.Engine {
	return a.engine
}

func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var errs []error
	for key, db := range a.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", key, err))
		}
	}
	a.dbs = map[string]*sql.DB{}
	if err := a.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	return errors.Join(errs...)
}

// db returns a shared handle per driver and DSN.
func (a *App) db(driver, dsn string) (*sql.DB, error) {
	key := driver + ":" + dsn
	a.mu.Lock()
	defer a.mu.Unlock()
	if db, ok := a.dbs[key]; ok {
		return db, nil
	}
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case config.SourceMySQL:
		db, err = mysql.Open(dsn)
	case config.SourceSQLite:
		db, err = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %s", source.ErrUnsupported, driver)
	}
	if err != nil {
		return nil, err
	}
	a.dbs[key] = db
	return db, nil
}

func sqlitePath(src config.SourceConfig) string {
	if src.DSN != "" {
		return src.DSN
	}
	return src.Path
}

// Repository opens the repository for the named table.
func (a *App) Repository(name string) (source.Repository, error) {
	tc, err := a.cfg.Table(name)
	if err != nil {
		return nil, err
	}
	src := tc.Source
	switch src.Type {
	case config.SourceCSV:
		return csvfile.New(tc.Name, csvfile.Options{
			Path:          src.Path,
			Delimiter:     src.DelimiterRune(),
			Encoding:      src.Encoding,
			CreateColumns: src.CreateColumns,
		})
	case config.SourceXLSX:
		return xlsx.New(tc.Name, xlsx.Options{
			Path:          src.Path,
			Sheet:         src.Sheet,
			CreateColumns: src.CreateColumns,
		})
	case config.SourceMySQL:
		db, err := a.db(config.SourceMySQL, src.DSN)
		if err != nil {
			return nil, err
		}
		return mysql.NewRepository(tc.Name, db, src.Table)
	case config.SourceSQLite:
		db, err := a.db(config.SourceSQLite, sqlitePath(src))
		if err != nil {
			return nil, err
		}
		return sqlite.NewRepository(tc.Name, db, src.Table)
	default:
		return nil, fmt.Errorf("%w: %s", source.ErrUnsupported, src.Type)
	}
}

// Inspector returns the schema inspector behind the named table's source.
// CSV files hold a single table and have none.
func (a *App) Inspector(name string) (source.Inspector, error) {
	tc, err := a.cfg.Table(name)
	if err != nil {
		return nil, err
	}
	src := tc.Source
	switch src.Type {
	case config.SourceXLSX:
		return xlsx.New(tc.Name, xlsx.Options{Path: src.Path, Sheet: src.Sheet})
	case config.SourceMySQL:
		db, err := a.db(config.SourceMySQL, src.DSN)
		if err != nil {
			return nil, err
		}
		return mysql.NewInspector(db, src.Schema), nil
	case config.SourceSQLite:
		path := sqlitePath(src)
		db, err := a.db(config.SourceSQLite, path)
		if err != nil {
			return nil, err
		}
		return sqlite.NewInspector(db, path), nil
	default:
		return nil, fmt.Errorf("%w: inspect %s", source.ErrUnsupported, src.Type)
	}
}

// TableNames returns names, or every configured table when names is empty.
func (a *App) TableNames(names []string) []string {
	if len(names) > 0 {
		return names
	}
	all := make([]string, len(a.cfg.Tables))
	for i, t := range a.cfg.Tables {
		all[i] = t.Name
	}
	return all
}

// LoadTables loads the named tables concurrently, in order.
func (a *App) LoadTables(ctx context.Context, names []string) ([]*types.Table, error) {
	names = a.TableNames(names)
	repos := make([]source.Repository, len(names))
	for i, name := range names {
		repo, err := a.Repository(name)
		if err != nil {
			return nil, err
		}
		repos[i] = repo
	}

	tables := make([]*types.Table, len(repos))
	g, ctx := errgroup.WithContext(ctx)
	for i, repo := range repos {
		g.Go(func() error {
			t, err := repo.Load(ctx)
			if err != nil {
				return fmt.Errorf("load %s: %w", repo.Name(), err)
			}
			a.log.WithFields(logrus.Fields{"table": repo.Name(), "rows": t.Len()}).Debug("table loaded")
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func (a *App) Search(ctx context.Context, names []string, term string) ([]*types.MatchResult, error) {
	if strings.TrimSpace(term) == "" {
		a.log.Warn("empty search term matches nothing")
	}
	tables, err := a.LoadTables(ctx, names)
	if err != nil {
		return nil, err
	}
	return a.engine.SearchAll(ctx, tables, term)
}

func (a *App) Append(ctx context.Context, name string, values map[string]any) (types.Row, error) {
	repo, err := a.Repository(name)
	if err != nil {
		return nil, err
	}
	return store.New(repo, a.publisher, a.log).Append(ctx, values)
}

type TableReport struct {
	Table  string
	Report *check.Report
}

// Check loads every table and validates it.
func (a *App) Check(ctx context.Context) ([]TableReport, error) {
	tables, err := a.LoadTables(ctx, nil)
	if err != nil {
		return nil, err
	}
	reports := make([]TableReport, len(tables))
	for i, t := range tables {
		reports[i] = TableReport{Table: t.Name, Report: check.Validate(t)}
	}
	return reports, nil
}
