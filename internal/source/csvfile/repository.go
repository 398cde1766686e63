package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/alexanderjulianmartinez/rowsearch/internal/source"
	"github.com/alexanderjulianmartinez/rowsearch/pkg/types"
)

type Options struct {
	Path      string
	Delimiter rune
	// Encoding is one of utf-8 (default), iso-8859-1 or windows-1252.
	Encoding string
	// CreateColumns is the header used when Path does not exist yet.
	CreateColumns []string
}

type Repository struct {
	name string
	opts Options
	enc  encoding.Encoding
}

func New(name string, opts Options) (*Repository, error) {
	if opts.Path == "" {
		return nil, errors.New("csv path is required")
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	return &Repository{name: name, opts: opts, enc: enc}, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported csv encoding: %s", name)
	}
}

func (r *Repository) Name() string {
	return r.name
}

func (r *Repository) Load(ctx context.Context) (*types.Table, error) {
	f, err := os.Open(r.opts.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && len(r.opts.CreateColumns) > 0 {
			return types.NewTable(r.name, r.opts.CreateColumns), nil
		}
		return nil, fmt.Errorf("open csv %s: %w", r.opts.Path, err)
	}
	defer f.Close()

	var in io.Reader = f
	if r.enc != nil {
		in = transform.NewReader(f, r.enc.NewDecoder())
	}
	return r.decode(ctx, in)
}

func (r *Repository) decode(ctx context.Context, in io.Reader) (*types.Table, error) {
	cr := csv.NewReader(in)
	cr.Comma = r.opts.Delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		if len(r.opts.CreateColumns) > 0 {
			return types.NewTable(r.name, r.opts.CreateColumns), nil
		}
		return types.NewTable(r.name, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t := types.NewTable(r.name, header)

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		row := make(types.Row, len(header))
		for i, col := range header {
			if i < len(rec) && rec[i] != "" {
				row[col] = rec[i]
			} else {
				row[col] = nil
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Save writes the table to a temporary file next to Path and renames it over
// the existing file, keeping its permissions.
func (r *Repository) Save(ctx context.Context, t *types.Table) error {
	dir := filepath.Dir(r.opts.Path)
	tmp, err := os.CreateTemp(dir, ".rowsearch-*.csv")
	if err != nil {
		return fmt.Errorf("create temp csv: %w", err)
	}
	defer os.Remove(tmp.Name())

	var out io.Writer = tmp
	var tw *transform.Writer
	if r.enc != nil {
		tw = transform.NewWriter(tmp, r.enc.NewEncoder())
		out = tw
	}
	if err := r.encode(ctx, out, t); err != nil {
		tmp.Close()
		return err
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			tmp.Close()
			return fmt.Errorf("encode csv: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp csv: %w", err)
	}
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(r.opts.Path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("chmod temp csv: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.opts.Path); err != nil {
		return fmt.Errorf("replace csv %s: %w", r.opts.Path, err)
	}
	return nil
}

func (r *Repository) encode(ctx context.Context, out io.Writer, t *types.Table) error {
	cw := csv.NewWriter(out)
	cw.Comma = r.opts.Delimiter
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i, col := range t.Columns {
			text, err := types.CellText(row[col])
			if err != nil {
				return fmt.Errorf("write column %s: %w", col, err)
			}
			rec[i] = text
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var _ source.Repository = (*Repository)(nil)
