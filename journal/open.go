package journal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Source is a ledger that also needs closing.
type Source interface {
	Ledger
	Close() error
}

type csvSource struct {
	*CSVLedger
}

func (csvSource) Close() error { return nil }

// OpenSQLite opens an existing SQLite journal. Unlike NewSQLite it does
// not create a missing file, so a mistyped ledger path is an error rather
// than an empty ledger.
func OpenSQLite(path string) (*SQLite, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("sqlite journal %s: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("sqlite journal %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("sqlite journal %s: is a directory", path)
	}
	return NewSQLite(path)
}

// Open returns the ledger named by kind: "sqlite" (path is an existing
// file), "csv" (path is a file) or "postgres" (path is a DSN).
func Open(ctx context.Context, kind, path string) (Source, error) {
	if path == "" {
		return nil, fmt.Errorf("journal %s: path is required", kind)
	}
	switch kind {
	case "sqlite":
		j, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return j, nil
	case "csv":
		return csvSource{NewCSVLedger(path)}, nil
	case "postgres":
		p, err := NewPostgres(ctx, path)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q (want sqlite, csv or postgres)", kind)
	}
}

// OpenJournal returns a writable journal for kind. Postgres tables are
// created when missing. CSV files are written by NewCSV, which truncates,
// so they are not offered here.
func OpenJournal(ctx context.Context, kind, path string) (Journal, error) {
	if path == "" {
		return nil, fmt.Errorf("journal %s: path is required", kind)
	}
	switch kind {
	case "sqlite":
		j, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		return j, nil
	case "postgres":
		p, err := NewPostgres(ctx, path)
		if err != nil {
			return nil, err
		}
		if err := p.Migrate(ctx); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("journal type %q is not writable (want sqlite or postgres)", kind)
	}
}
