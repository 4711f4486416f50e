package migrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"vendor-booking/internal/infra/db"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/jackc/pgx/v5"
)

// Conn is satisfied by *pgxpool.Pool.
type Conn interface {
	db.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

const migrationLockKey = "schema_migrations"

// Files lists the .sql files at the root of fsys in apply order.
func Files(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// Up applies every file of fsys not yet recorded in schema_migrations. Each file runs in
// its own transaction together with its bookkeeping row.
func Up(ctx context.Context, conn Conn, fsys fs.FS, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	files, err := Files(fsys)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMPTZ NOT NULL DEFAULT now())`); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied []string
	for _, f := range files {
		ok, err := applyFile(ctx, conn, fsys, f)
		if err != nil {
			return applied, err
		}
		if ok {
			logger.Info("migration applied", "file", f)
			applied = append(applied, f)
		}
	}
	return applied, nil
}

func applyFile(ctx context.Context, conn Conn, fsys fs.FS, name string) (bool, error) {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Warn("migration rollback failed", "file", name, "error", rbErr.Error())
		}
	}()

	// concurrent migrators queue here and then see the version already recorded
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, migrationLockKey); err != nil {
		return false, err
	}

	var done bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version=$1)`, name).Scan(&done); err != nil {
		return false, err
	}
	if done {
		return false, nil
	}

	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return false, err
	}
	if _, err := tx.Exec(ctx, string(b)); err != nil {
		return false, fmt.Errorf("apply %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations(version) VALUES ($1)`, name); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

// AtlasOptions drives the atlas CLI instead of the builtin runner. DirURL must point at
// a directory hashed with `atlas migrate hash`.
type AtlasOptions struct {
	Binary string
	DirURL string
	URL    string
}

func UpWithAtlas(ctx context.Context, opts AtlasOptions, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Binary == "" {
		opts.Binary = "atlas"
	}
	if opts.DirURL == "" {
		opts.DirURL = "file://migrations"
	}

	client, err := atlasexec.NewClient(".", opts.Binary)
	if err != nil {
		return nil, fmt.Errorf("init atlas client: %w", err)
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    opts.URL,
		DirURL: opts.DirURL,
	})
	if err != nil {
		return nil, fmt.Errorf("atlas migrate apply: %w", err)
	}

	applied := make([]string, 0, len(res.Applied))
	for _, f := range res.Applied {
		applied = append(applied, f.Name)
	}
	logger.Info("atlas migrations applied", "count", len(applied), "current", res.Current, "target", res.Target)
	return applied, nil
}
