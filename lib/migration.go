package lib

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var historyMigrations embed.FS

const (
	createMigrationsTableSQL = "CREATE TABLE IF NOT EXISTS migrations (name TEXT PRIMARY KEY, applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now())"
	migrationAppliedSQL      = "SELECT EXISTS (SELECT 1 FROM migrations WHERE name = $1)"
	recordMigrationSQL       = "INSERT INTO migrations (name) VALUES ($1)"
)

type Migration struct {
	Name    string
	UpSQL   string
	DownSQL string
}

// HistoryMigrations returns the migrations that create the history schema.
func HistoryMigrations() ([]*Migration, error) {
	return ReadMigrations(historyMigrations, "migrations")
}

// ReadMigrations loads NAME.up.sql / NAME.down.sql pairs from dir, sorted by
// name.
func ReadMigrations(fsys fs.FS, dir string) ([]*Migration, error) {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	migrations := map[string]*Migration{}

	withMigration := func(name string) *Migration {
		m, ok := migrations[name]
		if !ok {
			m = &Migration{
				Name: name,
			}
			migrations[name] = m
		}
		return m
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		bytes, err := fs.ReadFile(fsys, path.Join(dir, file.Name()))
		if err != nil {
			return nil, err
		}

		name, isUp := parseMigrationFileName(file.Name())
		migration := withMigration(name)
		if isUp {
			migration.UpSQL = string(bytes)
		} else {
			migration.DownSQL = string(bytes)
		}
	}

	keys := []string{}
	for k := range migrations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []*Migration{}
	for _, k := range keys {
		result = append(result, migrations[k])
	}
	return result, nil
}

func parseMigrationFileName(fileName string) (string, bool) {
	return getMigrationName(fileName), getUpness(fileName)
}

func getMigrationName(fileName string) string {
	dotParts := strings.Split(fileName, ".")
	return dotParts[0]
}

func getUpness(fileName string) bool {
	return !strings.HasSuffix(fileName, ".down.sql")
}

// RunMigrations applies every migration not yet recorded in the migrations
// table. Each one runs in its own transaction. It returns the names applied.
func RunMigrations(ctx context.Context, db *sql.DB, migrations []*Migration) ([]string, error) {
	if err := requireMigrationsTable(ctx, db); err != nil {
		return nil, err
	}

	applied := []string{}
	for _, migration := range migrations {
		done, err := execMigration(ctx, db, migration)
		if err != nil {
			return applied, fmt.Errorf("migration %s: %w", migration.Name, describePQError(err))
		}
		if done {
			applied = append(applied, migration.Name)
		}
	}

	return applied, nil
}

func requireMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, createMigrationsTableSQL)
	return describePQError(err)
}

func execMigration(ctx context.Context, db *sql.DB, migration *Migration) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, migrationAppliedSQL, migration.Name).Scan(&exists)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if strings.TrimSpace(migration.UpSQL) != "" {
		if _, err = tx.ExecContext(ctx, migration.UpSQL); err != nil {
			return false, err
		}
	}

	if _, err = tx.ExecContext(ctx, recordMigrationSQL, migration.Name); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// describePQError adds the SQLSTATE condition name to postgres errors.
func describePQError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%w (%s)", err, pqErr.Code.Name())
	}
	return err
}
