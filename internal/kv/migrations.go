package kv

import (
	"cmp"
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migration is one numbered schema step read from migrations/NNN_name.sql.
type migration struct {
	version int
	name    string
	sql     string
}

func (m migration) String() string {
	return fmt.Sprintf("%03d_%s", m.version, m.name)
}

// migrator brings the kv schema up to date, one transaction per step.
type migrator struct {
	db     *sql.DB
	fsys   fs.ReadDirFS
	logger *log.Logger
}

func newMigrator(db *sql.DB, logger *log.Logger) *migrator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &migrator{db: db, fsys: migrationsFS, logger: logger.WithPrefix("kv")}
}

// up applies every pending migration in version order and returns the ones
// it applied. Already recorded versions are skipped.
func (m *migrator) up(ctx context.Context) ([]migration, error) {
	if _, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return nil, fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	all, err := loadMigrations(m.fsys)
	if err != nil {
		return nil, err
	}
	done, err := m.recorded(ctx)
	if err != nil {
		return nil, err
	}

	var applied []migration
	for _, mig := range all {
		if done[mig.version] {
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return applied, err
		}
		m.logger.Info("applied migration", "version", mig.version, "name", mig.name)
		applied = append(applied, mig)
	}

	if len(applied) == 0 {
		m.logger.Debug("schema up to date", "version", latestVersion(all))
	}
	return applied, nil
}

func (m *migrator) recorded(ctx context.Context) (map[int]bool, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	versions := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		versions[v] = true
	}
	return versions, rows.Err()
}

func (m *migrator) apply(ctx context.Context, mig migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration %s: %w", mig, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, mig.sql); err != nil {
		return fmt.Errorf("migration %s: %w", mig, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, mig.version, mig.name); err != nil {
		return fmt.Errorf("migration %s: record: %w", mig, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migration %s: commit: %w", mig, err)
	}
	return nil
}

func latestVersion(all []migration) int {
	if len(all) == 0 {
		return 0
	}
	return all[len(all)-1].version
}

// loadMigrations reads the .sql files under migrations/ sorted by version.
func loadMigrations(fsys fs.ReadDirFS) ([]migration, error) {
	entries, err := fsys.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var out []migration
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		version, name, err := parseMigrationFilename(entry.Name())
		if err != nil {
			return nil, err
		}
		content, err := fs.ReadFile(fsys, path.Join("migrations", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}
		out = append(out, migration{version: version, name: name, sql: string(content)})
	}

	slices.SortFunc(out, func(a, b migration) int { return cmp.Compare(a.version, b.version) })
	for i := 1; i < len(out); i++ {
		if out[i].version == out[i-1].version {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", out[i].version, out[i-1], out[i])
		}
	}
	return out, nil
}

func parseMigrationFilename(filename string) (int, string, error) {
	version, name, ok := strings.Cut(strings.TrimSuffix(filename, path.Ext(filename)), "_")
	if !ok || name == "" {
		return 0, "", fmt.Errorf("invalid migration filename %q: want <version>_<name>.sql", filename)
	}
	v, err := strconv.Atoi(version)
	if err != nil {
		return 0, "", fmt.Errorf("invalid migration version in %q: %w", filename, err)
	}
	return v, name, nil
}
