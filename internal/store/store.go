// Package store persists completed analysis runs and their per-fixation
// summaries in sqlite. The aggregation core never touches the store; it is
// an optional output sink behind the CLI's -db flag.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"
)

// Store wraps the results database.
type Store struct {
	*sql.DB
	path string
}

// Open opens (creating if needed) the results database at path and applies
// any pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}

	s := &Store{DB: db, path: path}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenWithoutMigrations opens the database without touching the schema.
// The migrate subcommand uses this so migrations stay under its control.
func OpenWithoutMigrations(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}
	return &Store{DB: db, path: path}, nil
}

// AttachAdminRoutes mounts the tailsql live SQL debugger on the mux under
// the tsweb debug handler. Dev-mode only; the debugger has no auth.
func (s *Store) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://"+s.path, s.DB, &tailsql.DBOptions{
		Label: "Pupil analysis runs",
	})

	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())
}
