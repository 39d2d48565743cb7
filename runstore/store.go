package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/katalvlaran/supermode/runstore/migrations"
)

// Status is the outcome of a run.
type Status string

const (
	StatusDone   Status = "done"
	StatusFailed Status = "failed"
)

// Run is one stored propagation.
type Run struct {
	ID        string
	CreatedAt time.Time
	Method    string
	Length    float64
	MaxStep   float64
	Coupling  bool
	Status    Status
	Samples   int
	Error     string

	// Distance and Amplitudes ([mode][sample]) are filled by Get only.
	Distance   []float64
	Amplitudes [][]complex128
}

// payload is the JSON form of a trajectory.
type payload struct {
	Distance []number   `json:"distance"`
	Re       [][]number `json:"re"`
	Im       [][]number `json:"im"`
}

// number is a float64 whose non-finite values are written as the strings
// "NaN", "+Inf" and "-Inf"; a failed run may end on such a sample.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return json.Marshal(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return json.Marshal(f)
}

func (n *number) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = number(f)
	return nil
}

// Store is a SQLite-backed run history.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies
// pending migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// migrate runs every *.up.sql whose numeric prefix is above the current
// schema version. Each migration records its own version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			upFiles = append(upFiles, e.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	return nil
}

// Save stores run and returns its id. A missing ID is generated and a zero
// CreatedAt is set to now.
func (s *Store) Save(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	p := payload{Distance: make([]number, len(run.Distance))}
	for j, z := range run.Distance {
		p.Distance[j] = number(z)
	}
	for _, amps := range run.Amplitudes {
		re := make([]number, len(amps))
		im := make([]number, len(amps))
		for j, v := range amps {
			re[j], im[j] = number(real(v)), number(imag(v))
		}
		p.Re = append(p.Re, re)
		p.Im = append(p.Im, im)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshalling trajectory: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, method, length, max_step, coupling, status, samples, error, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt, run.Method, run.Length, run.MaxStep, run.Coupling,
		string(run.Status), len(run.Distance), nullString(run.Error), string(raw))
	if err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}
	return run.ID, nil
}

// Get returns the run with its trajectory.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, method, length, max_step, coupling, status, samples, error, payload
		FROM runs WHERE id = ?
	`, id)

	var raw string
	run, err := scanRun(row, &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("unmarshalling trajectory: %w", err)
	}
	run.Distance = make([]float64, len(p.Distance))
	for j, z := range p.Distance {
		run.Distance[j] = float64(z)
	}
	for i := range p.Re {
		amps := make([]complex128, len(p.Re[i]))
		for j := range amps {
			amps[j] = complex(float64(p.Re[i][j]), float64(p.Im[i][j]))
		}
		run.Amplitudes = append(run.Amplitudes, amps)
	}
	return run, nil
}

// List returns every run, newest first, without trajectories.
func (s *Store) List(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, method, length, max_step, coupling, status, samples, error, ''
		FROM runs ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		var ignored string
		run, err := scanRun(rows, &ignored)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner, raw *string) (*Run, error) {
	var run Run
	var status string
	var createdAt sql.NullTime
	var errText sql.NullString
	if err := sc.Scan(&run.ID, &createdAt, &run.Method, &run.Length, &run.MaxStep,
		&run.Coupling, &status, &run.Samples, &errText, raw); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		run.CreatedAt = createdAt.Time
	}
	run.Status = Status(status)
	run.Error = errText.String
	return &run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
