package store

import (
	"cmp"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/pbaille/skycat/internal/domain"
)

//go:embed schema.sql
var schema string

var (
	ErrNotFound  = errors.New("object not found")
	ErrAmbiguous = errors.New("id prefix matches more than one object")
	ErrDuplicate = errors.New("object with this name and number already exists")
)

const objectColumns = `id, name, number,
	ra_hours, ra_minutes, ra_seconds,
	dec_negative, dec_degrees, dec_minutes, dec_seconds,
	object_type, spectral_type, b_magnitude, v_magnitude, r_magnitude,
	comment, created_at`

// Store is a SQLite-backed catalog of celestial objects
type Store struct {
	db *sql.DB
}

// Match is a catalog object found near a position
type Match struct {
	Object domain.CelestialObject `json:"object"`
	// Separation is the great-circle distance in arc-seconds.
	Separation float64 `json:"separation_arcsec"`
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// AddObject inserts obj under a fresh ID and returns the stored copy
func (s *Store) AddObject(obj *domain.CelestialObject) (*domain.CelestialObject, error) {
	stored := *obj
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now()

	_, err := s.db.Exec(
		"INSERT INTO objects ("+objectColumns+", ra_arcsec, dec_arcsec) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		objectArgs(&stored)...,
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return nil, fmt.Errorf("insert object %s/%d: %w", stored.Name, stored.Number, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("insert object: %w", err)
	}
	return &stored, nil
}

// UpsertObject inserts obj, or updates the existing row with the same name
// and number, and returns the stored copy
func (s *Store) UpsertObject(obj *domain.CelestialObject) (*domain.CelestialObject, error) {
	stored := *obj
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now()

	_, err := s.db.Exec(
		"INSERT INTO objects ("+objectColumns+", ra_arcsec, dec_arcsec) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"+`
		ON CONFLICT(name, number) DO UPDATE SET
			ra_hours = excluded.ra_hours,
			ra_minutes = excluded.ra_minutes,
			ra_seconds = excluded.ra_seconds,
			dec_negative = excluded.dec_negative,
			dec_degrees = excluded.dec_degrees,
			dec_minutes = excluded.dec_minutes,
			dec_seconds = excluded.dec_seconds,
			ra_arcsec = excluded.ra_arcsec,
			dec_arcsec = excluded.dec_arcsec,
			object_type = excluded.object_type,
			spectral_type = excluded.spectral_type,
			b_magnitude = excluded.b_magnitude,
			v_magnitude = excluded.v_magnitude,
			r_magnitude = excluded.r_magnitude,
			comment = excluded.comment`,
		objectArgs(&stored)...,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert object: %w", err)
	}

	row := s.db.QueryRow(
		"SELECT "+objectColumns+" FROM objects WHERE name = ? AND number = ?",
		stored.Name, stored.Number,
	)
	return scanObject(row)
}

func objectArgs(o *domain.CelestialObject) []any {
	return []any{
		o.ID, o.Name, o.Number,
		o.RA.Hours(), o.RA.Minutes(), o.RA.Seconds(),
		o.Dec.Negative(), o.Dec.Degrees(), o.Dec.Minutes(), o.Dec.Seconds(),
		o.Type, o.SpectralType, o.BMagnitude, o.VMagnitude, o.RMagnitude,
		o.Comment, o.CreatedAt,
		o.RA.ArcSeconds(), o.Dec.ArcSeconds(),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanObject reads one row and re-validates its coordinates.
func scanObject(row rowScanner) (*domain.CelestialObject, error) {
	var (
		o                   domain.CelestialObject
		raHours, raMinutes  int
		raSeconds           float64
		decNegative         bool
		decDegrees, decMins int
		decSeconds          float64
	)
	err := row.Scan(
		&o.ID, &o.Name, &o.Number,
		&raHours, &raMinutes, &raSeconds,
		&decNegative, &decDegrees, &decMins, &decSeconds,
		&o.Type, &o.SpectralType, &o.BMagnitude, &o.VMagnitude, &o.RMagnitude,
		&o.Comment, &o.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan object: %w", err)
	}

	if o.RA, err = domain.NewRA(raHours, raMinutes, raSeconds); err != nil {
		return nil, fmt.Errorf("object %s: %w", o.ID, err)
	}
	if o.Dec, err = domain.NewDec(decNegative, decDegrees, decMins, decSeconds); err != nil {
		return nil, fmt.Errorf("object %s: %w", o.ID, err)
	}
	return &o, nil
}

func scanObjects(rows *sql.Rows) ([]domain.CelestialObject, error) {
	defer rows.Close()

	var objects []domain.CelestialObject
	for rows.Next() {
		o, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		objects = append(objects, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate objects: %w", err)
	}
	return objects, nil
}

// GetObject retrieves an object by ID
func (s *Store) GetObject(id string) (*domain.CelestialObject, error) {
	row := s.db.QueryRow("SELECT "+objectColumns+" FROM objects WHERE id = ?", id)
	o, err := scanObject(row)
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", id, err)
	}
	return o, nil
}

// ResolveID expands a unique ID prefix to the full ID
func (s *Store) ResolveID(prefix string) (string, error) {
	if prefix == "" {
		return "", ErrNotFound
	}
	rows, err := s.db.Query("SELECT id FROM objects WHERE id LIKE ? || '%' LIMIT 2", prefix)
	if err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", ErrNotFound
	case 1:
		return ids[0], nil
	default:
		return "", ErrAmbiguous
	}
}

// ListObjects returns objects in the given ordering with pagination.
// A limit of zero or less returns everything from offset on.
func (s *Store) ListObjects(limit, offset int, order domain.Ordering, radius float64) ([]domain.CelestialObject, error) {
	if offset < 0 {
		offset = 0
	}

	if order == domain.OrderPosition {
		// The error-box comparison has no SQL equivalent; sort in memory.
		rows, err := s.db.Query("SELECT " + objectColumns + " FROM objects ORDER BY ra_arcsec, dec_arcsec, name")
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		objects, err := scanObjects(rows)
		if err != nil {
			return nil, err
		}
		domain.Sort(objects, order.Compare(radius))
		return paginate(objects, limit, offset), nil
	}

	column := map[domain.Ordering]string{
		domain.OrderB: "b_magnitude",
		domain.OrderV: "v_magnitude",
		domain.OrderR: "r_magnitude",
	}[order]
	if column == "" {
		return nil, fmt.Errorf("list objects: unknown ordering %v", order)
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(
		"SELECT "+objectColumns+" FROM objects ORDER BY "+column+", name LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}
	return scanObjects(rows)
}

func paginate(objects []domain.CelestialObject, limit, offset int) []domain.CelestialObject {
	if offset >= len(objects) {
		return nil
	}
	objects = objects[offset:]
	if limit > 0 && limit < len(objects) {
		objects = objects[:limit]
	}
	return objects
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// SearchObjects performs a simple text search over name, type and comment
func (s *Store) SearchObjects(query string) ([]domain.CelestialObject, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"
	rows, err := s.db.Query(
		"SELECT "+objectColumns+` FROM objects
		WHERE name LIKE ? ESCAPE '\' OR object_type LIKE ? ESCAPE '\' OR comment LIKE ? ESCAPE '\'
		ORDER BY name, number`,
		pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search objects: %w", err)
	}
	return scanObjects(rows)
}

// FindNear returns the objects inside the square error box of the given
// radius (arc-seconds) around ra/dec, closest first.
func (s *Store) FindNear(ra domain.RA, dec domain.Dec, radius float64) ([]Match, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("find near: radius must be positive, got %v", radius)
	}
	center := domain.CelestialObject{RA: ra, Dec: dec}
	raAS, decAS := ra.ArcSeconds(), dec.ArcSeconds()

	rows, err := s.db.Query(
		"SELECT "+objectColumns+` FROM objects
		WHERE ra_arcsec > ? AND ra_arcsec < ? AND dec_arcsec > ? AND dec_arcsec < ?`,
		raAS-radius, raAS+radius, decAS-radius, decAS+radius,
	)
	if err != nil {
		return nil, fmt.Errorf("find near: %w", err)
	}
	objects, err := scanObjects(rows)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(objects))
	for i := range objects {
		if !domain.Within(&center, &objects[i], radius) {
			continue
		}
		matches = append(matches, Match{
			Object:     objects[i],
			Separation: domain.Separation(&center, &objects[i]),
		})
	}
	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(a.Separation, b.Separation)
	})
	return matches, nil
}

// DeleteObject removes an object by ID
func (s *Store) DeleteObject(id string) error {
	res, err := s.db.Exec("DELETE FROM objects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete object %s: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of objects in the catalog
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM objects").Scan(&n); err != nil {
		return 0, fmt.Errorf("count objects: %w", err)
	}
	return n, nil
}
