package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Options names the tables the Store reads from.
type Options struct {
	StationsTable     string
	ObservationsTable string
	StationColumn     string
	MaxRows           int
}

// Store reads raw station and observation rows from Postgres. It never
// writes; rows are returned as loosely typed maps, the same shape the HTTP
// upstream produces, so they go through the same normalizer.
type Store struct {
	pool *pgxpool.Pool
	opts Options
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string, opts Options) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, opts: opts}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Stations returns every row of the stations table.
func (s *Store) Stations(ctx context.Context) (any, error) {
	sql := stationsSQL(s.opts)
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scan stations: %w", err)
	}
	return toPayload(records), nil
}

// Historical returns up to MaxRows observation rows for one station.
func (s *Store) Historical(ctx context.Context, stationID string) (any, error) {
	sql := historicalSQL(s.opts)
	args := []any{stationID}
	if s.opts.MaxRows > 0 {
		args = append(args, s.opts.MaxRows)
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scan observations: %w", err)
	}
	return toPayload(records), nil
}

func stationsSQL(opts Options) string {
	return "SELECT * FROM " + tableIdent(opts.StationsTable)
}

func historicalSQL(opts Options) string {
	sql := "SELECT * FROM " + tableIdent(opts.ObservationsTable) +
		" WHERE " + pgx.Identifier{opts.StationColumn}.Sanitize() + " = $1"
	if opts.MaxRows > 0 {
		sql += " LIMIT $2"
	}
	return sql
}

// tableIdent quotes an optionally schema-qualified table name.
func tableIdent(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

// toPayload converts scanned rows into the []any / map[string]any shape of
// decoded JSON.
func toPayload(records []map[string]any) []any {
	out := make([]any, 0, len(records))
	for _, rec := range records {
		row := make(map[string]any, len(rec))
		for k, v := range rec {
			row[k] = jsonValue(v)
		}
		out = append(out, row)
	}
	return out
}

func jsonValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(x).String()
	case []byte:
		return string(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}
