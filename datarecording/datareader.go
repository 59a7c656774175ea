package datarecording

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ErrTableNotMapped is returned when a table is queried before MapTable.
var ErrTableNotMapped = errors.New("table not mapped")

// QueryParams narrows down and orders the rows returned by a query.
type QueryParams struct {
	// Where is a condition without the WHERE keyword, for example
	// "RunID = ? AND Status = ?".
	Where string

	// Args fill the placeholders of Where.
	Args []any

	// OrderBy lists the sort keys without the ORDER BY keywords.
	OrderBy string

	// Limit caps the number of rows returned. Zero means no cap.
	Limit int

	// Offset skips rows. It is only used together with Limit.
	Offset int
}

func (p QueryParams) where() string {
	if p.Where == "" {
		return ""
	}

	return " WHERE " + p.Where
}

func (p QueryParams) window() string {
	var b strings.Builder

	if p.OrderBy != "" {
		b.WriteString(" ORDER BY " + p.OrderBy)
	}

	if p.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", p.Limit)

		if p.Offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", p.Offset)
		}
	}

	return b.String()
}

// DataReader reads back the tables written by a DataRecorder.
type DataReader interface {
	// MapTable binds a table to the struct type its rows are decoded into.
	// Columns are matched to fields by name.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the mapped tables.
	ListTables() []string

	// HasTable tells if the database holds the table.
	HasTable(ctx context.Context, tableName string) (bool, error)

	// Query returns the matching rows as pointers to the mapped struct type,
	// together with the number of rows matching params.Where.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	// Close closes the database.
	Close() error
}

// Select runs a query on a table mapped to T and returns the rows by value.
func Select[T any](
	ctx context.Context,
	reader DataReader,
	tableName string,
	params QueryParams,
) ([]T, error) {
	results, _, err := reader.Query(ctx, tableName, params)
	if err != nil {
		return nil, err
	}

	rows := make([]T, 0, len(results))
	for _, r := range results {
		row, ok := r.(*T)
		if !ok {
			return nil, fmt.Errorf("table %s is mapped to %T, not %T",
				tableName, r, row)
		}

		rows = append(rows, *row)
	}

	return rows, nil
}

// tableMapping decodes the rows of one table.
type tableMapping struct {
	structType reflect.Type
	fields     map[string]int
}

func newTableMapping(sampleEntry any) tableMapping {
	t := reflect.TypeOf(sampleEntry)
	if t == nil || t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("can only map tables to structs, got %T", sampleEntry))
	}

	m := tableMapping{structType: t, fields: make(map[string]int)}
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			m.fields[t.Field(i).Name] = i
		}
	}

	return m
}

func (m tableMapping) decode(rows *sql.Rows) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []any

	for rows.Next() {
		entry := reflect.New(m.structType)
		targets := make([]any, len(columns))

		for i, col := range columns {
			idx, ok := m.fields[col]
			if !ok {
				targets[i] = new(any)
				continue
			}

			targets[i] = entry.Elem().Field(idx).Addr().Interface()
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, entry.Interface())
	}

	return results, rows.Err()
}

type sqliteReader struct {
	*sql.DB

	tables map[string]tableMapping
}

// NewReader opens an SQLite file written by a DataRecorder.
func NewReader(dbFilename string) DataReader {
	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		panic(err)
	}

	return NewReaderWithDB(db)
}

// NewReaderWithDB creates a DataReader over an open database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		DB:     db,
		tables: make(map[string]tableMapping),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	r.tables[tableName] = newTableMapping(sampleEntry)
}

func (r *sqliteReader) ListTables() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *sqliteReader) HasTable(
	ctx context.Context,
	tableName string,
) (bool, error) {
	var n int

	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		tableName).Scan(&n)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	mapping, ok := r.tables[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrTableNotMapped, tableName)
	}

	var total int

	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+tableName+params.where(),
		params.Args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting rows of %s: %w", tableName, err)
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT * FROM "+tableName+params.where()+params.window(),
		params.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying %s: %w", tableName, err)
	}
	defer rows.Close()

	results, err := mapping.decode(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", tableName, err)
	}

	return results, total, nil
}

func (r *sqliteReader) Close() error {
	return r.DB.Close()
}
