// Package sqldb keeps element records and built matrices in a postgres
// or mysql database.
package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/ohowland/ybus_core/internal/pkg/model"
)

// Supported drivers
const (
	Postgres = "postgres"
	MySQL    = "mysql"
)

// Open opens and pings a database
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if driver != Postgres && driver != MySQL {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// rebind rewrites ? placeholders to $n for postgres
func rebind(driver, query string) string {
	if driver != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func tables(driver string) []string {
	text := "TEXT"
	if driver == MySQL {
		text = "LONGTEXT"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS element_records(
			area_id VARCHAR(128) NOT NULL,
			category VARCHAR(64) NOT NULL,
			fields ` + text + ` NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS ybus_results(
			area_id VARCHAR(128) PRIMARY KEY,
			ybus ` + text + ` NOT NULL,
			summary ` + text + ` NOT NULL)`,
	}
}

// InitDB creates the tables when missing
func InitDB(ctx context.Context, db *sql.DB, driver string) error {
	for _, stmt := range tables(driver) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Source implements model.Source over the element_records table
type Source struct {
	db     *sql.DB
	driver string
}

func NewSource(db *sql.DB, driver string) *Source {
	return &Source{db: db, driver: driver}
}

func (s *Source) Records(ctx context.Context, areaID string, c model.Category) ([]model.Record, error) {
	q := rebind(s.driver, `SELECT fields FROM element_records WHERE area_id = ? AND category = ?`)
	rows, err := s.db.QueryContext(ctx, q, areaID, string(c))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Record{}
	for rows.Next() {
		var fields string
		if err := rows.Scan(&fields); err != nil {
			return nil, err
		}
		r := model.Record{}
		if err := json.Unmarshal([]byte(fields), &r); err != nil {
			return nil, fmt.Errorf("%v record for %v: %w", c, areaID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Put inserts records of one category for an area
func (s *Source) Put(ctx context.Context, areaID string, c model.Category, records ...model.Record) error {
	q := rebind(s.driver, `INSERT INTO element_records (area_id, category, fields) VALUES (?, ?, ?)`)
	for _, r := range records {
		fields, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if _, err := s.db.ExecContext(ctx, q, areaID, string(c), string(fields)); err != nil {
			return err
		}
	}
	return nil
}
