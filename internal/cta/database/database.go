// Package database stores domestic futures bars in a DuckDB file.
package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

// FileName is the database file inside the workspace data directory.
const FileName = "database.duckdb"

const (
	barTable  = "bar_data"
	batchSize = 500
)

var barColumns = []string{"id", "symbol", "exchange", "timespan", "time", "open", "high", "low", "close", "volume", "open_interest"}

// Overview summarizes the stored bars of one symbol at one interval.
type Overview struct {
	Symbol   string
	Exchange string
	Interval marketdata.Timespan
	Count    int
	Start    time.Time
	End      time.Time
}

// Database is a bar store keyed by symbol, exchange, interval and bar time.
type Database struct {
	db     *sql.DB
	sq     squirrel.StatementBuilderType
	logger *logger.Logger
}

// Open creates the file and its table when missing.
func Open(path string, log *logger.Logger) (*Database, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to create database directory for %s", path)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to open database %s", path)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS bar_data (
			id TEXT,
			symbol TEXT NOT NULL,
			exchange TEXT NOT NULL,
			timespan TEXT NOT NULL,
			time TIMESTAMP NOT NULL,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE,
			open_interest DOUBLE,
			PRIMARY KEY (symbol, exchange, timespan, time)
		)
	`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeIOFailed, "failed to create bar table", err)
	}

	return &Database{
		db:     db,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		logger: log,
	}, nil
}

// SaveBars upserts bars, replacing any bar stored at the same key.
func (d *Database) SaveBars(ctx context.Context, bars []marketdata.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIOFailed, "failed to begin transaction", err)
	}

	for start := 0; start < len(bars); start += batchSize {
		end := min(start+batchSize, len(bars))

		insert := d.sq.Insert(barTable).Options("OR REPLACE").Columns(barColumns...)
		for _, b := range bars[start:end] {
			insert = insert.Values(
				uuid.New().String(), b.Symbol, b.Exchange, string(b.Interval), b.Time.UTC(),
				b.Open, b.High, b.Low, b.Close, b.Volume, b.OpenInterest,
			)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			tx.Rollback()

			return errors.Wrap(errors.ErrCodeInternal, "failed to build insert", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			tx.Rollback()

			return errors.Wrap(errors.ErrCodeIOFailed, "failed to save bars", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeIOFailed, "failed to commit bars", err)
	}

	d.logger.Debug("bars saved", zap.Int("count", len(bars)), zap.String("symbol", bars[0].Symbol))

	return nil
}

// LoadBars returns the bars of symbol inside r, oldest first.
func (d *Database) LoadBars(ctx context.Context, symbol, exchange string, interval marketdata.Timespan, r marketdata.Range) ([]marketdata.Bar, error) {
	where := squirrel.And{
		squirrel.Eq{"symbol": symbol},
		squirrel.Eq{"exchange": exchange},
		squirrel.Eq{"timespan": string(interval)},
		squirrel.GtOrEq{"time": r.Start.UTC()},
	}

	if r.End.IsSome() {
		where = append(where, squirrel.Lt{"time": r.End.Unwrap().AddDate(0, 0, 1).UTC()})
	}

	query, args, err := d.sq.
		Select(barColumns[1:]...).
		From(barTable).
		Where(where).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err)
	}
	defer rows.Close()

	var bars []marketdata.Bar

	for rows.Next() {
		var (
			b        marketdata.Bar
			timespan string
		)

		err := rows.Scan(&b.Symbol, &b.Exchange, &timespan, &b.Time, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.OpenInterest)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar", err)
		}

		b.Interval = marketdata.Timespan(timespan)
		bars = append(bars, b)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read bars", err)
	}

	return bars, nil
}

// Overview lists every stored symbol and interval with its bar count and time span.
func (d *Database) Overview(ctx context.Context) ([]Overview, error) {
	query, args, err := d.sq.
		Select("symbol", "exchange", "timespan", "COUNT(*)", "MIN(time)", "MAX(time)").
		From(barTable).
		GroupBy("symbol", "exchange", "timespan").
		OrderBy("symbol", "exchange", "timespan").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to build query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query overview", err)
	}
	defer rows.Close()

	var out []Overview

	for rows.Next() {
		var (
			o        Overview
			timespan string
			count    int64
		)

		if err := rows.Scan(&o.Symbol, &o.Exchange, &timespan, &count, &o.Start, &o.End); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan overview", err)
		}

		o.Interval = marketdata.Timespan(timespan)
		o.Count = int(count)
		out = append(out, o)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read overview", err)
	}

	return out, nil
}

func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}
