package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/accessmodel-admin/internal"
	"github.com/frahmantamala/accessmodel-admin/pkg/metrics"
	"github.com/jmoiron/sqlx"
)

// Gateway executes SQL against the warehouse. It never retries and never caches;
// every failure comes back as a query error.
type Gateway interface {
	Query(ctx context.Context, stmt Statement) (*Table, error)
	Exec(ctx context.Context, stmt Statement) (int64, error)
	Ping(ctx context.Context) error
}

type SQLGateway struct {
	db      *sqlx.DB
	timeout time.Duration
	logger  *slog.Logger
}

func NewSQLGateway(db *sqlx.DB, timeout time.Duration, logger *slog.Logger) *SQLGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLGateway{
		db:      db,
		timeout: timeout,
		logger:  logger,
	}
}

// Open connects to the warehouse with the given driver and verifies the connection.
func Open(driver string, cfg internal.WarehouseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect(driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	return db, nil
}

func (g *SQLGateway) Query(ctx context.Context, stmt Statement) (*Table, error) {
	ctx, cancel := internal.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	table, err := g.query(ctx, stmt)
	g.observe(stmt, err, time.Since(start))
	if err != nil {
		return nil, internal.NewQueryError(stmt.Name, err)
	}
	return table, nil
}

func (g *SQLGateway) query(ctx context.Context, stmt Statement) (*Table, error) {
	rows, err := g.db.QueryxContext(ctx, g.db.Rebind(stmt.SQL), stmt.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := &Table{Columns: columns, Rows: make([]Row, 0)}
	for rows.Next() {
		raw := make(map[string]interface{}, len(columns))
		if err := rows.MapScan(raw); err != nil {
			return nil, err
		}
		row := make(Row, len(raw))
		for k, v := range raw {
			row[k] = normalize(v)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

func (g *SQLGateway) Exec(ctx context.Context, stmt Statement) (int64, error) {
	ctx, cancel := internal.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	res, err := g.db.ExecContext(ctx, g.db.Rebind(stmt.SQL), stmt.Args...)
	g.observe(stmt, err, time.Since(start))
	if err != nil {
		return 0, internal.NewQueryError(stmt.Name, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		// some warehouse drivers cannot report affected rows
		return -1, nil
	}
	return affected, nil
}

func (g *SQLGateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

func (g *SQLGateway) observe(stmt Statement, err error, latency time.Duration) {
	metrics.ObserveQuery(stmt.Name, err, latency)
	if err != nil {
		g.logger.Error("warehouse statement failed",
			"statement", stmt.Name,
			"duration_ms", latency.Milliseconds(),
			"error", err)
		return
	}
	g.logger.Debug("warehouse statement executed",
		"statement", stmt.Name,
		"duration_ms", latency.Milliseconds())
}
