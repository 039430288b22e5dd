package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.mongodb.org/mongo-driver/v2/bson"

	"vuelas/api/internal/docstore/migrations"
)

const pgUniqueViolation = "23505"

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres migrates the schema and wraps the pool. Each collection lives in
// its own table (lower-cased collection name) as a jsonb document.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (Store, error) {
	if err := migrate(ctx, pool); err != nil {
		return nil, err
	}
	return &postgresStore{pool: pool}, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *postgresStore) Driver() string { return DriverPostgres }

func (s *postgresStore) Database() string {
	return s.pool.Config().ConnConfig.Database
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *postgresStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func (s *postgresStore) EnsureUnique(ctx context.Context, collection, field string) error {
	if err := validField(field); err != nil {
		return err
	}
	table := tableName(collection)
	query := fmt.Sprintf(
		`CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s ((doc->>'%s'))`,
		pgx.Identifier{table + "_" + strings.ToLower(field) + "_key"}.Sanitize(),
		pgx.Identifier{table}.Sanitize(),
		field,
	)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create index %s.%s: %w", collection, field, err)
	}
	return nil
}

func (s *postgresStore) rawCollection(name string) rawCollection {
	return postgresCollection{
		pool:  s.pool,
		table: pgx.Identifier{tableName(name)}.Sanitize(),
	}
}

func tableName(collection string) string {
	return strings.ToLower(collection)
}

type postgresCollection struct {
	pool  *pgxpool.Pool
	table string
}

func (c postgresCollection) findAll(ctx context.Context) ([]bson.Raw, error) {
	rows, err := c.pool.Query(ctx, `SELECT doc FROM `+c.table+` ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []bson.Raw
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		raw, err := fromJSON(data)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, rows.Err()
}

func (c postgresCollection) findOne(ctx context.Context, field string, value string) (bson.Raw, error) {
	var row pgx.Row
	if field == "_id" {
		row = c.pool.QueryRow(ctx, `SELECT doc FROM `+c.table+` WHERE id = $1`, value)
	} else {
		row = c.pool.QueryRow(ctx, `SELECT doc FROM `+c.table+` WHERE doc->>$1 = $2 ORDER BY created_at LIMIT 1`, field, value)
	}

	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromJSON(data)
}

func (c postgresCollection) insert(ctx context.Context, id string, doc bson.Raw) error {
	data, err := toJSON(doc)
	if err != nil {
		return err
	}
	_, err = c.pool.Exec(ctx, `INSERT INTO `+c.table+` (id, doc) VALUES ($1, $2::jsonb)`, id, data)
	return translatePgError(err)
}

func (c postgresCollection) replace(ctx context.Context, id string, doc bson.Raw) error {
	data, err := toJSON(doc)
	if err != nil {
		return err
	}
	cmd, err := c.pool.Exec(ctx, `UPDATE `+c.table+` SET doc = $2::jsonb WHERE id = $1`, id, data)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (c postgresCollection) delete(ctx context.Context, id string) error {
	cmd, err := c.pool.Exec(ctx, `DELETE FROM `+c.table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

// Documents are kept as relaxed extended JSON so dates and numbers survive the
// trip through jsonb with their bson types.
func toJSON(doc bson.Raw) ([]byte, error) {
	var d bson.D
	if err := bson.Unmarshal(doc, &d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	data, err := bson.MarshalExtJSON(d, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode extjson: %w", err)
	}
	return data, nil
}

func fromJSON(data []byte) (bson.Raw, error) {
	var d bson.D
	if err := bson.UnmarshalExtJSON(data, false, &d); err != nil {
		return nil, fmt.Errorf("decode extjson: %w", err)
	}
	raw, err := bson.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return bson.Raw(raw), nil
}
