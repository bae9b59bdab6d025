package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/docstore"
	"github.com/khoahotran/folio/pkg/logger"
)

const documentsTable = "documents"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postgresStore struct {
	db     *pgxpool.Pool
	logger logger.Logger
	clock  *docstore.Clock
}

// NewPostgresStore keeps every collection in the single jsonb table created by
// migrations/000001_documents.up.sql.
func NewPostgresStore(db *pgxpool.Pool, logger logger.Logger) docstore.Store {
	return &postgresStore{db: db, logger: logger, clock: docstore.NewClock(nil)}
}

func (s *postgresStore) Collection(name string) docstore.Collection {
	return &postgresCollection{store: s, name: name}
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *postgresStore) Close(context.Context) error {
	s.db.Close()
	return nil
}

type postgresCollection struct {
	store *postgresStore
	name  string
}

func scanDocument(row pgx.Row) (docstore.Document, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, err
	}
	doc := docstore.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	doc[docstore.FieldID] = id
	return doc, nil
}

func toJSON(v any) (string, error) {
	if v == nil {
		return "{}", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (c *postgresCollection) Get(ctx context.Context, id string) (docstore.Document, error) {
	sql, args, err := psql.Select("id", "data").
		From(documentsTable).
		Where(sq.Eq{"collection": c.name, "id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanDocument(c.store.db.QueryRow(ctx, sql, args...))
}

func (c *postgresCollection) Find(ctx context.Context, filter docstore.Filter) ([]docstore.Document, error) {
	match, err := toJSON(filter)
	if err != nil {
		return nil, err
	}
	sql, args, err := psql.Select("id", "data").
		From(documentsTable).
		Where(sq.Eq{"collection": c.name}).
		Where("data @> ?::jsonb", match).
		OrderBy("COALESCE(data->>'createdAt', '')", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := c.store.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]docstore.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (c *postgresCollection) Insert(ctx context.Context, doc docstore.Document) (docstore.Document, error) {
	id := docstore.NewID()
	stored := docstore.WritableFields(doc)
	stored[docstore.FieldCreatedAt] = c.store.clock.Stamp()

	data, err := toJSON(stored)
	if err != nil {
		return nil, err
	}
	sql, args, err := psql.Insert(documentsTable).
		Columns("collection", "id", "data").
		Values(c.name, id, sq.Expr("?::jsonb", data)).
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := c.store.db.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, docstore.ErrConflict
		}
		return nil, err
	}

	stored[docstore.FieldID] = id
	return stored, nil
}

func (c *postgresCollection) Merge(ctx context.Context, id string, fields docstore.Document) error {
	stamp := c.store.clock.Stamp()
	patch := docstore.WritableFields(fields)
	patch[docstore.FieldUpdatedAt] = stamp
	patch[docstore.FieldCreatedAt] = stamp

	data, err := toJSON(patch)
	if err != nil {
		return err
	}
	// createdAt only lands on first insert
	sql, args, err := psql.Insert(documentsTable).
		Columns("collection", "id", "data").
		Values(c.name, id, sq.Expr("?::jsonb", data)).
		Suffix("ON CONFLICT (collection, id) DO UPDATE SET data = " + documentsTable + ".data || (EXCLUDED.data - 'createdAt')").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := c.store.db.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return docstore.ErrConflict
		}
		return err
	}
	return nil
}

func (c *postgresCollection) Update(ctx context.Context, id string, fields docstore.Document, guard docstore.Filter) error {
	patch := docstore.WritableFields(fields)
	patch[docstore.FieldUpdatedAt] = c.store.clock.Stamp()

	data, err := toJSON(patch)
	if err != nil {
		return err
	}
	match, err := toJSON(guard)
	if err != nil {
		return err
	}
	sql, args, err := psql.Update(documentsTable).
		Set("data", sq.Expr("data || ?::jsonb", data)).
		Where(sq.Eq{"collection": c.name, "id": id}).
		Where("data @> ?::jsonb", match).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := c.store.db.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return docstore.ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (c *postgresCollection) Delete(ctx context.Context, id string, guard docstore.Filter) error {
	match, err := toJSON(guard)
	if err != nil {
		return err
	}
	sql, args, err := psql.Delete(documentsTable).
		Where(sq.Eq{"collection": c.name, "id": id}).
		Where("data @> ?::jsonb", match).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := c.store.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		c.store.logger.Debug("Delete matched no document", zap.String("collection", c.name), zap.String("id", id))
		return docstore.ErrNotFound
	}
	return nil
}
