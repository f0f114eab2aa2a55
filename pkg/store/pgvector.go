package store

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/askready/askready/internal/models"
)

type VectorStoreConfig struct {
	ConnString string
	TableName  string
	VectorDim  int
	BatchSize  int
}

// VectorStore keeps one embedding record per chunk in a pgvector table and
// answers cosine nearest-neighbor queries. The vector dimension is fixed
// for the lifetime of the table.
type VectorStore struct {
	config VectorStoreConfig
	pool   *pgxpool.Pool
}

func NewWithConfig(ctx context.Context, config VectorStoreConfig) (*VectorStore, error) {
	if config.TableName == "" {
		config.TableName = "disaster_prep"
	}
	if config.VectorDim < 1 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", config.VectorDim)
	}
	if config.BatchSize == 0 {
		config.BatchSize = 100
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	vs := &VectorStore{
		config: config,
		pool:   pool,
	}

	if err := vs.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return vs, nil
}

func (vs *VectorStore) initialize(ctx context.Context) error {
	_, err := vs.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %v", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT,
			source TEXT NOT NULL,
			content TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			start_offset INTEGER NOT NULL,
			end_offset INTEGER NOT NULL,
			fetched_at TIMESTAMPTZ,
			embedding vector(%d)
		)`, vs.config.TableName, vs.config.VectorDim)

	_, err = vs.pool.Exec(ctx, createTable)
	if err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		vs.config.TableName, vs.config.TableName)

	_, err = vs.pool.Exec(ctx, createIndex)
	if err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}

	return nil
}

// Upsert writes records in one transaction, keyed by chunk id so that
// re-ingesting a page replaces its chunks instead of duplicating them.
func (vs *VectorStore) Upsert(ctx context.Context, records []models.EmbeddingRecord) error {
	tx, err := vs.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, url, title, source, content,
			chunk_index, start_offset, end_offset, fetched_at, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			start_offset = EXCLUDED.start_offset,
			end_offset = EXCLUDED.end_offset,
			fetched_at = EXCLUDED.fetched_at,
			embedding = EXCLUDED.embedding`,
		vs.config.TableName)

	for _, rec := range records {
		if len(rec.Vector) != vs.config.VectorDim {
			return fmt.Errorf("record %s has dimension %d, collection expects %d",
				rec.Chunk.ID, len(rec.Vector), vs.config.VectorDim)
		}

		ch := rec.Chunk
		_, err = tx.Exec(ctx, stmt,
			ch.ID,
			ch.DocumentID,
			ch.URL,
			sanitizeUTF8(ch.Title),
			ch.SourceName,
			sanitizeUTF8(ch.Text),
			ch.Index,
			ch.StartOffset,
			ch.EndOffset,
			ch.FetchedAt,
			pgvector.NewVector(rec.Vector),
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %v", ch.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

// Search returns up to k records by descending cosine similarity. Equal
// scores come back in whatever order pgvector produces them.
func (vs *VectorStore) Search(ctx context.Context, vector []float32, k int) ([]models.SearchResult, error) {
	if len(vector) != vs.config.VectorDim {
		return nil, fmt.Errorf("query vector has dimension %d, collection expects %d",
			len(vector), vs.config.VectorDim)
	}

	query := fmt.Sprintf(`
		SELECT id, document_id, url, title, source, content,
			chunk_index, start_offset, end_offset, fetched_at,
			1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`,
		vs.config.TableName)

	rows, err := vs.pool.Query(ctx, query, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %v", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var res models.SearchResult
		var score float64
		err := rows.Scan(
			&res.Chunk.ID,
			&res.Chunk.DocumentID,
			&res.Chunk.URL,
			&res.Chunk.Title,
			&res.Chunk.SourceName,
			&res.Chunk.Text,
			&res.Chunk.Index,
			&res.Chunk.StartOffset,
			&res.Chunk.EndOffset,
			&res.Chunk.FetchedAt,
			&score,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		res.Score = float32(score)
		results = append(results, res)
	}

	return results, rows.Err()
}

func (vs *VectorStore) Count(ctx context.Context) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", vs.config.TableName)
	if err := vs.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %v", err)
	}
	return count, nil
}

func (vs *VectorStore) Dimension() int {
	return vs.config.VectorDim
}

func (vs *VectorStore) Close() {
	if vs.pool != nil {
		vs.pool.Close()
	}
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
