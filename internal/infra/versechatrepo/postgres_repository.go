package versechatrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/mannadev/scriptura/internal/domain/versechat"
)

// PostgresRepository implements versechat.QuestionRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindExact fetches by literal question text.
func (r *PostgresRepository) FindExact(ctx context.Context, question string) (versechat.QuestionRecord, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question_text, reference
		FROM verse_questions
		WHERE question_text = $1
		LIMIT 1
	`, question)
	if err != nil {
		return versechat.QuestionRecord{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return versechat.QuestionRecord{}, false, rows.Err()
	}
	record, err := scanQuestionRecord(rows)
	if err != nil {
		return versechat.QuestionRecord{}, false, err
	}
	return record, true, rows.Err()
}

// FindNearest returns the closest pgvector match.
func (r *PostgresRepository) FindNearest(ctx context.Context, embedding []float32) (versechat.SimilarityMatch, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, question_text, reference, embedding <-> $1 AS distance
		FROM verse_questions
		ORDER BY embedding <-> $1
		LIMIT 1
	`, pgvector.NewVector(embedding))
	if err != nil {
		return versechat.SimilarityMatch{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return versechat.SimilarityMatch{}, false, rows.Err()
	}
	var distance float64
	record, err := scanQuestionRecord(rows, &distance)
	if err != nil {
		return versechat.SimilarityMatch{}, false, err
	}
	match := versechat.SimilarityMatch{Question: record, Distance: distance}
	return match, true, rows.Err()
}

// InsertQuestion inserts a new question row.
func (r *PostgresRepository) InsertQuestion(ctx context.Context, question, reference string, embedding []float32) (versechat.QuestionRecord, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO verse_questions (question_text, reference, embedding)
		VALUES ($1, $2, $3)
		RETURNING id, question_text, reference
	`, question, reference, pgvector.NewVector(embedding))
	return scanQuestionRecord(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestionRecord(row rowScanner, extras ...any) (versechat.QuestionRecord, error) {
	var record versechat.QuestionRecord
	args := []any{&record.ID, &record.QuestionText, &record.Reference}
	args = append(args, extras...)
	if err := row.Scan(args...); err != nil {
		return versechat.QuestionRecord{}, err
	}
	return record, nil
}

var _ versechat.QuestionRepository = (*PostgresRepository)(nil)
