package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jtdaniels/QA3/internal/quiz"
)

const adminUsername = "admin"

// PostgresStore implements QuestionStore and CredentialStore over a
// pgx pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema creates the tables on first run.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS questions (
			id BIGSERIAL PRIMARY KEY,
			category TEXT NOT NULL,
			question_text TEXT NOT NULL,
			option_a TEXT NOT NULL,
			option_b TEXT NOT NULL,
			option_c TEXT NOT NULL,
			option_d TEXT NOT NULL,
			correct_answer TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS admin (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_digest TEXT NOT NULL
		)
	`)
	return err
}

// EnsureAdmin provisions the single admin record with the given digest
// when no record exists yet. Safe to call on every startup.
func (s *PostgresStore) EnsureAdmin(ctx context.Context, digest string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO admin (username, password_digest)
		VALUES ($1, $2)
		ON CONFLICT (username) DO NOTHING
	`, adminUsername, digest)
	return err
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT category FROM questions ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateQuestion(ctx context.Context, in QuestionInput) (QuestionRow, error) {
	var r QuestionRow
	var createdAt time.Time

	err := s.db.QueryRow(ctx, `
		INSERT INTO questions (category, question_text, option_a, option_b, option_c, option_d, correct_answer)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, category, question_text, option_a, option_b, option_c, option_d, correct_answer, created_at
	`, in.Category, in.Text, in.OptionA, in.OptionB, in.OptionC, in.OptionD, in.Correct).Scan(
		&r.ID, &r.Category, &r.Text, &r.OptionA, &r.OptionB, &r.OptionC, &r.OptionD, &r.Correct, &createdAt,
	)
	if err != nil {
		return QuestionRow{}, err
	}
	r.CreatedAt = createdAt.Format(time.RFC3339)
	return r, nil
}

func (s *PostgresStore) ListQuestions(ctx context.Context, category string) ([]QuestionRow, error) {
	q := `
		SELECT id, category, question_text, option_a, option_b, option_c, option_d, correct_answer, created_at
		FROM questions
	`
	args := []interface{}{}
	if category != "" {
		q += ` WHERE category = $1`
		args = append(args, category)
	}
	q += ` ORDER BY id`

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]QuestionRow, 0)
	for rows.Next() {
		var r QuestionRow
		var createdAt time.Time
		if err := rows.Scan(&r.ID, &r.Category, &r.Text, &r.OptionA, &r.OptionB, &r.OptionC, &r.OptionD, &r.Correct, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt = createdAt.Format(time.RFC3339)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateQuestion(ctx context.Context, id int64, in QuestionInput) (QuestionRow, error) {
	var r QuestionRow
	var createdAt time.Time

	err := s.db.QueryRow(ctx, `
		UPDATE questions
		SET category = $2, question_text = $3, option_a = $4, option_b = $5,
		    option_c = $6, option_d = $7, correct_answer = $8
		WHERE id = $1
		RETURNING id, category, question_text, option_a, option_b, option_c, option_d, correct_answer, created_at
	`, id, in.Category, in.Text, in.OptionA, in.OptionB, in.OptionC, in.OptionD, in.Correct).Scan(
		&r.ID, &r.Category, &r.Text, &r.OptionA, &r.OptionB, &r.OptionC, &r.OptionD, &r.Correct, &createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return QuestionRow{}, quiz.ErrNotFound
	}
	if err != nil {
		return QuestionRow{}, err
	}
	r.CreatedAt = createdAt.Format(time.RFC3339)
	return r, nil
}

func (s *PostgresStore) DeleteQuestion(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return quiz.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetAdminDigest(ctx context.Context) (string, error) {
	var digest string
	err := s.db.QueryRow(ctx, `
		SELECT password_digest FROM admin WHERE username = $1
	`, adminUsername).Scan(&digest)
	if err != nil {
		return "", err
	}
	return digest, nil
}

func (s *PostgresStore) UpdateAdminDigest(ctx context.Context, digest string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE admin SET password_digest = $2 WHERE username = $1
	`, adminUsername, digest)
	return err
}
