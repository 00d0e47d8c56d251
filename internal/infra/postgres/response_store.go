package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-analytics-service/internal/domain"
)

// ResponseStore persists responses in the responses table. Answers, times
// and stats are JSONB documents.
type ResponseStore struct {
	pool *pgxpool.Pool
}

func NewResponseStore(pool *pgxpool.Pool) *ResponseStore {
	return &ResponseStore{pool: pool}
}

const responseColumns = `id, quiz_id, nickname, email, answers, times, stats, total_time, submitted_at`

func (s *ResponseStore) Save(ctx context.Context, r domain.Response) error {
	answers, err := json.Marshal(r.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	times, err := json.Marshal(r.Times)
	if err != nil {
		return fmt.Errorf("marshal times: %w", err)
	}
	stats, err := json.Marshal(r.Stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO responses (`+responseColumns+`)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7::jsonb, $8, $9)
		 ON CONFLICT (id) DO NOTHING`,
		r.ID, r.QuizID, r.Nickname, r.Email, string(answers), string(times), string(stats), r.TotalTime, r.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

func (s *ResponseStore) Get(ctx context.Context, quizID, responseID string) (domain.Response, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+responseColumns+` FROM responses WHERE quiz_id=$1 AND id=$2`, quizID, responseID)
	r, err := scanResponse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Response{}, domain.ErrResponseNotFound
	}
	return r, err
}

func (s *ResponseStore) List(ctx context.Context, quizID string) ([]domain.Response, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+responseColumns+` FROM responses WHERE quiz_id=$1 ORDER BY submitted_at, id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	out := []domain.Response{}
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ResponseStore) Delete(ctx context.Context, quizID, responseID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM responses WHERE quiz_id=$1 AND id=$2`, quizID, responseID)
	if err != nil {
		return fmt.Errorf("delete response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrResponseNotFound
	}
	return nil
}

func scanResponse(row pgx.Row) (domain.Response, error) {
	var (
		r                     domain.Response
		answers, times, stats []byte
	)
	if err := row.Scan(&r.ID, &r.QuizID, &r.Nickname, &r.Email, &answers, &times, &stats, &r.TotalTime, &r.SubmittedAt); err != nil {
		return domain.Response{}, err
	}
	if err := json.Unmarshal(answers, &r.Answers); err != nil {
		return domain.Response{}, fmt.Errorf("response %s answers: %w", r.ID, err)
	}
	if err := json.Unmarshal(times, &r.Times); err != nil {
		return domain.Response{}, fmt.Errorf("response %s times: %w", r.ID, err)
	}
	if err := json.Unmarshal(stats, &r.Stats); err != nil {
		return domain.Response{}, fmt.Errorf("response %s stats: %w", r.ID, err)
	}
	r.SubmittedAt = r.SubmittedAt.UTC()
	return r, nil
}
