package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/agrisense/agrisense-be/internal/models"
	"github.com/agrisense/agrisense-be/internal/storage"
)

// CreateQuery stores a contact query with pending status.
func (s *Store) CreateQuery(ctx context.Context, query models.Query) (models.Query, error) {
	const stmt = `
	INSERT INTO queries (user_id, query_subject, query_body, query_date, status)
	VALUES ($1, $2, $3, $4, 'pending')
	RETURNING id, user_id, query_subject, query_body, query_date, status;`
	row := s.db.QueryRow(ctx, stmt, query.UserID, query.Subject, query.Body, query.Date)
	var out models.Query
	if err := row.Scan(&out.ID, &out.UserID, &out.Subject, &out.Body, &out.Date, &out.Status); err != nil {
		return models.Query{}, err
	}
	return out, nil
}

// SaveFeedback upserts a user's feedback; a repost replaces the previous one.
func (s *Store) SaveFeedback(ctx context.Context, feedback models.Feedback) (models.Feedback, error) {
	const stmt = `
	INSERT INTO feedback (user_id, feedback, feedback_date)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id)
	DO UPDATE SET feedback = EXCLUDED.feedback, feedback_date = EXCLUDED.feedback_date
	RETURNING id, user_id, feedback, feedback_date;`
	row := s.db.QueryRow(ctx, stmt, feedback.UserID, feedback.Feedback, feedback.Date)
	var out models.Feedback
	if err := row.Scan(&out.ID, &out.UserID, &out.Feedback, &out.Date); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Feedback{}, storage.ErrNotFound
		}
		return models.Feedback{}, err
	}
	return out, nil
}
