package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/clipstudio/internal/models"
)

type PublishHistoryRepository interface {
	Create(ctx context.Context, ph *models.PublishHistory) (int64, error)
	GetBySessionID(ctx context.Context, sessionID string) (*models.PublishHistory, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.PublishHistory, error)
	RemoveOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type publishHistoryRepository struct {
	db *sql.DB
}

func NewPublishHistoryRepository(db *sql.DB) PublishHistoryRepository {
	return &publishHistoryRepository{db: db}
}

func (r *publishHistoryRepository) Create(ctx context.Context, ph *models.PublishHistory) (int64, error) {
	query := `
		INSERT INTO publish_history (user_id, session_id, service, asset_key, publish_id, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		ph.UserID,
		ph.SessionID,
		ph.Service,
		ph.AssetKey,
		ph.PublishID,
		ph.Status,
		ph.ErrorMessage,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *publishHistoryRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.PublishHistory, error) {
	query := `
		SELECT id, user_id, session_id, service, asset_key, publish_id, status, error_message, created_at
		FROM publish_history
		WHERE session_id = $1
	`
	row := r.db.QueryRowContext(ctx, query, sessionID)

	var ph models.PublishHistory
	err := row.Scan(&ph.ID, &ph.UserID, &ph.SessionID, &ph.Service, &ph.AssetKey,
		&ph.PublishID, &ph.Status, &ph.ErrorMessage, &ph.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &ph, nil
}

func (r *publishHistoryRepository) ListByUserID(ctx context.Context, userID string) ([]*models.PublishHistory, error) {
	query := `
		SELECT id, user_id, session_id, service, asset_key, publish_id, status, error_message, created_at
		FROM publish_history
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var history []*models.PublishHistory
	for rows.Next() {
		var ph models.PublishHistory
		err := rows.Scan(&ph.ID, &ph.UserID, &ph.SessionID, &ph.Service, &ph.AssetKey,
			&ph.PublishID, &ph.Status, &ph.ErrorMessage, &ph.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		history = append(history, &ph)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return history, nil
}

func (r *publishHistoryRepository) RemoveOlderThan(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM publish_history WHERE created_at < $1`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return affected, nil
}
