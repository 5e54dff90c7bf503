package models

import "time"

type PublishHistory struct {
	ID           int64             `db:"id" json:"id"`
	UserID       string            `db:"user_id" json:"user_id"`
	SessionID    string            `db:"session_id" json:"session_id"`
	Service      ConnectionService `db:"service" json:"service"`
	AssetKey     string            `db:"asset_key" json:"asset_key"`
	PublishID    string            `db:"publish_id" json:"publish_id"`
	Status       string            `db:"status" json:"status"`
	ErrorMessage string            `db:"error_message" json:"error_message"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
}

const (
	PublishStatusPublished = "published"
	PublishStatusFailed    = "failed"
)
