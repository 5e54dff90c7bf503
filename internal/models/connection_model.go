package models

import (
	"errors"
	"fmt"
	"time"
)

type ConnectionService string

const (
	ConnectionTiktok  ConnectionService = "tiktok"
	ConnectionYoutube ConnectionService = "youtube"
	ConnectionTwitch  ConnectionService = "twitch"
)

// SupportedConnections is the closed set of services a user can link.
var SupportedConnections = []ConnectionService{
	ConnectionTiktok,
	ConnectionYoutube,
	ConnectionTwitch,
}

var ErrUnsupportedConnection = errors.New("unsupported connection type")

func ParseConnectionService(value string) (ConnectionService, error) {
	for _, service := range SupportedConnections {
		if string(service) == value {
			return service, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedConnection, value)
}

type Connection struct {
	UserID       string            `json:"user_id"`
	Service      ConnectionService `json:"service"`
	AccountID    string            `json:"account_id"`
	DisplayName  string            `json:"display_name"`
	AccessToken  string            `json:"access_token,omitempty"`
	RefreshToken string            `json:"refresh_token,omitempty"`
	TokenType    string            `json:"token_type,omitempty"`
	ExpiresAt    time.Time         `json:"expires_at"`
	CreatedAt    time.Time         `json:"created_at"`
}

type AllowedConnection struct {
	Service   ConnectionService `json:"service"`
	Allowed   bool              `json:"allowed"`
	Connected bool              `json:"connected"`
	Account   string            `json:"account,omitempty"`
}
