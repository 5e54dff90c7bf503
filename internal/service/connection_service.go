package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/maheshrc27/clipstudio/internal/models"
	"golang.org/x/oauth2"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrNoConnectionList = errors.New("auth api returned no connection list")
)

// ConnectionStore is the system of record for linked accounts.
type ConnectionStore interface {
	CreateConnection(ctx context.Context, userID string, service models.ConnectionService, code, redirectURL string) error
	DeleteConnection(ctx context.Context, userID string, service models.ConnectionService) error
	ListConnections(ctx context.Context, userID string) ([]models.Connection, error)
	Token(ctx context.Context, userID string, service models.ConnectionService) (*oauth2.Token, error)
}

type ConnectionService interface {
	Create(ctx context.Context, userID, connectionType, code, redirectURL string) error
	Delete(ctx context.Context, userID, connectionType string) error
	ListAllowed(ctx context.Context, userID string) ([]models.AllowedConnection, error)
}

type connectionService struct {
	store   ConnectionStore
	allowed []models.ConnectionService
}

func NewConnectionService(store ConnectionStore, allowed []models.ConnectionService) ConnectionService {
	return &connectionService{
		store:   store,
		allowed: allowed,
	}
}

func (s *connectionService) Create(ctx context.Context, userID, connectionType, code, redirectURL string) error {
	if userID == "" {
		return errUserRequired()
	}

	service, err := models.ParseConnectionService(connectionType)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if code == "" || redirectURL == "" {
		err = fmt.Errorf("%w: code and redirectUrl are required", ErrValidation)
		slog.Info(err.Error())
		return err
	}

	if !slices.Contains(s.allowed, service) {
		err = fmt.Errorf("%w: %s connections are not enabled", ErrValidation, service)
		slog.Info(err.Error())
		return err
	}

	if err := s.store.CreateConnection(ctx, userID, service, code, redirectURL); err != nil {
		return fmt.Errorf("unable to create %s connection: %w", service, err)
	}
	return nil
}

func (s *connectionService) Delete(ctx context.Context, userID, connectionType string) error {
	if userID == "" {
		return errUserRequired()
	}

	service, err := models.ParseConnectionService(connectionType)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if err := s.store.DeleteConnection(ctx, userID, service); err != nil {
		return fmt.Errorf("unable to delete %s connection: %w", service, err)
	}
	return nil
}

func (s *connectionService) ListAllowed(ctx context.Context, userID string) ([]models.AllowedConnection, error) {
	if userID == "" {
		return nil, errUserRequired()
	}

	connections, err := s.store.ListConnections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("unable to list connections: %w", err)
	}
	if connections == nil {
		return nil, ErrNoConnectionList
	}

	linked := make(map[models.ConnectionService]models.Connection, len(connections))
	for _, c := range connections {
		linked[c.Service] = c
	}

	result := make([]models.AllowedConnection, 0, len(models.SupportedConnections))
	for _, service := range models.SupportedConnections {
		c, ok := linked[service]
		result = append(result, models.AllowedConnection{
			Service:   service,
			Allowed:   slices.Contains(s.allowed, service),
			Connected: ok,
			Account:   c.DisplayName,
		})
	}
	return result, nil
}

func errUserRequired() error {
	err := fmt.Errorf("%w: user id is required", ErrValidation)
	slog.Info(err.Error())
	return err
}
