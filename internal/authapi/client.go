// Package authapi talks to the external identity service that owns users'
// linked third-party accounts.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/maheshrc27/clipstudio/internal/models"
	"golang.org/x/oauth2"
)

var ErrConnectionNotFound = errors.New("connection not found")

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

type createConnectionRequest struct {
	Code        string `json:"code"`
	RedirectURL string `json:"redirect_url"`
}

// CreateConnection hands an OAuth authorization code to the identity service,
// which exchanges and stores the resulting credential.
func (c *Client) CreateConnection(ctx context.Context, userID string, service models.ConnectionService, code, redirectURL string) error {
	body := createConnectionRequest{Code: code, RedirectURL: redirectURL}
	return c.do(ctx, http.MethodPost, c.connectionPath(userID, service), body, nil)
}

func (c *Client) DeleteConnection(ctx context.Context, userID string, service models.ConnectionService) error {
	return c.do(ctx, http.MethodDelete, c.connectionPath(userID, service), nil, nil)
}

func (c *Client) ListConnections(ctx context.Context, userID string) ([]models.Connection, error) {
	var connections []models.Connection
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/connections", nil, &connections); err != nil {
		return nil, err
	}
	return connections, nil
}

func (c *Client) GetConnection(ctx context.Context, userID string, service models.ConnectionService) (*models.Connection, error) {
	var connection models.Connection
	if err := c.do(ctx, http.MethodGet, c.connectionPath(userID, service), nil, &connection); err != nil {
		return nil, err
	}
	return &connection, nil
}

// Token returns the user's credential for service as an oauth2 token.
func (c *Client) Token(ctx context.Context, userID string, service models.ConnectionService) (*oauth2.Token, error) {
	connection, err := c.GetConnection(ctx, userID, service)
	if err != nil {
		return nil, err
	}
	if connection.AccessToken == "" {
		return nil, fmt.Errorf("%s connection for user %s has no access token", service, userID)
	}
	return ConnectionToken(connection), nil
}

func ConnectionToken(connection *models.Connection) *oauth2.Token {
	tokenType := connection.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return &oauth2.Token{
		AccessToken:  connection.AccessToken,
		RefreshToken: connection.RefreshToken,
		TokenType:    tokenType,
		Expiry:       connection.ExpiresAt,
	}
}

func (c *Client) connectionPath(userID string, service models.ConnectionService) string {
	return "/users/" + url.PathEscape(userID) + "/connections/" + url.PathEscape(string(service))
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("auth api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrConnectionNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Info("auth api error", "method", method, "path", path, "status", resp.StatusCode, "body", string(bodyBytes))
		return fmt.Errorf("auth api %s %s returned status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to decode auth api response: %w", err)
	}
	return nil
}
