package service

import (
	"fmt"
	"strings"

	"github.com/maheshrc27/clipstudio/internal/models"
)

// ParseAllowedConnections reads a comma separated list of connection types.
func ParseAllowedConnections(value string) ([]models.ConnectionService, error) {
	var allowed []models.ConnectionService
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		service, err := models.ParseConnectionService(part)
		if err != nil {
			return nil, fmt.Errorf("allowed connections: %w", err)
		}
		allowed = append(allowed, service)
	}
	return allowed, nil
}

// clipKeyPrefix is where a user's uploaded clips live in the bucket.
func clipKeyPrefix(userID string) string {
	return fmt.Sprintf("clips/%s/", userID)
}
