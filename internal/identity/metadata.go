package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"companions/internal/domain"
)

// MetadataWriter updates the provider-held metadata of a user.
type MetadataWriter interface {
	UpdateMetadata(ctx context.Context, userID string, patch domain.MetadataPatch) error
}

// ClerkMetadataWriter merges public metadata through the Clerk Backend API.
type ClerkMetadataWriter struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClerkMetadataWriter builds a writer against baseURL (e.g.
// https://api.clerk.com/v1).
func NewClerkMetadataWriter(baseURL, secretKey string, logger zerolog.Logger) *ClerkMetadataWriter {
	return &ClerkMetadataWriter{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// UpdateMetadata PATCHes public_metadata; Clerk deep-merges the object so
// fields absent from patch keep their stored values.
func (w *ClerkMetadataWriter) UpdateMetadata(ctx context.Context, userID string, patch domain.MetadataPatch) error {
	if w.secretKey == "" {
		return fmt.Errorf("%w: clerk secret key not configured", domain.ErrProviderFailure)
	}
	body, err := json.Marshal(map[string]any{"public_metadata": patch})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/users/%s/metadata", w.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.secretKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		w.logger.Error().Int("status", res.StatusCode).Str("user_id", userID).Bytes("body", msg).Msg("clerk metadata update failed")
		if res.StatusCode == http.StatusNotFound {
			return fmt.Errorf("clerk user %s: %w", userID, domain.ErrNotFound)
		}
		return fmt.Errorf("%w: clerk returned %d", domain.ErrProviderFailure, res.StatusCode)
	}
	return nil
}
