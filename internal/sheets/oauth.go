package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// LoadToken loads a saved OAuth2 token from file.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	f, err := os.Open(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}
	return token, nil
}

// SaveToken writes an OAuth2 token to file with restrictive permissions.
func SaveToken(tokenFile string, token *oauth2.Token) error {
	f, err := os.OpenFile(tokenFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(token)
}

// newSheetsService builds the Sheets API client from whichever auth method
// the config carries.
func newSheetsService(ctx context.Context, cfg Config) (*sheets.Service, error) {
	if cfg.ServiceAccountPath != "" {
		svc, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.ServiceAccountPath))
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets service: %w", err)
		}
		return svc, nil
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
	token := &oauth2.Token{RefreshToken: cfg.RefreshToken}
	svc, err := sheets.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return svc, nil
}
