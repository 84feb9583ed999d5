package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

func oauth2Config(tenantID, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(tenantID, "devicecode"),
			TokenURL:      msEndpoint(tenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// tokenStore keeps the OAuth2 token as JSON in a single file.
type tokenStore struct {
	path string
}

// defaultTokenStore uses ~/.ttt/auth/msgraph_tokens.json.
func defaultTokenStore() (tokenStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return tokenStore{}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	return tokenStore{path: filepath.Join(home, ".ttt", "auth", "msgraph_tokens.json")}, nil
}

// load returns nil without error when no token has been stored yet.
func (s tokenStore) load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", s.path, err)
	}
	return &tok, nil
}

func (s tokenStore) save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Authenticate returns a valid token for Microsoft Graph. It uses the stored
// token, refreshes it, or runs the device code flow and writes the sign-in
// instructions to prompt.
func Authenticate(ctx context.Context, tenantID, clientID string, prompt io.Writer, logger *slog.Logger) (*oauth2.Token, *oauth2.Config, error) {
	store, err := defaultTokenStore()
	if err != nil {
		return nil, nil, err
	}
	return authenticate(ctx, store, oauth2Config(tenantID, clientID), prompt, logger)
}

func authenticate(ctx context.Context, store tokenStore, cfg *oauth2.Config, prompt io.Writer, logger *slog.Logger) (*oauth2.Token, *oauth2.Config, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tok, err := store.load()
	if err != nil {
		logger.Warn("ignoring stored token", "error", err)
		tok = nil
	}

	switch {
	case tok == nil:
	case tok.Valid():
		logger.Debug("using stored token", "expiry", tok.Expiry)
		return tok, cfg, nil
	case tok.RefreshToken != "":
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err := store.save(refreshed); err != nil {
				logger.Warn("could not save refreshed token", "error", err)
			}
			return refreshed, cfg, nil
		}
		logger.Info("token refresh failed, re-authenticating", "error", err)
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("device auth request failed: %w", err)
	}
	fmt.Fprintf(prompt, "\nTo sign in, use a web browser to open the page:\n  %s\nEnter the code: %s\n\n",
		resp.VerificationURI, resp.UserCode)

	newTok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, nil, fmt.Errorf("device authentication failed: %w", err)
	}
	if err := store.save(newTok); err != nil {
		logger.Warn("could not save token", "error", err)
	}
	return newTok, cfg, nil
}
