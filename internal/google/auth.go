package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

// CredentialProvider supplies an authenticated HTTP client for the Calendar API.
// It caches the OAuth token in a local file and refreshes it when needed.
type CredentialProvider struct {
	logger          *slog.Logger
	clientID        string
	clientSecret    string
	credentialsFile string
	tokenFile       string

	// authorize runs the interactive flow; replaced in tests.
	authorize func(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error)
}

// NewCredentialProvider creates a provider. Client ID and secret take
// precedence over the client secret file when both are set.
func NewCredentialProvider(logger *slog.Logger, clientID, clientSecret, credentialsFile, tokenFile string) *CredentialProvider {
	p := &CredentialProvider{
		logger:          logger,
		clientID:        clientID,
		clientSecret:    clientSecret,
		credentialsFile: credentialsFile,
		tokenFile:       tokenFile,
	}
	p.authorize = p.tokenFromLoopback
	return p
}

// Client returns an HTTP client carrying a valid token.
func (p *CredentialProvider) Client(ctx context.Context) (*http.Client, error) {
	config, err := p.oauthConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get OAuth config: %w", err)
	}
	token, err := p.Token(ctx, config)
	if err != nil {
		return nil, err
	}
	return config.Client(ctx, token), nil
}

// Token loads the cached token, refreshes it once if it is no longer valid
// and falls back to the interactive flow when there is nothing usable.
// Any new token is written back to the token file.
func (p *CredentialProvider) Token(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	cached, err := tokenFromFile(p.tokenFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		p.logger.Warn("Ignoring unreadable token file", "file", p.tokenFile, "error", err)
	}

	if cached != nil && cached.Valid() {
		return cached, nil
	}

	if cached != nil && cached.RefreshToken != "" {
		p.logger.Info("Refreshing expired token")
		refreshed, err := config.TokenSource(ctx, cached).Token()
		if err == nil {
			if err := SaveToken(p.tokenFile, refreshed); err != nil {
				return nil, fmt.Errorf("failed to save token: %w", err)
			}
			return refreshed, nil
		}
		p.logger.Warn("Token refresh failed, starting a new authorization", "error", err)
	}

	return p.Authorize(ctx, config)
}

// Authorize runs the interactive authorization flow and saves the token.
func (p *CredentialProvider) Authorize(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	token, err := p.authorize(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	if err := SaveToken(p.tokenFile, token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}
	p.logger.Info("Successfully authenticated and saved token.", "file", p.tokenFile)
	return token, nil
}

// OAuthConfig returns the OAuth2 config used for the Calendar API.
func (p *CredentialProvider) OAuthConfig() (*oauth2.Config, error) {
	return p.oauthConfig()
}

// oauthConfig reads credentials and returns an OAuth2 config.
// It prioritizes the client ID and secret over the client secret file.
func (p *CredentialProvider) oauthConfig() (*oauth2.Config, error) {
	if p.clientID != "" && p.clientSecret != "" {
		return &oauth2.Config{
			ClientID:     p.clientID,
			ClientSecret: p.clientSecret,
			Scopes:       []string{calendar.CalendarScope},
			Endpoint:     google.Endpoint,
		}, nil
	}

	b, err := os.ReadFile(p.credentialsFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s not found. Please provide GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars or place the client secret file in the working directory", p.credentialsFile)
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	return config, nil
}

// tokenFromLoopback runs the installed-app flow: a one-shot HTTP server on a
// random local port receives the redirect carrying the authorization code.
func (p *CredentialProvider) tokenFromLoopback(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen for the OAuth redirect: %w", err)
	}

	cfg := *config
	cfg.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())
	state := uuid.NewString()

	codes := make(chan string, 1)
	errs := make(chan error, 1)
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			report(errs, fmt.Errorf("OAuth redirect state mismatch"))
		case q.Get("error") != "":
			http.Error(w, "authorization denied", http.StatusForbidden)
			report(errs, fmt.Errorf("authorization denied: %s", q.Get("error")))
		case q.Get("code") == "":
			http.Error(w, "missing code", http.StatusBadRequest)
			report(errs, fmt.Errorf("OAuth redirect carried no code"))
		default:
			fmt.Fprintln(w, "Authentication complete. You may close this window.")
			report(codes, q.Get("code"))
		}
	})}
	go srv.Serve(ln)
	defer srv.Shutdown(context.Background())

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser to authorize access: \n%v\n", authURL)

	var code string
	select {
	case code = <-codes:
	case err := <-errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return cfg.Exchange(ctx, code)
}

// report delivers v unless a value is already waiting.
func report[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

// SaveToken saves a token to a file path.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}
