// Command oauth-init mints the Google OAuth token that the Sheets export
// path (sheets-export and the transactions page export) reads at startup.
// It spins up a short-lived localhost callback server, prints the consent
// URL, and writes the exchanged token where GOOGLE_OAUTH_TOKEN_FILE points.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"

	"aimms/internal/cli"
	"aimms/internal/config"
	"aimms/internal/log"
)

func main() {
	port := flag.String("port", "8085", "localhost port for the OAuth callback")
	wait := flag.Duration("wait", 5*time.Minute, "how long to wait for consent")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentExport)

	// Only the Google settings matter here; skip the web-server validation.
	cfg := config.Load()

	oauthCfg, err := oauthConfig(cfg)
	if err != nil {
		logger.Error("Failed to load OAuth client credentials", "error", err)
		os.Exit(1)
	}
	// The client in the Google console must list this redirect URI.
	oauthCfg.RedirectURL = "http://localhost:" + *port + "/callback"

	code, err := waitForConsent(oauthCfg, *port, *wait)
	if err != nil {
		logger.Error("Authorization failed", "error", err)
		os.Exit(1)
	}

	tok, err := oauthCfg.Exchange(context.Background(), code)
	if err != nil {
		logger.Error("Token exchange failed", "error", err)
		os.Exit(1)
	}

	out := cfg.GoogleOAuthTokenFile
	if out == "" {
		out = "token.json"
	}
	if err := writeToken(out, tok); err != nil {
		logger.Error("Failed to write token file", "error", err, "path", out)
		os.Exit(1)
	}
	logger.Info("Token saved", "path", out)
}

// oauthConfig builds the consent config from the same client-credential
// settings the exporter uses.
func oauthConfig(cfg *config.Config) (*oauth2.Config, error) {
	var raw []byte
	switch {
	case cfg.GoogleOAuthClientJSON != "":
		raw = []byte(cfg.GoogleOAuthClientJSON)
	case cfg.GoogleOAuthClientFile != "":
		b, err := os.ReadFile(cfg.GoogleOAuthClientFile)
		if err != nil {
			return nil, fmt.Errorf("read client file: %w", err)
		}
		raw = b
	default:
		return nil, fmt.Errorf("set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE")
	}
	return google.ConfigFromJSON(raw, sheets.SpreadsheetsScope)
}

// waitForConsent serves the callback endpoint, prints the consent URL, and
// returns the authorization code Google redirects back with.
func waitForConsent(cfg *oauth2.Config, port string, wait time.Duration) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	srv := &http.Server{Addr: ":" + port, Handler: mux}
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if e := r.URL.Query().Get("error"); e != "" {
			http.Error(w, "Authorization was denied: "+e, http.StatusBadRequest)
			errCh <- fmt.Errorf("consent denied: %s", e)
			return
		}
		fmt.Fprintln(w, "Authorized. You can close this tab and return to the terminal.")
		codeCh <- r.URL.Query().Get("code")
	})
	go func() { _ = srv.ListenAndServe() }()
	defer srv.Close()

	fmt.Printf("Open this URL to authorize Sheets access:\n\n  %s\n\n",
		cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-time.After(wait):
		return "", fmt.Errorf("timed out after %s waiting for consent", wait)
	case <-interrupt:
		return "", fmt.Errorf("interrupted")
	}
}

// writeToken stores the token with owner-only permissions.
func writeToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	return nil
}
