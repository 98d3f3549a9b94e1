package oauth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"siren/internal/config"
	"siren/pkg/logging"
)

// credentialSubject is the owner label attached to every credential the
// gate synthesizes. The gate has no identity source, so all callers share
// it.
const credentialSubject = "siren-user"

// contextKey is a private type for context values set by this package.
type contextKey int

const credentialKey contextKey = iota

// Authenticator is the request gate in front of the MCP endpoint. It
// validates the presence and shape of the bearer credential and attaches a
// Credential to the request context.
//
// The gate performs no cryptographic verification and no registry lookup:
// any non-empty bearer string is accepted. This is an explicit placeholder;
// token introspection is the extension point for real validation.
type Authenticator struct {
	cfg config.OAuthConfig
}

// NewAuthenticator creates a request gate with the given configuration.
func NewAuthenticator(cfg config.OAuthConfig) *Authenticator {
	return &Authenticator{cfg: cfg}
}

// Middleware wraps next with bearer credential validation. Each request is
// evaluated exactly once, synchronously.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			logging.Debug("Gate", "Rejected request without Authorization header")
			writeError(w, http.StatusUnauthorized, &Error{
				Code:             ErrorUnauthorized,
				Description:      "authorization required",
				AuthorizationURL: a.authorizationURL(),
			})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			logging.Debug("Gate", "Rejected request with empty bearer token")
			writeError(w, http.StatusUnauthorized, &Error{
				Code:        ErrorInvalidToken,
				Description: "bearer token is empty",
			})
			return
		}

		cred := &Credential{
			Token:     token,
			Subject:   credentialSubject,
			Scopes:    []string{},
			ExpiresAt: time.Now().Add(a.cfg.TokenTTL.Std()),
		}

		next.ServeHTTP(w, r.WithContext(ContextWithCredential(r.Context(), cred)))
	})
}

// authorizationURL builds the self-remediation hint returned on requests
// without any credential.
func (a *Authenticator) authorizationURL() string {
	return a.cfg.PublicBaseURL + "/login?response_type=code"
}

// ContextWithCredential returns a copy of ctx carrying the credential.
func ContextWithCredential(ctx context.Context, cred *Credential) context.Context {
	return context.WithValue(ctx, credentialKey, cred)
}

// CredentialFromContext extracts the credential attached by the gate.
func CredentialFromContext(ctx context.Context) (*Credential, bool) {
	cred, ok := ctx.Value(credentialKey).(*Credential)
	return cred, ok
}
