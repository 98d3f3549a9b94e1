package oauth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"siren/internal/config"
	"siren/pkg/logging"
)

// Handler provides the HTTP endpoints of the authorization gateway.
type Handler struct {
	registry *ClientRegistry
	cfg      config.OAuthConfig
}

// NewHandler creates a gateway handler backed by the given registry.
func NewHandler(registry *ClientRegistry, cfg config.OAuthConfig) *Handler {
	return &Handler{
		registry: registry,
		cfg:      cfg,
	}
}

// HandleRegister implements dynamic client registration (POST /register).
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, &Error{
			Code:        ErrorInvalidClientMetadata,
			Description: "registration requires POST",
		})
		return
	}

	var req RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, &Error{
			Code:        ErrorInvalidClientMetadata,
			Description: "request body is not valid JSON",
		})
		return
	}

	client, err := h.registry.Register(req)
	if err != nil {
		status := http.StatusBadRequest
		var oauthErr *Error
		if !errors.As(err, &oauthErr) {
			oauthErr = &Error{Code: ErrorInvalidClientMetadata, Description: err.Error()}
		}
		logging.Warn("OAuth", "Client registration rejected: %s", oauthErr.Description)
		writeError(w, status, oauthErr)
		return
	}

	logging.Info("OAuth", "Registered client %s", client.ClientID)
	writeJSON(w, http.StatusCreated, client)
}

// HandleAuthorize implements the authorization redirect (GET /login).
//
// The client_id is not checked against the registry here; the endpoint
// only forwards the authorization parameters to the external login
// surface. No server-side state is created for this step.
func (h *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	target, err := url.Parse(h.cfg.FrontendBaseURL + "/login")
	if err != nil {
		writeError(w, http.StatusInternalServerError, &Error{
			Code:        "server_error",
			Description: "invalid frontend base URL",
		})
		return
	}

	forwarded := url.Values{}
	for _, param := range []string{"response_type", "client_id", "redirect_uri", "state"} {
		if v := q.Get(param); v != "" {
			forwarded.Set(param, v)
		}
	}
	target.RawQuery = forwarded.Encode()

	logging.Debug("OAuth", "Forwarding authorization request for client %s to login surface", q.Get("client_id"))
	http.Redirect(w, r, target.String(), http.StatusFound)
}

// HandleToken implements the code-for-token exchange (POST /token).
//
// The code is consumed from the registry on success, so a second exchange
// of the same code fails with invalid_grant. The returned access token and
// remaining lifetime come straight off the record; through the normal
// registration flow both are unset, which HandleToken does not paper over
// (see the package documentation).
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, &Error{
			Code:        ErrorInvalidGrant,
			Description: "token exchange requires POST",
		})
		return
	}

	code := h.extractCode(r)
	if code == "" {
		writeError(w, http.StatusBadRequest, &Error{
			Code:        ErrorInvalidGrant,
			Description: "code is required",
		})
		return
	}

	client, ok := h.registry.Consume(code)
	if !ok {
		logging.Warn("OAuth", "Token exchange with unknown or consumed code")
		writeError(w, http.StatusBadRequest, &Error{
			Code:        ErrorInvalidGrant,
			Description: "authorization code is invalid or has already been used",
		})
		return
	}

	expiresIn := client.TokenExpiresAt - time.Now().Unix()

	logging.Info("OAuth", "Issued token for client %s (expires_in=%d)", client.ClientID, expiresIn)
	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: client.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	})
}

// HandleMetadata serves the authorization server discovery document.
func (h *Handler) HandleMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Metadata{
		Issuer:                 h.cfg.PublicBaseURL,
		AuthorizationEndpoint:  h.cfg.PublicBaseURL + "/login",
		TokenEndpoint:          h.cfg.TokenEndpointURL(),
		RegistrationEndpoint:   h.cfg.PublicBaseURL + "/register",
		ResponseTypesSupported: []string{"code"},
	})
}

// extractCode reads the authorization code from a JSON body or, failing
// that, from form values.
func (h *Handler) extractCode(r *http.Request) string {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/json") {
		var req TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Code != "" {
			return req.Code
		}
		return ""
	}

	if err := r.ParseForm(); err != nil {
		return ""
	}
	return r.PostFormValue("code")
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("OAuth", err, "Failed to encode response")
	}
}

// writeError writes an OAuth error payload with the given status.
func writeError(w http.ResponseWriter, status int, e *Error) {
	writeJSON(w, status, e)
}
