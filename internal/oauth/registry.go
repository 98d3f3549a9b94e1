package oauth

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"siren/pkg/logging"
)

// Registration defaults applied when the caller omits the optional fields.
var (
	defaultGrantTypes    = []string{"authorization_code"}
	defaultResponseTypes = []string{"code"}
)

const defaultTokenEndpointAuthMethod = "client_secret_basic"

// ClientRegistry provides thread-safe in-memory storage for registered
// clients. It is constructed at startup, injected into the gateway
// handlers, and closed at shutdown; records live for the process lifetime
// at most.
type ClientRegistry struct {
	mu      sync.RWMutex
	clients map[string]*RegisteredClient

	// counter disambiguates client IDs minted within the same
	// millisecond.
	counter uint64
}

// NewClientRegistry creates an empty client registry.
func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{
		clients: make(map[string]*RegisteredClient),
	}
}

// Register validates the registration request, mints a new client record,
// and stores it. An empty redirect URI list fails with
// invalid_client_metadata and leaves the registry untouched.
func (cr *ClientRegistry) Register(req RegistrationRequest) (*RegisteredClient, error) {
	if len(req.RedirectURIs) == 0 {
		return nil, &Error{
			Code:        ErrorInvalidClientMetadata,
			Description: "redirect_uris is required and must be non-empty",
		}
	}

	grantTypes := req.GrantTypes
	if len(grantTypes) == 0 {
		grantTypes = defaultGrantTypes
	}
	responseTypes := req.ResponseTypes
	if len(responseTypes) == 0 {
		responseTypes = defaultResponseTypes
	}
	authMethod := req.TokenEndpointAuthMethod
	if authMethod == "" {
		authMethod = defaultTokenEndpointAuthMethod
	}

	cr.mu.Lock()
	defer cr.mu.Unlock()

	cr.counter++
	client := &RegisteredClient{
		ClientID:                fmt.Sprintf("client-%d-%d", time.Now().UnixMilli(), cr.counter),
		ClientSecret:            uuid.NewString(),
		RedirectURIs:            req.RedirectURIs,
		ClientName:              req.ClientName,
		GrantTypes:              grantTypes,
		ResponseTypes:           responseTypes,
		TokenEndpointAuthMethod: authMethod,
		ClientIDIssuedAt:        time.Now().Unix(),
		ClientSecretExpiresAt:   0,
	}

	cr.clients[client.ClientID] = client
	logging.Debug("OAuth", "Registered client %s (%s)", client.ClientID, client.ClientName)

	return client, nil
}

// Get returns the client record for the given ID, if present.
func (cr *ClientRegistry) Get(clientID string) (*RegisteredClient, bool) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	client, ok := cr.clients[clientID]
	return client, ok
}

// Consume looks up the given code as a client ID and removes the record,
// enforcing one-time use. The second return value reports whether a record
// was found.
func (cr *ClientRegistry) Consume(code string) (*RegisteredClient, bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	client, ok := cr.clients[code]
	if !ok {
		return nil, false
	}
	delete(cr.clients, code)
	logging.Debug("OAuth", "Consumed code %s", code)

	return client, true
}

// Count returns the number of registered clients.
func (cr *ClientRegistry) Count() int {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return len(cr.clients)
}

// Close releases the registry's state. Records are not persisted anywhere,
// so closing simply drops them.
func (cr *ClientRegistry) Close() {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.clients = make(map[string]*RegisteredClient)
}
