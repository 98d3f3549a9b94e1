// Package oauth implements siren's authorization gateway and request gate.
//
// # Authorization Gateway
//
// The gateway provides a minimal OAuth-like lifecycle in front of the MCP
// endpoint:
//
//  1. Dynamic client registration (POST /register): callers register with a
//     non-empty redirect URI list and receive a client_id and secret.
//  2. Authorization redirect (GET /login): the three authorization
//     parameters are forwarded to the external login surface. No state is
//     stored for this step and the client_id is not checked against the
//     registry.
//  3. Code-for-token exchange (POST /token): the presented code is looked
//     up directly as a client_id in the registry. A successful exchange
//     removes the record, so every code is consumable at most once.
//
// The registry deliberately conflates the registered client record with the
// exchangeable code, and registration never populates an access token on
// the record. Exchanging a freshly registered client_id therefore yields an
// empty access token; TestExchangeFreshRegistrationYieldsEmptyToken pins
// this behavior. Closing the gap requires a code-issuance step on the login
// path, which does not exist yet.
//
// # Request Gate
//
// Authenticator gates every tool-invocation request. It checks only the
// presence and shape of the bearer credential: any non-empty token after
// the optional "Bearer " prefix is trusted and turned into a Credential on
// the request context. This is a documented security placeholder; token
// introspection against the registry is the natural extension point.
//
// All state lives in a ClientRegistry constructed at startup and injected
// into the handlers. Nothing survives a process restart.
package oauth
