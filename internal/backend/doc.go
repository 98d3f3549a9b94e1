// Package backend is the single choke point for calls to the upstream
// alerting service. It attaches the caller's bearer credential, normalizes
// the backend's response envelope, and maps backend error shapes onto a
// small typed taxonomy (ValidationError for 422 responses, APIError for
// everything else the backend answers, raw transport errors otherwise).
//
// One Client instance is scoped to one caller: the bearer credential is a
// single slot replaced by SetToken, not a pool. Handlers construct a fresh
// client per request so concurrent callers never share credential state.
package backend
