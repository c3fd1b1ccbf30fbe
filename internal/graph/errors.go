package graph

import "errors"

// Token exchange failure taxonomy. Callers classify with errors.Is; none of
// these are retried automatically.
var (
	// ErrMisconfigured means one or more credential fields are missing. No
	// network call is made.
	ErrMisconfigured = errors.New("graph credentials are not configured")

	// ErrInvalidClient means the client secret was rejected.
	ErrInvalidClient = errors.New("client authentication failed")

	// ErrInvalidGrant means the refresh token is expired or revoked. This is
	// fatal: recovery requires manual re-authorization outside this system.
	ErrInvalidGrant = errors.New("refresh token expired or revoked")

	// ErrInvalidRequest means the token request was malformed.
	ErrInvalidRequest = errors.New("malformed token request")

	// ErrEndpointNotFound means the token endpoint is absent or unreachable.
	// The application falls back to simulation mode when it sees this.
	ErrEndpointNotFound = errors.New("token endpoint unreachable")
)
