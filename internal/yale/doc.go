// Package yale implements the client for the Yale Home cloud API and the
// session lifecycle around it.
//
// This package manages:
//   - The password-grant login handshake (bootstrap token + account credentials)
//   - Transparent bearer-token refresh before every authenticated call
//   - The status-cycle endpoint (snapshot of all devices' open/closed state)
//   - The event-report endpoint (rolling window of recent device events)
//
// # Architecture
//
// The vendor wraps every response in a common envelope: a top-level "message"
// field carrying a literal success marker, with the payload under "data".
// This package decodes that envelope at the boundary and returns typed
// results; callers never touch raw JSON.
//
// A non-matching marker is a logical failure (ErrStatusNotOK), distinct from
// transport failures (ErrRequestFailed) and login failures (ErrAuthFailed).
// Callers degrade differently per class — see the lock package.
//
// # Session lifecycle
//
// The SessionManager owns the credentials and the current Session. A Session
// is replaced wholesale on re-login, never partially mutated. Staleness is
// checked before every authenticated request, with a configurable safety
// margin, because the token can expire mid-lifetime between polling cycles.
// Concurrent refreshes are collapsed via singleflight so entities sharing
// one manager trigger at most one login.
//
// # Usage
//
//	client := yale.NewClient(cfg.Yale.BaseURL, cfg.GetRequestTimeout())
//	manager := yale.NewSessionManager(client, yale.Credentials{
//	    Username:       cfg.Yale.Username,
//	    Password:       cfg.Yale.Password,
//	    BootstrapToken: cfg.Yale.BootstrapToken,
//	}, cfg.GetTokenMargin())
//
//	token, err := manager.Token(ctx)
//	devices, err := client.FetchStatus(ctx, token)
package yale
