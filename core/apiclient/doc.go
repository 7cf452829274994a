// Package apiclient wraps every registry API call with bearer-token
// authentication and session-failure handling.
//
// The client is deliberately the only path to the API: before each request
// it asks the session manager for a valid token (which may suspend on a
// shared refresh), attaches it, and issues the request through a retryable
// transport guarded by a circuit breaker. A 401 or 403 response is treated
// as fatal regardless of request semantics: the session is torn down, the
// login-required signal fires, and session.ErrSessionExpired is returned.
//
// Usage:
//
//	var cfg apiclient.Config
//	config.MustLoad(&cfg)
//
//	client, err := apiclient.New(cfg, manager)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	var patients []Patient
//	if err := client.Get(ctx, "/patients", &patients); err != nil {
//		if errors.Is(err, session.ErrSessionExpired) {
//			return // teardown and redirect already happened
//		}
//		// non-auth errors arrive unchanged for caller-specific handling
//	}
package apiclient
