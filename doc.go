// Package clinreg is the Go client SDK for the ClinReg dental clinic
// registry. It manages the full authenticated-session lifecycle against the
// registry's Keycloak-backed auth endpoints: credential login, persisted
// token state, proactive refresh ahead of expiry, single-flight refresh
// coordination, authenticated API calls with automatic teardown on
// authorization failure, and a live notification feed that follows the
// session.
//
// The root package wires the building blocks together for the common case;
// each block is usable on its own:
//
//   - core/session: token store, refresh scheduler and coordinator, lifecycle events
//   - core/apiclient: authenticated request wrapper over the registry API
//   - core/notification: websocket notification feed driven by session events
//   - core/config: environment-based configuration loading
//   - core/logger: slog attribute helpers
//   - pkg/broadcast: generic pub/sub used for session lifecycle events
//   - pkg/async: shared futures backing the single-flight refresh
//   - integration/storage/redis: Redis-backed session store
//   - integration/storage/encrypted: encrypted file session store for desktop shells
//   - integration/broadcast/redis: Redis pub/sub for cross-process logout fan-out
//
// Minimal usage:
//
//	client, err := clinreg.New(clinreg.Config{
//		AuthURL: "https://registry.example.com/api/auth",
//		APIURL:  "https://registry.example.com/api",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if _, err := client.Session.Login(ctx, username, password); err != nil {
//		log.Fatal(err)
//	}
//
//	var patients []Patient
//	if err := client.API.Get(ctx, "/patients", &patients); err != nil {
//		log.Fatal(err)
//	}
package clinreg
