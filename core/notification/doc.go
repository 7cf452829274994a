// Package notification keeps the registry's notification socket in sync with
// the authentication session.
//
// The feed subscribes to session lifecycle events: when a session is
// established it dials the socket with the current bearer token, and when
// the session is torn down it hangs up. Decoded messages are exposed on a
// buffered channel; delivery semantics beyond decoding are the consumer's
// concern.
//
//	feed, err := notification.NewFeed("wss://registry.example.com/socket", manager, bus)
//	if err != nil {
//		log.Fatal(err)
//	}
//	go feed.Run(ctx)
//
//	for n := range feed.Notifications() {
//		render(n)
//	}
package notification
