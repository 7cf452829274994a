// Package redis provides a Redis pub/sub backend for the broadcast package,
// fanning messages out across processes.
//
// Its main use in this SDK is cross-window logout propagation: the session
// manager broadcasts its logout event here, and every sibling process
// subscribes and clears its own session in response.
//
//	remote := redis.NewBroadcaster[session.Event](client, "clinreg:auth")
//
//	manager, err := session.New(authURL, store,
//		session.WithRemoteBroadcaster(remote),
//	)
//
//	// React to logouts from other windows.
//	sub := remote.Subscribe(ctx)
//	go func() {
//		for msg := range sub.Receive(ctx) {
//			if msg.Data.Type == session.EventLogout {
//				manager.HandleRemoteLogout(ctx)
//			}
//		}
//	}()
package redis
