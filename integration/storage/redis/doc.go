// Package redis provides a Redis-backed session store for deployments where
// the session must survive process restarts or be shared across instances.
//
// The store implements the session.Store capability set (Get, Set, Remove)
// over namespaced string keys. Connect wraps client creation with URL
// validation, retries and a readiness ping.
//
// Usage:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	store := redis.NewStore(client, cfg.KeyPrefix)
//	manager, err := session.New(authURL, store)
package redis
