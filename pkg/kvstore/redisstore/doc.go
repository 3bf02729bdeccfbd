// Package redisstore implements kvstore.Store on Redis using go-redis.
//
//	st, err := redisstore.Open(ctx, redisstore.Config{
//	    ConnectionURL:  "redis://localhost:6379/0",
//	    RetryAttempts:  3,
//	    RetryInterval:  5 * time.Second,
//	    ConnectTimeout: 30 * time.Second,
//	    KeyPrefix:      "wavesync:",
//	})
//	if err != nil {
//	    // the process should refuse to start
//	}
//	defer st.Close()
package redisstore
