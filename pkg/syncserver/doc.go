// Package syncserver is the synchronization server: it registers connections
// into session groups, turns submitted deltas into patches against the
// persisted shared state, and broadcasts state and presence changes to the
// group.
//
// The server is transport agnostic. A transport calls Connect when a peer
// arrives, HandleMessage for every inbound payload in arrival order, and
// Disconnect when the peer goes away:
//
//	srv := syncserver.New(store, patch.NewDMP(), syncserver.WithLogger(log))
//	if err := srv.Start(ctx); err != nil {
//		return err // store unreachable
//	}
//	defer srv.Stop(ctx)
//
//	_ = srv.Connect(conn)
//	_ = srv.HandleMessage(ctx, conn.ID(), payload)
//	_ = srv.Disconnect(ctx, conn.ID())
//
// Every read-modify-write on a session group's records runs under a per-group
// lock, so concurrent deltas to the same group are applied one after another
// instead of racing on the stored record.
//
// Activity is exported as Prometheus collectors (wavesync_* counters and
// gauges). Pass WithRegisterer to expose them on a shared registry; Stats
// reads the same values.
package syncserver
