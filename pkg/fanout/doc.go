// Package fanout delivers server messages to the live connections of a
// session group.
//
// The live connection list is process-local and is the only mutable resource
// shared between connection handlers. Broadcast snapshots it, then resolves
// every connection's session binding at broadcast time, so the recipients are
// exactly the connections currently bound to the target group. No subscriber
// list is cached per group.
//
//	f := fanout.New(dir, fanout.WithLogger(log))
//	_ = f.Add(conn)
//	defer f.Remove(conn.ID())
//
//	n := f.Broadcast(ctx, "doc-42", payload)
package fanout
