// Package kvstore defines the durable key-value store that backs shared state,
// participant sets and connection bindings.
//
// The Store contract is deliberately small: string keys, string values, plain
// get/set/delete with no transactions and no compare-and-swap. Callers that need
// read-modify-write atomicity must serialize access themselves.
//
// Backends:
//
//   - NewMemory: process-local map, used in tests and single-node development.
//   - redisstore: Redis via github.com/redis/go-redis/v9.
//   - pgstore: PostgreSQL via github.com/jackc/pgx/v5 with a goose-managed table.
//   - mongostore: MongoDB via go.mongodb.org/mongo-driver/v2.
//
// Record layout:
//
//	<sharedDataKey>_state         serialized shared state map
//	<sharedDataKey>_participants  serialized participant map
//	<connectionId>                shared data key the connection is bound to
package kvstore
