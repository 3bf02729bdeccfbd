// Package pgstore implements kvstore.Store on PostgreSQL.
//
// Records live in a single kv_records table created by an embedded goose
// migration. Writes are upserts, so Set keeps the overwrite semantics of the
// other backends.
package pgstore
