// Package mongostore implements kvstore.Store on MongoDB.
// Each record is a document {_id: key, value: value} in a single collection.
package mongostore
