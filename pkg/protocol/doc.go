// Package protocol defines the JSON messages exchanged between clients and the
// synchronization server.
//
// Client to server:
//
//	{"sharedDataKey": "doc-42", "viewer": {"participantId": "u1", "displayName": "Ann", "thumbnailUrl": ""}}
//	{"delta": {"title": "Hello", "obsolete": null}}
//
// Server to client:
//
//	{"type": "state", "data": {"title": "@@ -0,0 +1,5 @@\n+Hello\n", "obsolete": null}}
//	{"type": "participants", "data": {"u1": {"participantId": "u1", "displayName": "Ann", "thumbnailUrl": ""}}}
//
// Inbound payloads are decoded exactly once, at the transport boundary, into a
// tagged variant (Registration or DeltaSubmission). Payloads that match
// neither shape are rejected with ErrMalformedMessage.
package protocol
