package kvstore

const (
	stateSuffix        = "_state"
	participantsSuffix = "_participants"
)

// StateKey returns the record key holding the shared state of a session group.
func StateKey(sharedDataKey string) string {
	return sharedDataKey + stateSuffix
}

// ParticipantsKey returns the record key holding the participant set of a session group.
func ParticipantsKey(sharedDataKey string) string {
	return sharedDataKey + participantsSuffix
}

// BindingKey returns the record key holding the session binding of a connection.
func BindingKey(connID string) string {
	return connID
}
