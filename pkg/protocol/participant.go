package protocol

// Participant is the public identity of a user attached to a session group.
// The viewer of a client is the participant that client registered as.
type Participant struct {
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
	ThumbnailURL  string `json:"thumbnailUrl"`
}

// ID returns the participant id.
func (p Participant) ID() string {
	return p.ParticipantID
}

// Valid reports whether the participant carries an id.
func (p Participant) Valid() bool {
	return p.ParticipantID != ""
}

// legacyParticipant is the shape sent by legacy gadget clients:
// {"viewer": {"Participant": {"participant_id": ..., "participant_display_name": ...,
// "participant_thumbnail_url": ...}}}.
type legacyParticipant struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"participant_display_name"`
	ThumbnailURL  string `json:"participant_thumbnail_url"`
}
