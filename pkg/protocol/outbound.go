package protocol

import (
	"encoding/json"
	"errors"
	"maps"

	"github.com/dmitrymomot/wavesync/pkg/patch"
)

// Message type tags for server to client messages.
const (
	TypeState        = "state"
	TypeParticipants = "participants"
)

// Outbound is a message sent by the server. It is either a StateUpdate or a ParticipantsUpdate.
type Outbound interface {
	outbound()
}

// StateUpdate carries per-key patches to replay against a local mirror.
type StateUpdate struct {
	Type string        `json:"type"`
	Data patch.Patches `json:"data"`
}

func (StateUpdate) outbound() {}

// ParticipantsUpdate carries the full participant set of a session group.
type ParticipantsUpdate struct {
	Type string                 `json:"type"`
	Data map[string]Participant `json:"data"`
}

func (ParticipantsUpdate) outbound() {}

// EncodeState builds a state message. A nil map encodes as an empty object.
func EncodeState(patches patch.Patches) ([]byte, error) {
	if patches == nil {
		patches = patch.Patches{}
	}
	return json.Marshal(StateUpdate{Type: TypeState, Data: patches})
}

// EncodeParticipants builds a participants message. A nil map encodes as an empty object.
func EncodeParticipants(participants map[string]Participant) ([]byte, error) {
	data := make(map[string]Participant, len(participants))
	maps.Copy(data, participants)
	return json.Marshal(ParticipantsUpdate{Type: TypeParticipants, Data: data})
}

// DecodeOutbound decodes a server payload into its message variant.
func DecodeOutbound(payload []byte) (Outbound, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &tag); err != nil {
		return nil, errors.Join(ErrMalformedMessage, err)
	}

	switch tag.Type {
	case TypeState:
		var msg StateUpdate
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, errors.Join(ErrMalformedMessage, err)
		}
		if msg.Data == nil {
			msg.Data = patch.Patches{}
		}
		return msg, nil
	case TypeParticipants:
		var msg ParticipantsUpdate
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, errors.Join(ErrMalformedMessage, err)
		}
		if msg.Data == nil {
			msg.Data = map[string]Participant{}
		}
		return msg, nil
	default:
		return nil, ErrUnknownMessageType
	}
}
