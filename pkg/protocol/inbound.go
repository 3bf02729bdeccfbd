package protocol

import (
	"encoding/json"
	"errors"
)

// Inbound is a message sent by a client. It is either a Registration or a DeltaSubmission.
type Inbound interface {
	inbound()
}

// Registration binds a connection to a session group and announces its viewer.
type Registration struct {
	SharedDataKey string      `json:"sharedDataKey"`
	Viewer        Participant `json:"viewer"`
}

func (Registration) inbound() {}

// DeltaSubmission carries new full values for one or more keys.
// A nil value deletes the key.
type DeltaSubmission struct {
	Delta map[string]*string `json:"delta"`
}

func (DeltaSubmission) inbound() {}

type inboundEnvelope struct {
	SharedDataKey string          `json:"sharedDataKey"`
	Viewer        *viewerEnvelope `json:"viewer"`
	Delta         json.RawMessage `json:"delta"`
}

type viewerEnvelope struct {
	Participant
	Legacy *legacyParticipant `json:"Participant"`
}

func (v *viewerEnvelope) participant() Participant {
	if v == nil {
		return Participant{}
	}
	if v.ParticipantID == "" && v.Legacy != nil {
		return Participant(*v.Legacy)
	}
	return v.Participant
}

// DecodeInbound decodes a client payload into its message variant.
func DecodeInbound(payload []byte) (Inbound, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, errors.Join(ErrMalformedMessage, err)
	}

	if env.SharedDataKey != "" {
		viewer := env.Viewer.participant()
		if !viewer.Valid() {
			return nil, errors.Join(ErrMalformedMessage, errors.New("registration without viewer participant id"))
		}
		return Registration{SharedDataKey: env.SharedDataKey, Viewer: viewer}, nil
	}

	if len(env.Delta) == 0 || string(env.Delta) == "null" {
		return nil, errors.Join(ErrMalformedMessage, errors.New("neither sharedDataKey nor delta present"))
	}

	var delta map[string]*string
	if err := json.Unmarshal(env.Delta, &delta); err != nil {
		return nil, errors.Join(ErrMalformedMessage, err)
	}
	return DeltaSubmission{Delta: delta}, nil
}

// EncodeRegistration builds a registration payload.
func EncodeRegistration(sharedDataKey string, viewer Participant) ([]byte, error) {
	return json.Marshal(Registration{SharedDataKey: sharedDataKey, Viewer: viewer})
}

// EncodeDelta builds a delta payload.
func EncodeDelta(delta map[string]*string) ([]byte, error) {
	if delta == nil {
		delta = map[string]*string{}
	}
	return json.Marshal(DeltaSubmission{Delta: delta})
}
