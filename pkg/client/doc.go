// Package client is a websocket client for the synchronization protocol.
//
// A Client registers a viewer in a session group and keeps a Mirror of the
// group's shared state and participants up to date by replaying every state
// message with the same patch engine the server uses.
//
//	c, err := client.Dial(ctx, "ws://localhost:8080/ws", "doc-42",
//		protocol.Participant{ParticipantID: "u1", DisplayName: "Ann"})
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	c.Mirror().OnStateChange(func(st state.SharedState) { render(st) })
//	_ = c.SubmitValue(ctx, "title", "Hello")
package client
