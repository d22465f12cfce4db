// Package channel implements the push channel carrying automation progress from the backend.
//
// The channel is a websocket at {ws_url}/{username}. Each text frame holds one JSON [Event].
// [Dialer] opens the client side and [Conn.Next] yields events in server-send order; a
// close frame or a dropped socket ends the stream with [io.EOF]. [Accept] upgrades the
// server side for the development backend.
package channel
