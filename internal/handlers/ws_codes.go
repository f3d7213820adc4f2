// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the game handler. These give
// clients a more specific reason for closure than standard codes.
const (
	BadSubprotocolError  = 3000 // Client connected with an unsupported subprotocol.
	InvalidSessionError  = 3001 // Join code in the WS URL does not resolve to a session.
	InvalidPlayerIDError = 3002 // player_id query param was missing, malformed or not in this session.
)
