package server

// inbound is the envelope for every client-to-server message. Fields beyond
// Type are populated per message type: join_room uses Code/Name/Mode/
// SessionID, the cell actions use Row/Col.
type inbound struct {
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	Name      string `json:"name,omitempty"`
	Mode      string `json:"mode,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
}

// joinedMessage answers a successful join_room on the joining connection.
// SessionID is echoed (or minted) so the client can present it again after
// a transport drop.
type joinedMessage struct {
	Type      string `json:"type"`
	PlayerID  string `json:"playerId"`
	SessionID string `json:"sessionId"`
	Room      string `json:"room"`
}

// errorMessage reports join-time failures to the requester only. Illegal
// in-game actions are silently ignored instead.
type errorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	errRoomFull      = "room_full"
	errRoomNotFound  = "room_not_found"
	errInvalidConfig = "invalid_configuration"
	errBadRequest    = "bad_request"
	errNotHost       = "not_host"
)
