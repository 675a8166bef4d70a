// Package ws maintains the realtime room socket. The backend pushes flat
// JSON events tagged with an "action" field whenever room state changes,
// so clients can re-render without polling.
package ws

// Actions pushed by the backend.
const (
	ActionJoinRoom       = "join_room"
	ActionLeaveRoom      = "leave_room"
	ActionUserJoinedRoom = "user_joined_room"
	ActionUserKicked     = "user_kicked_from_room"
	ActionPlaybackHost   = "playback_host_changed"
	ActionFriendRequest  = "friend_request_received"
	ActionFriendAccepted = "friend_request_accepted"
	ActionFriendDeclined = "friend_request_declined"
)

// Event is a single message from the room socket. Only Action is always
// present; the remaining fields depend on the action type.
type Event struct {
	Action     string  `json:"action"`
	RoomID     string  `json:"room_id,omitempty"`
	UserID     string  `json:"user_id,omitempty"`
	Username   string  `json:"username,omitempty"`
	Detail     string  `json:"detail,omitempty"`
	Message    string  `json:"message,omitempty"`
	TrackID    *string `json:"current_track_id,omitempty"`
	PositionMS int     `json:"current_track_position_ms,omitempty"`
	IsPlaying  bool    `json:"is_playing,omitempty"`
}

// Text returns the human readable portion of the event, preferring the
// per-user detail over the broadcast message.
func (e Event) Text() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}
