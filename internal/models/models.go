package models

import (
	"fmt"
	"time"

	"github.com/Lalka12235/TuneWave/internal/shared"
)

// Room represents a listening room as returned by the backend.
//
// The password is write-only: it appears on create/update requests and is
// never round-tripped back to the client.
type Room struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	MaxMembers         int       `json:"max_members"`
	IsPrivate          bool      `json:"is_private"`
	OwnerID            string    `json:"owner_id"`
	CreatedAt          time.Time `json:"created_at"`
	CurrentTrackID     *string   `json:"current_track_id"`
	CurrentTrackPosMS  int       `json:"current_track_position_ms"`
	IsPlaying          bool      `json:"is_playing"`
	CurrentMemberCount int       `json:"current_members_count"`
}

// Member is a room participant entry. Fetched fresh per listing and never
// merged into Room.
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// User is the authenticated user's profile from /users/me.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RoomCreate is the request body for creating a room.
type RoomCreate struct {
	Name       string `json:"name"`
	MaxMembers int    `json:"max_members"`
	IsPrivate  bool   `json:"is_private"`
	Password   string `json:"password,omitempty"`
}

// Validate enforces the privacy/password invariant before any request is
// sent: a password must be present if and only if the room is private.
func (c RoomCreate) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: room name is required", shared.ErrInvalidInput)
	}
	if c.MaxMembers <= 0 {
		return fmt.Errorf("%w: max members must be positive", shared.ErrInvalidInput)
	}
	if c.IsPrivate && c.Password == "" {
		return fmt.Errorf("%w: a private room requires a password", shared.ErrInvalidInput)
	}
	if !c.IsPrivate && c.Password != "" {
		return fmt.Errorf("%w: a password cannot be set on a public room", shared.ErrInvalidInput)
	}
	return nil
}

// RoomUpdate is the request body for updating a room. Unset pointer fields
// are omitted; IsPrivate is always resent because the server re-validates
// the password invariant on every update. Password marshals as an explicit
// null when the room is public.
type RoomUpdate struct {
	Name       *string `json:"name,omitempty"`
	MaxMembers *int    `json:"max_members,omitempty"`
	IsPrivate  bool    `json:"is_private"`
	Password   *string `json:"password"`
}

// Empty reports whether the update carries no field worth sending.
func (u RoomUpdate) Empty() bool {
	return u.Name == nil && u.MaxMembers == nil && !u.IsPrivate && u.Password == nil
}

// Validate enforces the update variant of the privacy/password invariant:
// enabling privacy always requires a fresh password (a prior password is
// never preserved), and a public room must not carry one.
func (u RoomUpdate) Validate() error {
	if u.Name != nil && *u.Name == "" {
		return fmt.Errorf("%w: room name cannot be empty", shared.ErrInvalidInput)
	}
	if u.MaxMembers != nil && *u.MaxMembers <= 0 {
		return fmt.Errorf("%w: max members must be positive", shared.ErrInvalidInput)
	}
	if u.IsPrivate {
		if u.Password == nil || *u.Password == "" {
			return fmt.Errorf("%w: making a room private requires a new password", shared.ErrInvalidInput)
		}
	} else if u.Password != nil && *u.Password != "" {
		return fmt.Errorf("%w: a password cannot be set on a public room", shared.ErrInvalidInput)
	}
	return nil
}

// JoinRequest is the request body for joining a room. Password stays empty
// for public rooms; the server is the sole authority on correctness.
type JoinRequest struct {
	Password string `json:"password,omitempty"`
}

// ProviderConfig is the response of /auth/config: OAuth client ids,
// redirect URIs and scopes per provider.
type ProviderConfig struct {
	GoogleClientID     string `json:"google_client_id"`
	GoogleRedirectURI  string `json:"google_redirect_uri"`
	GoogleScopes       string `json:"google_scopes"`
	SpotifyClientID    string `json:"spotify_client_id"`
	SpotifyRedirectURI string `json:"spotify_redirect_uri"`
	SpotifyScopes      string `json:"spotify_scopes"`
}

// TrackArtist is an artist entry inside a catalog search result.
type TrackArtist struct {
	Name string `json:"name"`
}

// TrackAlbum is the album entry inside a catalog search result.
type TrackAlbum struct {
	Name   string       `json:"name"`
	Images []TrackImage `json:"images"`
}

// TrackImage is an image resource on an album.
type TrackImage struct {
	URL string `json:"url"`
}

// Track is a single catalog search hit from the Spotify proxy.
type Track struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Artists []TrackArtist `json:"artists"`
	Album   TrackAlbum    `json:"album"`
}

// TrackSearchResult mirrors the proxy's paginated search envelope.
type TrackSearchResult struct {
	Tracks struct {
		Items []Track `json:"items"`
	} `json:"tracks"`
}
