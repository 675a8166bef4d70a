package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Lalka12235/TuneWave/internal/models"
	"github.com/Lalka12235/TuneWave/internal/shared"
)

// notFound maps a 404 response onto the room-lookup sentinel.
func notFound(err error, name string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", shared.ErrRoomNotFound, name)
	}
	return err
}

// detailResponse is the `{"detail": "..."}` body some write endpoints
// return on success.
type detailResponse struct {
	Detail string `json:"detail"`
}

// ListRooms retrieves every available room. Unauthenticated.
func (c *Client) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := c.do(ctx, http.MethodGet, "/rooms/", false, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// MyRooms retrieves the rooms the authenticated user belongs to.
func (c *Client) MyRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := c.do(ctx, http.MethodGet, "/rooms/my-rooms", true, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// RoomByID retrieves a single room. Unauthenticated.
func (c *Client) RoomByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	if err := c.do(ctx, http.MethodGet, "/rooms/"+id, false, nil, &room); err != nil {
		return nil, notFound(err, id)
	}
	return &room, nil
}

// RoomByName retrieves a single room by its unique name. Unauthenticated.
func (c *Client) RoomByName(ctx context.Context, name string) (*models.Room, error) {
	var room models.Room
	path := "/rooms/by-name/?name=" + url.QueryEscape(name)
	if err := c.do(ctx, http.MethodGet, path, false, nil, &room); err != nil {
		return nil, notFound(err, name)
	}
	return &room, nil
}

// CreateRoom creates a room owned by the authenticated user. The payload
// must already satisfy [models.RoomCreate.Validate]; the server enforces
// the same constraint.
func (c *Client) CreateRoom(ctx context.Context, data models.RoomCreate) (*models.Room, error) {
	var room models.Room
	if err := c.do(ctx, http.MethodPost, "/rooms/", true, data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// UpdateRoom applies a partial update to a room the user owns.
func (c *Client) UpdateRoom(ctx context.Context, id string, data models.RoomUpdate) (*models.Room, error) {
	var room models.Room
	if err := c.do(ctx, http.MethodPut, "/rooms/"+id, true, data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom removes a room the user owns.
func (c *Client) DeleteRoom(ctx context.Context, id string) error {
	var resp detailResponse
	return c.do(ctx, http.MethodDelete, "/rooms/"+id, true, nil, &resp)
}

// JoinRoom adds the authenticated user to a room. The password stays empty
// for public rooms; a wrong password for a private room surfaces as a
// server-reported error.
func (c *Client) JoinRoom(ctx context.Context, id, password string) (*models.Room, error) {
	var room models.Room
	body := models.JoinRequest{Password: password}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/rooms/%s/join", id), true, body, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// LeaveRoom removes the authenticated user from a room and returns the
// server's detail message verbatim.
func (c *Client) LeaveRoom(ctx context.Context, id string) (string, error) {
	var resp detailResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/rooms/%s/leave", id), true, struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.Detail, nil
}

// RoomMembers lists a room's participants. Unauthenticated, mirroring the
// read endpoints.
func (c *Client) RoomMembers(ctx context.Context, id string) ([]models.Member, error) {
	var members []models.Member
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rooms/%s/members", id), false, nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}
