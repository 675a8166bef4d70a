package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Lalka12235/TuneWave/internal/models"
	"github.com/Lalka12235/TuneWave/internal/session"
)

func roomFixture(name string) models.Room {
	return models.Room{
		ID:         "2b0d7b3d-0000-4000-8000-000000000001",
		Name:       name,
		MaxMembers: 10,
		OwnerID:    "2b0d7b3d-0000-4000-8000-000000000002",
		CreatedAt:  time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestRoomOperations(t *testing.T) {
	t.Run("ListRooms", func(t *testing.T) {
		t.Run("decodes room collection in server order", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/rooms/" {
					t.Errorf("expected path '/rooms/', got %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode([]models.Room{roomFixture("zebra"), roomFixture("alpha")})
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, nil)
			rooms, err := c.ListRooms(context.Background())

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(rooms) != 2 {
				t.Fatalf("expected 2 rooms, got %d", len(rooms))
			}
			if rooms[0].Name != "zebra" || rooms[1].Name != "alpha" {
				t.Error("expected server ordering to be preserved")
			}
		})

		t.Run("empty collection decodes to empty slice", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("[]"))
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, nil)
			rooms, err := c.ListRooms(context.Background())

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(rooms) != 0 {
				t.Errorf("expected empty collection, got %d rooms", len(rooms))
			}
		})
	})

	t.Run("CreateRoom", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}

			var body models.RoomCreate
			json.NewDecoder(r.Body).Decode(&body)
			if body.Name != "listening party" || body.MaxMembers != 5 {
				t.Errorf("unexpected request body: %+v", body)
			}
			if !body.IsPrivate || body.Password != "secret1" {
				t.Error("expected private room payload with password")
			}

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(roomFixture("listening party"))
		}))
		defer server.Close()

		c := NewClient(server.URL, nil, session.NewMemoryStore("tok"))
		room, err := c.CreateRoom(context.Background(), models.RoomCreate{
			Name:       "listening party",
			MaxMembers: 5,
			IsPrivate:  true,
			Password:   "secret1",
		})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if room.Name != "listening party" {
			t.Errorf("expected created room, got %+v", room)
		}
	})

	t.Run("UpdateRoom sends explicit null password for public rooms", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var raw map[string]json.RawMessage
			json.NewDecoder(r.Body).Decode(&raw)

			if v, present := raw["password"]; !present || string(v) != "null" {
				t.Errorf("expected password to marshal as explicit null, got %s", v)
			}
			if _, present := raw["name"]; present {
				t.Error("expected unset name to be omitted")
			}

			json.NewEncoder(w).Encode(roomFixture("renamed"))
		}))
		defer server.Close()

		c := NewClient(server.URL, nil, session.NewMemoryStore("tok"))
		_, err := c.UpdateRoom(context.Background(), "room-1", models.RoomUpdate{IsPrivate: false})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("JoinRoom", func(t *testing.T) {
		t.Run("sends password in body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/rooms/room-1/join" {
					t.Errorf("expected join path, got %s", r.URL.Path)
				}
				var body models.JoinRequest
				json.NewDecoder(r.Body).Decode(&body)
				if body.Password != "hunter2" {
					t.Errorf("expected password 'hunter2', got %q", body.Password)
				}
				json.NewEncoder(w).Encode(roomFixture("private room"))
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, session.NewMemoryStore("tok"))
			if _, err := c.JoinRoom(context.Background(), "room-1", "hunter2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("wrong password surfaces server detail", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]any{
					"detail": []map[string]string{{"msg": "bad password"}},
				})
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, session.NewMemoryStore("tok"))
			_, err := c.JoinRoom(context.Background(), "room-1", "wrong")

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Message() != "bad password" {
				t.Errorf("expected 'bad password', got %q", apiErr.Message())
			}
		})
	})

	t.Run("LeaveRoom returns server detail verbatim", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/rooms/room-1/leave" {
				t.Errorf("expected leave path, got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]string{"detail": "Вы покинули комнату"})
		}))
		defer server.Close()

		c := NewClient(server.URL, nil, session.NewMemoryStore("tok"))
		detail, err := c.LeaveRoom(context.Background(), "room-1")

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if detail != "Вы покинули комнату" {
			t.Errorf("expected verbatim server detail, got %q", detail)
		}
	})

	t.Run("RoomMembers", func(t *testing.T) {
		t.Run("requires no token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "" {
					t.Error("expected unauthenticated request")
				}
				json.NewEncoder(w).Encode([]models.Member{{ID: "u1", Username: "ana"}})
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, nil)
			members, err := c.RoomMembers(context.Background(), "room-1")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(members) != 1 || members[0].Username != "ana" {
				t.Errorf("unexpected members: %+v", members)
			}
		})

		t.Run("empty room yields empty list without error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("[]"))
			}))
			defer server.Close()

			c := NewClient(server.URL, nil, nil)
			members, err := c.RoomMembers(context.Background(), "room-1")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(members) != 0 {
				t.Errorf("expected no members, got %d", len(members))
			}
		})
	})

	t.Run("RoomByName escapes the query", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("name"); got != "late night mix" {
				t.Errorf("expected query 'late night mix', got %q", got)
			}
			json.NewEncoder(w).Encode(roomFixture("late night mix"))
		}))
		defer server.Close()

		c := NewClient(server.URL, nil, nil)
		if _, err := c.RoomByName(context.Background(), "late night mix"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}
