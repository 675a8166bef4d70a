// package formatter renders room and track listings to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Lalka12235/TuneWave/internal/models"
	"github.com/Lalka12235/TuneWave/internal/shared"
)

func privacyString(private bool) string {
	if private {
		return "private"
	}
	return "public"
}

func playingString(room models.Room) string {
	if !room.IsPlaying || room.CurrentTrackID == nil {
		return "-"
	}
	return *room.CurrentTrackID
}

// RoomsToCSV converts a room listing to CSV with columns: ID, Name, Privacy, Members, Capacity, Playing
func RoomsToCSV(rooms []models.Room) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Privacy", "Members", "Capacity", "Playing"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, room := range rooms {
		record := []string{
			room.ID,
			room.Name,
			privacyString(room.IsPrivate),
			strconv.Itoa(room.CurrentMemberCount),
			strconv.Itoa(room.MaxMembers),
			playingString(room),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RoomsToMarkdown converts a room listing to a Markdown document with one
// section per room.
func RoomsToMarkdown(title string, rooms []models.Room) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Rooms**: %d\n\n", len(rooms)))

	for _, room := range rooms {
		buf.WriteString(fmt.Sprintf("## %s\n\n", room.Name))
		buf.WriteString(fmt.Sprintf("- ID: `%s`\n", room.ID))
		buf.WriteString(fmt.Sprintf("- Privacy: %s\n", privacyString(room.IsPrivate)))
		buf.WriteString(fmt.Sprintf("- Members: %d/%d\n", room.CurrentMemberCount, room.MaxMembers))
		if room.IsPlaying && room.CurrentTrackID != nil {
			buf.WriteString(fmt.Sprintf("- Playing: `%s` at %s\n", *room.CurrentTrackID, formatPosition(room.CurrentTrackPosMS)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// RoomsToText converts a room listing to an aligned plain text table.
func RoomsToText(rooms []models.Room) []byte {
	var buf bytes.Buffer

	if len(rooms) == 0 {
		buf.WriteString("no rooms\n")
		return buf.Bytes()
	}

	nameWidth := len("NAME")
	for _, room := range rooms {
		if len(room.Name) > nameWidth {
			nameWidth = len(room.Name)
		}
	}

	buf.WriteString(fmt.Sprintf("%-*s  %-8s  %-9s  %s\n", nameWidth, "NAME", "PRIVACY", "MEMBERS", "ID"))
	for _, room := range rooms {
		members := fmt.Sprintf("%d/%d", room.CurrentMemberCount, room.MaxMembers)
		buf.WriteString(fmt.Sprintf("%-*s  %-8s  %-9s  %s\n",
			nameWidth, room.Name, privacyString(room.IsPrivate), members, room.ID))
	}

	return buf.Bytes()
}

// MembersToText converts a member listing to plain text, one member per line.
func MembersToText(members []models.Member) []byte {
	var buf bytes.Buffer
	for i, member := range members {
		buf.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, member.Username, member.ID))
	}
	return buf.Bytes()
}

// TracksToText converts catalog search hits to plain text, one track per line.
func TracksToText(tracks []models.Track) []byte {
	var buf bytes.Buffer
	for i, track := range tracks {
		var artists []string
		for _, artist := range track.Artists {
			artists = append(artists, artist.Name)
		}
		line := fmt.Sprintf("%d. %s - %s", i+1, strings.Join(artists, ", "), track.Name)
		if track.Album.Name != "" {
			line += fmt.Sprintf(" (%s)", track.Album.Name)
		}
		buf.WriteString(line + " [" + track.ID + "]\n")
	}
	return buf.Bytes()
}

// ToRoomJSON generates a pretty JSON representation of a room.
func ToRoomJSON(room models.Room) ([]byte, error) {
	return shared.MarshalJSON(room, true)
}

// formatPosition renders a playback position in mm:ss.
func formatPosition(ms int) string {
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// CSVExportResult contains the path of the file created by WriteRoomsCSV
type CSVExportResult struct {
	RoomsFile string
}

// WriteRoomsCSV writes a room listing to {base}_rooms.csv.
func WriteRoomsCSV(rooms []models.Room, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "rooms"
	}

	data, err := RoomsToCSV(rooms)
	if err != nil {
		return nil, err
	}

	path := baseFilepath + "_rooms.csv"
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	return &CSVExportResult{RoomsFile: path}, nil
}
