package ui

import (
	"fmt"

	"github.com/Lalka12235/TuneWave/internal/models"
	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = roomItem{}
	_ list.Item = memberItem{}
)

// roomItem wraps [models.Room] to implement [list.Item].
type roomItem struct {
	room models.Room
}

func (i roomItem) FilterValue() string { return i.room.Name }
func (i roomItem) Title() string {
	if i.room.IsPrivate {
		return fmt.Sprintf("%s 🔒", i.room.Name)
	}
	return i.room.Name
}
func (i roomItem) Description() string {
	desc := fmt.Sprintf("%d/%d members", i.room.CurrentMemberCount, i.room.MaxMembers)
	if i.room.IsPlaying && i.room.CurrentTrackID != nil {
		desc = fmt.Sprintf("%s • playing %s", desc, *i.room.CurrentTrackID)
	}
	return desc
}

// memberItem wraps [models.Member] to implement [list.Item].
type memberItem struct {
	member models.Member
}

func (i memberItem) FilterValue() string { return i.member.Username }
func (i memberItem) Title() string       { return i.member.Username }
func (i memberItem) Description() string { return i.member.ID }
