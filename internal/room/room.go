// Package room manages shared rooms: their lifecycle, the host credential and
// the fan-out of room changes and presence to connected participants.
package room

import (
	"crypto/subtle"
	"errors"
	"maps"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrNotHost         = errors.New("only the host can do that")
	ErrInvalidCode     = errors.New("invalid room code")
	ErrWriteFailed     = errors.New("room write failed")
	ErrUnknownGame     = errors.New("unknown game")
	ErrInvalidCategory = errors.New("category not allowed for this game")

	errCodeTaken = errors.New("room code already in use")
)

const (
	GameTruthOrDare = "truth-or-dare"
	GameConfessions = "confessions"
	GameWouldRather = "would-rather"
	GameBuzzer      = "buzzer"
)

// Games lists the selectable games in menu order.
var Games = []string{GameTruthOrDare, GameConfessions, GameWouldRather, GameBuzzer}

func ValidGame(game string) bool {
	for _, known := range Games {
		if known == game {
			return true
		}
	}
	return false
}

const (
	MetaPlayerA = "player_a"
	MetaPlayerB = "player_b"
)

// Room is the shared state of one room. Version grows with every write.
type Room struct {
	Code            string            `json:"code"`
	HostToken       string            `json:"-"`
	CurrentCardID   *uint             `json:"current_card_id"`
	CurrentCardText *string           `json:"current_card_text"`
	CurrentGame     *string           `json:"current_game"`
	CurrentMeta     map[string]string `json:"current_meta"`
	Version         int64             `json:"version"`
}

func (r Room) clone() Room {
	out := r
	if r.CurrentCardID != nil {
		id := *r.CurrentCardID
		out.CurrentCardID = &id
	}
	if r.CurrentCardText != nil {
		text := *r.CurrentCardText
		out.CurrentCardText = &text
	}
	if r.CurrentGame != nil {
		game := *r.CurrentGame
		out.CurrentGame = &game
	}
	out.CurrentMeta = maps.Clone(r.CurrentMeta)
	if out.CurrentMeta == nil {
		out.CurrentMeta = map[string]string{}
	}
	return out
}

// CardText is the shown card text, "" when no card is shown.
func (r Room) CardText() string {
	if r.CurrentCardText == nil {
		return ""
	}
	return *r.CurrentCardText
}

func (r Room) Game() string {
	if r.CurrentGame == nil {
		return ""
	}
	return *r.CurrentGame
}

// Credential proves host rights for one room. It is resolved once at the
// edge (cookie or header) and handed down explicitly.
type Credential struct {
	Code  string
	Token string
}

func (c Credential) Matches(r Room) bool {
	if c.Token == "" || r.HostToken == "" || c.Code != r.Code {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Token), []byte(r.HostToken)) == 1
}
