package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"trinkspiel/internal/room"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteTimeout = 10 * time.Second
	defaultGuest   = "Gast"
)

type roomSocketQuery struct {
	Name          string `form:"name"`
	ParticipantID string `form:"participant_id"`
}

// handleRoomWebsocket subscribes the caller to a room. One goroutine reads
// (only to notice the disconnect) and one owns every write.
func (s *Server) handleRoomWebsocket(c *gin.Context) {
	code, ok := roomCode(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	current, err := s.rooms.JoinRoom(ctx, code)
	if err != nil {
		respondError(c, err)
		return
	}
	var query roomSocketQuery
	_ = c.ShouldBindQuery(&query)
	name, err := validateName(query.Name)
	if err != nil {
		name = s.sessions.GetName(c)
	}
	if name == "" {
		name = defaultGuest
	}
	participantID := query.ParticipantID
	if participantID == "" {
		participantID = s.sessions.ensureSessionID(c)
	}
	isHost := hostCredential(c, code).Matches(current)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, upgradeHeader(c))
	if err != nil {
		return
	}
	log.Printf("ws connected room=%s participant_id=%s remote=%s", code, participantID, c.Request.RemoteAddr)
	sub := s.rooms.Hub().Subscribe(code, room.Presence{
		ParticipantID: participantID,
		DisplayName:   name,
		IsHost:        isHost,
	})
	// Read again after subscribing so no change falls between snapshot and
	// stream; the view drops whichever copy is older.
	snapshot, err := s.rooms.JoinRoom(ctx, code)
	if err != nil {
		snapshot = current
	}
	go s.writeRoomWS(conn, sub, snapshot)
	go s.readRoomWS(conn, sub)
}

// upgradeHeader carries cookies set while resolving the caller; the upgrade
// response does not include headers written to c.Writer.
func upgradeHeader(c *gin.Context) http.Header {
	cookies := c.Writer.Header().Values("Set-Cookie")
	if len(cookies) == 0 {
		return nil
	}
	header := http.Header{}
	for _, cookie := range cookies {
		header.Add("Set-Cookie", cookie)
	}
	return header
}

func (s *Server) readRoomWS(conn *websocket.Conn, sub *room.Subscription) {
	defer sub.Close()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("ws disconnected room=%s participant_id=%s error=%v", sub.Code(), sub.Presence().ParticipantID, err)
			return
		}
	}
}

func (s *Server) writeRoomWS(conn *websocket.Conn, sub *room.Subscription, snapshot room.Room) {
	defer conn.Close()
	if sub.View().Apply(snapshot) {
		if err := writeWS(conn, room.Notification{Type: room.EventRoom, Room: &snapshot}); err != nil {
			sub.Close()
			return
		}
	}
	for n := range sub.Events() {
		if !sub.Accept(n) {
			continue
		}
		if err := writeWS(conn, n); err != nil {
			sub.Close()
			continue
		}
		if n.Type == room.EventClosed {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "room closed"),
				time.Now().Add(wsWriteTimeout))
			sub.Close()
		}
	}
}

func writeWS(conn *websocket.Conn, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}
