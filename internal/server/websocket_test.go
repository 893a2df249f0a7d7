package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"trinkspiel/internal/room"

	"github.com/gorilla/websocket"
)

func dialRoom(t *testing.T, wsBase, code, name, participantID string) *websocket.Conn {
	t.Helper()
	query := url.Values{"name": {name}, "participant_id": {participantID}}
	conn, _, err := websocket.DefaultDialer.Dial(wsBase+"/ws/rooms/"+code+"?"+query.Encode(), nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func readNotification(t *testing.T, conn *websocket.Conn, timeout time.Duration) room.Notification {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read websocket: %v", err)
	}
	var n room.Notification
	if err := json.Unmarshal(payload, &n); err != nil {
		t.Fatalf("decode notification: %v", err)
	}
	return n
}

// waitForNotification skips notifications until one matches.
func waitForNotification(t *testing.T, conn *websocket.Conn, timeout time.Duration, match func(room.Notification) bool) room.Notification {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			t.Fatalf("timed out waiting for notification")
		}
		n := readNotification(t, conn, remaining)
		if match(n) {
			return n
		}
	}
}

func TestWebsocketUnknownRoom(t *testing.T) {
	_, ts := newTestApp(t)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rooms/ZZZZ"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatalf("expected dial to fail for unknown room")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 handshake response, got %#v", resp)
	}
}

func TestWebsocketBroadcastsRoomChanges(t *testing.T) {
	_, ts := newTestApp(t)
	wsBase := "ws" + strings.TrimPrefix(ts.URL, "http")
	host := newClient(t)
	code, _ := createRoom(t, host, ts, "Anna")

	guest := dialRoom(t, wsBase, code, "Ben", "guest-1")
	snapshot := readNotification(t, guest, time.Second)
	if snapshot.Type != room.EventRoom || snapshot.Room == nil || snapshot.Room.Version != 1 {
		t.Fatalf("expected initial snapshot, got %#v", snapshot)
	}
	roster := readNotification(t, guest, time.Second)
	if roster.Type != room.EventRoster || len(roster.Roster) != 1 || roster.Roster[0].DisplayName != "Ben" {
		t.Fatalf("expected roster with guest, got %#v", roster)
	}

	hostConn := dialRoom(t, wsBase, code, "Anna", "host-1")
	roster = waitForNotification(t, guest, time.Second, func(n room.Notification) bool {
		return n.Type == room.EventRoster
	})
	if len(roster.Roster) != 2 {
		t.Fatalf("expected two participants, got %#v", roster.Roster)
	}

	expectStatus(t, doRequest(t, host, ts, http.MethodPost, "/api/rooms/"+code+"/game", map[string]string{"game": "would-rather"}), http.StatusOK)
	expectStatus(t, doRequest(t, host, ts, http.MethodPost, "/api/rooms/"+code+"/draw", map[string]string{"participant_id": "host-1"}), http.StatusOK)

	for _, conn := range []*websocket.Conn{guest, hostConn} {
		drawn := waitForNotification(t, conn, time.Second, func(n room.Notification) bool {
			return n.Type == room.EventRoom && n.Room != nil && n.Room.Version == 3
		})
		meta := drawn.Room.CurrentMeta
		if drawn.Room.CardText() == "" || meta[room.MetaPlayerA] == "" || meta[room.MetaPlayerA] == meta[room.MetaPlayerB] {
			t.Fatalf("expected card with two names, got %#v", drawn.Room)
		}
	}

	expectStatus(t, doRequest(t, host, ts, http.MethodPost, "/api/rooms/"+code+"/leave", nil), http.StatusOK)
	waitForNotification(t, guest, time.Second, func(n room.Notification) bool {
		return n.Type == room.EventClosed
	})
}

func TestWebsocketIssuesSessionCookie(t *testing.T) {
	_, ts := newTestApp(t)
	code, _ := createRoom(t, newClient(t), ts, "Anna")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rooms/" + code + "?name=Ben"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	var sessionID string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookie {
			sessionID = cookie.Value
		}
	}
	if sessionID == "" {
		t.Fatalf("expected %s cookie on the upgrade response", sessionCookie)
	}
	roster := waitForNotification(t, conn, time.Second, func(n room.Notification) bool {
		return n.Type == room.EventRoster
	})
	if len(roster.Roster) != 1 || roster.Roster[0].ParticipantID != sessionID {
		t.Fatalf("expected participant id %s, got %#v", sessionID, roster.Roster)
	}
}
