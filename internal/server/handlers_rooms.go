package server

import (
	"log"
	"net/http"

	"trinkspiel/internal/room"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

type roomURI struct {
	Code string `uri:"code" binding:"required,roomcode"`
}

type createRoomRequest struct {
	Name string `json:"name" binding:"required,name"`
}

type joinRoomRequest struct {
	Name string `json:"name" binding:"required,name"`
}

type selectGameRequest struct {
	Game string `json:"game" binding:"required,game"`
}

type drawCardRequest struct {
	Category      string `json:"category" binding:"omitempty,category"`
	ParticipantID string `json:"participant_id"`
}

type createRoomResponse struct {
	Code      string `json:"code"`
	HostToken string `json:"host_token"`
}

type roomResponse struct {
	Room          room.Room       `json:"room"`
	IsHost        bool            `json:"is_host"`
	ParticipantID string          `json:"participant_id,omitempty"`
	Roster        []room.Presence `json:"roster"`
}

var nameMessages = bindMessages{
	"Name": {
		"required": "Bitte gib einen Namen ein.",
		"name":     "Dieser Name ist ungültig.",
	},
}

// roomCode binds and normalizes the :code path parameter.
func roomCode(c *gin.Context) (string, bool) {
	var uri roomURI
	if !bindURI(c, &uri) {
		return "", false
	}
	code, err := room.NormalizeCode(uri.Code)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return code, true
}

func (s *Server) handleCreateRoom(c *gin.Context) {
	var req createRoomRequest
	if !bindJSON(c, &req, nameMessages, "") {
		return
	}
	name, _ := validateName(req.Name)
	created, cred, err := s.rooms.CreateRoom(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	s.sessions.SetName(c, name)
	setHostCookie(c, cred)
	c.JSON(http.StatusCreated, createRoomResponse{Code: created.Code, HostToken: cred.Token})
}

func (s *Server) handleGetRoom(c *gin.Context) {
	code, ok := roomCode(c)
	if !ok {
		return
	}
	current, err := s.rooms.JoinRoom(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.roomPayload(c, current))
}

func (s *Server) handleJoinRoom(c *gin.Context) {
	code, ok := roomCode(c)
	if !ok {
		return
	}
	var req joinRoomRequest
	if !bindJSON(c, &req, nameMessages, "") {
		return
	}
	current, err := s.rooms.JoinRoom(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}
	name, _ := validateName(req.Name)
	s.sessions.SetName(c, name)
	log.Printf("room joined code=%s", current.Code)
	c.JSON(http.StatusOK, s.roomPayload(c, current))
}

func (s *Server) handleLeaveRoom(c *gin.Context) {
	code, ok := roomCode(c)
	if !ok {
		return
	}
	cred := hostCredential(c, code)
	closed, err := s.rooms.LeaveRoom(c.Request.Context(), cred)
	if err != nil {
		respondError(c, err)
		return
	}
	if closed {
		clearHostCookie(c, code)
	}
	c.JSON(http.StatusOK, gin.H{"closed": closed})
}

func (s *Server) handleSelectGame(c *gin.Context) {
	code, ok := roomCode(c)
	if !ok {
		return
	}
	var req selectGameRequest
	if !bindJSON(c, &req, bindMessages{"Game": {"required": msgUnknownGame, "game": msgUnknownGame}}, "") {
		return
	}
	updated, err := s.rooms.SelectGame(c.Request.Context(), hostCredential(c, code), req.Game)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.roomPayload(c, updated))
}

func (s *Server) handleDrawCard(c *gin.Context) {
	code, ok := roomCode(c)
	if !ok {
		return
	}
	var req drawCardRequest
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &req, bindMessages{"Category": {"category": msgInvalidCategory}}, "") {
			return
		}
	}
	participantID := req.ParticipantID
	if participantID == "" {
		participantID = s.sessions.ensureSessionID(c)
	}
	updated, err := s.rooms.DrawCard(c.Request.Context(), hostCredential(c, code), participantID, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.roomPayload(c, updated))
}

// handleRoomQR renders the room link as a PNG so guests can scan it.
func (s *Server) handleRoomQR(c *gin.Context) {
	code, ok := roomCode(c)
	if !ok {
		return
	}
	if _, err := s.rooms.JoinRoom(c.Request.Context(), code); err != nil {
		respondError(c, err)
		return
	}
	png, err := qrcode.Encode(s.roomURL(c, code), qrcode.Medium, qrSize)
	if err != nil {
		log.Printf("qr encode failed code=%s error=%v", code, err)
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) roomURL(c *gin.Context, code string) string {
	base := s.cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/online/" + code
}

func (s *Server) roomPayload(c *gin.Context, current room.Room) roomResponse {
	return roomResponse{
		Room:          current,
		IsHost:        hostCredential(c, current.Code).Matches(current),
		ParticipantID: s.sessions.ensureSessionID(c),
		Roster:        s.rooms.Hub().Roster(current.Code),
	}
}
