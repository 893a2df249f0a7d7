package server

import (
	"net/http"

	"trinkspiel/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleHome(c *gin.Context) {
	render(c, http.StatusOK, web.Home())
}

func (s *Server) handleLocalGame(c *gin.Context) {
	game, ok := web.FindLocalGame(c.Param("game"))
	if !ok {
		render(c, http.StatusNotFound, web.Home())
		return
	}
	// Creates the session cookie before the page starts calling the API.
	s.sessions.Games(c)
	render(c, http.StatusOK, web.LocalGamePage(game))
}

func (s *Server) handleOnlineLobby(c *gin.Context) {
	render(c, http.StatusOK, web.OnlineLobby(s.sessions.GetName(c), ""))
}

func (s *Server) handleRoomView(c *gin.Context) {
	current, err := s.rooms.JoinRoom(c.Request.Context(), c.Param("code"))
	if err != nil {
		status, flash := errorStatus(err)
		render(c, status, web.OnlineLobby(s.sessions.GetName(c), flash))
		return
	}
	cred := hostCredential(c, current.Code)
	render(c, http.StatusOK, web.RoomView(web.RoomPage{
		Code:          current.Code,
		Name:          s.sessions.GetName(c),
		ParticipantID: s.sessions.ensureSessionID(c),
		IsHost:        cred.Matches(current),
		ShareURL:      s.roomURL(c, current.Code),
	}))
}

func render(c *gin.Context, status int, component templ.Component) {
	templ.Handler(component, templ.WithStatus(status)).ServeHTTP(c.Writer, c.Request)
}
