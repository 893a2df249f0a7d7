package server

import (
	"net/http"

	"trinkspiel/internal/catalog"
	"trinkspiel/internal/game"

	"github.com/gin-gonic/gin"
)

type truthOrDareDrawRequest struct {
	Category string `json:"category" binding:"required,oneof=truth dare"`
}

type confessionVoteRequest struct {
	Choice string `json:"choice" binding:"required,oneof=admit never"`
}

type confessionSubmitRequest struct {
	Text string `json:"text" binding:"required,confession"`
}

type playerRequest struct {
	Name string `json:"name" binding:"required,name"`
}

type playerURI struct {
	Name string `uri:"name" binding:"required"`
}

func (s *Server) handleEndSession(c *gin.Context) {
	ended := s.sessions.End(c)
	c.JSON(http.StatusOK, gin.H{"ended": ended})
}

func (s *Server) truthOrDare(c *gin.Context) (*game.TruthOrDare, bool) {
	controller, err := s.sessions.Games(c).TruthOrDare()
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return controller, true
}

func (s *Server) handleTruthOrDareState(c *gin.Context) {
	controller, ok := s.truthOrDare(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, controller.State())
}

func (s *Server) handleTruthOrDareDraw(c *gin.Context) {
	var req truthOrDareDrawRequest
	if !bindJSON(c, &req, bindMessages{"Category": {"required": msgInvalidCategory, "oneof": msgInvalidCategory}}, "") {
		return
	}
	controller, ok := s.truthOrDare(c)
	if !ok {
		return
	}
	if _, err := controller.Draw(c.Request.Context(), req.Category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, controller.State())
}

func (s *Server) handleTruthOrDareDrink(c *gin.Context) {
	controller, ok := s.truthOrDare(c)
	if !ok {
		return
	}
	controller.Drink()
	c.JSON(http.StatusOK, controller.State())
}

func (s *Server) confessions(c *gin.Context) (*game.Confessions, bool) {
	controller, err := s.sessions.Games(c).Confessions()
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return controller, true
}

func (s *Server) handleConfessionState(c *gin.Context) {
	controller, ok := s.confessions(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, controller.State())
}

func (s *Server) handleConfessionNext(c *gin.Context) {
	controller, ok := s.confessions(c)
	if !ok {
		return
	}
	if _, err := controller.Next(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, controller.State())
}

func (s *Server) handleConfessionVote(c *gin.Context) {
	var req confessionVoteRequest
	if !bindJSON(c, &req, nil, "Ungültige Stimme.") {
		return
	}
	controller, ok := s.confessions(c)
	if !ok {
		return
	}
	if _, err := controller.Vote(c.Request.Context(), catalog.Choice(req.Choice)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, controller.State())
}

func (s *Server) handleConfessionSubmit(c *gin.Context) {
	var req confessionSubmitRequest
	if !bindJSON(c, &req, bindMessages{"Text": {
		"required":   "Bitte gib einen Satz ein.",
		"confession": "Dieser Satz ist ungültig.",
	}}, "") {
		return
	}
	controller, ok := s.confessions(c)
	if !ok {
		return
	}
	text, _ := validateConfession(req.Text)
	created, err := controller.Submit(c.Request.Context(), text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) wouldRather(c *gin.Context) (*game.WouldRather, bool) {
	controller, err := s.sessions.Games(c).WouldRather()
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return controller, true
}

func (s *Server) handleWouldRatherState(c *gin.Context) {
	controller, ok := s.wouldRather(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, controller.State())
}

func (s *Server) handleWouldRatherAddPlayer(c *gin.Context) {
	var req playerRequest
	if !bindJSON(c, &req, nameMessages, "") {
		return
	}
	controller, ok := s.wouldRather(c)
	if !ok {
		return
	}
	name, _ := validateName(req.Name)
	controller.AddPlayer(name)
	c.JSON(http.StatusOK, controller.State())
}

func (s *Server) handleWouldRatherRemovePlayer(c *gin.Context) {
	var uri playerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Spieler nicht gefunden."})
		return
	}
	controller, ok := s.wouldRather(c)
	if !ok {
		return
	}
	controller.RemovePlayer(uri.Name)
	c.JSON(http.StatusOK, controller.State())
}

func (s *Server) handleWouldRatherPlay(c *gin.Context) {
	controller, ok := s.wouldRather(c)
	if !ok {
		return
	}
	if err := controller.Play(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, controller.State())
}

func (s *Server) handleWouldRatherNext(c *gin.Context) {
	controller, ok := s.wouldRather(c)
	if !ok {
		return
	}
	if err := controller.NextRound(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, controller.State())
}

func (s *Server) handleWouldRatherSetup(c *gin.Context) {
	controller, ok := s.wouldRather(c)
	if !ok {
		return
	}
	controller.Setup()
	c.JSON(http.StatusOK, controller.State())
}

func (s *Server) buzzer(c *gin.Context) (*game.Buzzer, bool) {
	controller, err := s.sessions.Games(c).Buzzer(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return controller, true
}

func (s *Server) handleBuzzerState(c *gin.Context) {
	controller, ok := s.buzzer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, controller.State())
}

// buzzerAction runs one buzzer transition and answers with the new state.
func (s *Server) buzzerAction(c *gin.Context, action func(*game.Buzzer) error) {
	controller, ok := s.buzzer(c)
	if !ok {
		return
	}
	if err := action(controller); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, controller.State())
}

func (s *Server) handleBuzzerStart(c *gin.Context) {
	s.buzzerAction(c, (*game.Buzzer).Start)
}

func (s *Server) handleBuzzerCancel(c *gin.Context) {
	s.buzzerAction(c, (*game.Buzzer).Cancel)
}

func (s *Server) handleBuzzerBuzz(c *gin.Context) {
	s.buzzerAction(c, func(b *game.Buzzer) error {
		_, err := b.Buzz(c.Request.Context())
		return err
	})
}

func (s *Server) handleBuzzerAgain(c *gin.Context) {
	s.buzzerAction(c, (*game.Buzzer).PlayAgain)
}

func (s *Server) handleBuzzerNext(c *gin.Context) {
	s.buzzerAction(c, (*game.Buzzer).Next)
}
