package server

import (
	"errors"
	"net/http"

	"trinkspiel/internal/catalog"
	"trinkspiel/internal/game"
	"trinkspiel/internal/room"

	"github.com/gin-gonic/gin"
)

const (
	msgNoCards          = "Keine Karten verfügbar."
	msgRoomNotFound     = "Raum nicht gefunden."
	msgInvalidCode      = "Ungültiger Raumcode."
	msgWriteFailed      = "Bitte nochmal versuchen."
	msgNotHost          = "Nur der Host kann das."
	msgWrongPhase       = "Das geht gerade nicht."
	msgAlreadyVoted     = "Du hast schon abgestimmt."
	msgNotEnoughPlayers = "Füge mindestens 2 Spieler hinzu."
	msgUnknownGame      = "Unbekanntes Spiel."
	msgInvalidCategory  = "Diese Kategorie passt nicht zum Spiel."
	msgSessionClosed    = "Sitzung beendet."
)

// respondError maps domain errors to status codes and user messages.
func respondError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	c.JSON(status, gin.H{"error": message})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, msgNoCards
	case errors.Is(err, room.ErrRoomNotFound):
		return http.StatusNotFound, msgRoomNotFound
	case errors.Is(err, room.ErrInvalidCode):
		return http.StatusNotFound, msgInvalidCode
	case errors.Is(err, room.ErrNotHost):
		return http.StatusForbidden, msgNotHost
	case errors.Is(err, room.ErrUnknownGame):
		return http.StatusBadRequest, msgUnknownGame
	case errors.Is(err, room.ErrInvalidCategory):
		return http.StatusBadRequest, msgInvalidCategory
	case errors.Is(err, game.ErrAlreadyVoted):
		return http.StatusConflict, msgAlreadyVoted
	case errors.Is(err, game.ErrNotEnoughPlayers):
		return http.StatusConflict, msgNotEnoughPlayers
	case errors.Is(err, game.ErrWrongPhase):
		return http.StatusConflict, msgWrongPhase
	case errors.Is(err, game.ErrClosed):
		return http.StatusGone, msgSessionClosed
	case errors.Is(err, room.ErrWriteFailed), errors.Is(err, catalog.ErrWriteFailed):
		return http.StatusInternalServerError, msgWriteFailed
	default:
		return http.StatusInternalServerError, msgWriteFailed
	}
}
