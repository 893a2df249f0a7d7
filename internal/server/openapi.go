package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"trinkspiel/internal/catalog"
	"trinkspiel/internal/game"

	"github.com/gin-gonic/gin"
	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type closedResponse struct {
	Closed bool `json:"closed"`
}

type endedResponse struct {
	Ended bool `json:"ended"`
}

type roomPath struct {
	Code string `path:"code" pattern:"^[A-HJ-NP-Z2-9a-hj-np-z2-9]{4}$"`
}

type joinRoomDoc struct {
	Code string `path:"code"`
	Name string `json:"name"`
}

type selectGameDoc struct {
	Code string `path:"code"`
	Game string `json:"game" enum:"truth-or-dare,confessions,would-rather,buzzer"`
}

type drawCardDoc struct {
	Code          string `path:"code"`
	Category      string `json:"category,omitempty" enum:"truth,dare,would-rather,buzzer,confession"`
	ParticipantID string `json:"participant_id,omitempty"`
}

type roomSocketDoc struct {
	Code          string `path:"code"`
	Name          string `query:"name"`
	ParticipantID string `query:"participant_id"`
}

type playerPath struct {
	Name string `path:"name"`
}

type operation struct {
	method      string
	path        string
	summary     string
	description string
	request     any
	responses   []response
}

type response struct {
	status int
	body   any
}

var (
	openAPIOnce sync.Once
	openAPIData []byte
)

func apiOperations() []operation {
	notFound := response{http.StatusNotFound, ErrorResponse{}}
	badRequest := response{http.StatusBadRequest, ErrorResponse{}}
	forbidden := response{http.StatusForbidden, ErrorResponse{}}
	conflict := response{http.StatusConflict, ErrorResponse{}}
	failed := response{http.StatusInternalServerError, ErrorResponse{}}
	return []operation{
		{http.MethodGet, "/healthz", "Health check", "Reports whether the database answers.", nil,
			[]response{{http.StatusOK, healthResponse{}}, {http.StatusServiceUnavailable, healthResponse{}}}},
		{http.MethodPost, "/api/rooms", "Create room", "Creates a room and sets the host cookie ts_host_<CODE>.", createRoomRequest{},
			[]response{{http.StatusCreated, createRoomResponse{}}, badRequest, failed}},
		{http.MethodGet, "/api/rooms/{code}", "Get room", "Returns the room, the caller's host flag and the roster.", roomPath{},
			[]response{{http.StatusOK, roomResponse{}}, notFound}},
		{http.MethodPost, "/api/rooms/{code}/join", "Join room", "Looks the room up and remembers the display name.", joinRoomDoc{},
			[]response{{http.StatusOK, roomResponse{}}, badRequest, notFound}},
		{http.MethodPost, "/api/rooms/{code}/leave", "Leave room", "The host closes the room for everybody; others leave without effect.", roomPath{},
			[]response{{http.StatusOK, closedResponse{}}, notFound, failed}},
		{http.MethodPost, "/api/rooms/{code}/game", "Select game", "Host only. Clears the current card.", selectGameDoc{},
			[]response{{http.StatusOK, roomResponse{}}, badRequest, forbidden, notFound, failed}},
		{http.MethodPost, "/api/rooms/{code}/draw", "Draw card", "Host only. Draws the next card for the selected game.", drawCardDoc{},
			[]response{{http.StatusOK, roomResponse{}}, badRequest, forbidden, notFound, failed}},
		{http.MethodGet, "/api/rooms/{code}/qr.png", "Room QR code", "PNG QR code of the room link.", roomPath{},
			[]response{{http.StatusOK, nil}, notFound}},
		{http.MethodGet, "/ws/rooms/{code}", "Room channel", "Websocket pushing room, roster and closed messages.", roomSocketDoc{},
			[]response{{http.StatusSwitchingProtocols, nil}, notFound}},
		{http.MethodDelete, "/api/local/session", "End local session", "Tears down the caller's single-device games.", nil,
			[]response{{http.StatusOK, endedResponse{}}}},
		{http.MethodGet, "/api/local/truth-or-dare", "Truth or dare state", "", nil,
			[]response{{http.StatusOK, game.TruthOrDareState{}}}},
		{http.MethodPost, "/api/local/truth-or-dare/draw", "Draw truth or dare", "", truthOrDareDrawRequest{},
			[]response{{http.StatusOK, game.TruthOrDareState{}}, badRequest, notFound}},
		{http.MethodPost, "/api/local/truth-or-dare/drink", "Count a drink", "", nil,
			[]response{{http.StatusOK, game.TruthOrDareState{}}}},
		{http.MethodGet, "/api/local/confessions", "Confession state", "", nil,
			[]response{{http.StatusOK, game.ConfessionState{}}}},
		{http.MethodPost, "/api/local/confessions/next", "Next confession", "", nil,
			[]response{{http.StatusOK, game.ConfessionState{}}, notFound}},
		{http.MethodPost, "/api/local/confessions/vote", "Vote", "One vote per shown card.", confessionVoteRequest{},
			[]response{{http.StatusOK, game.ConfessionState{}}, badRequest, conflict, failed}},
		{http.MethodPost, "/api/local/confessions/submit", "Submit confession", "", confessionSubmitRequest{},
			[]response{{http.StatusCreated, catalog.Confession{}}, badRequest, failed}},
		{http.MethodGet, "/api/local/would-rather", "Would rather state", "", nil,
			[]response{{http.StatusOK, game.WouldRatherState{}}}},
		{http.MethodPost, "/api/local/would-rather/players", "Add player", "", playerRequest{},
			[]response{{http.StatusOK, game.WouldRatherState{}}, badRequest}},
		{http.MethodDelete, "/api/local/would-rather/players/{name}", "Remove player", "", playerPath{},
			[]response{{http.StatusOK, game.WouldRatherState{}}}},
		{http.MethodPost, "/api/local/would-rather/play", "Start playing", "Needs at least two players.", nil,
			[]response{{http.StatusOK, game.WouldRatherState{}}, conflict, notFound}},
		{http.MethodPost, "/api/local/would-rather/next", "Next round", "", nil,
			[]response{{http.StatusOK, game.WouldRatherState{}}, conflict, notFound}},
		{http.MethodPost, "/api/local/would-rather/setup", "Back to setup", "", nil,
			[]response{{http.StatusOK, game.WouldRatherState{}}}},
		{http.MethodGet, "/api/local/buzzer", "Buzzer state", "", nil,
			[]response{{http.StatusOK, game.BuzzerState{}}, notFound}},
		{http.MethodPost, "/api/local/buzzer/start", "Start round", "", nil,
			[]response{{http.StatusOK, game.BuzzerState{}}, conflict}},
		{http.MethodPost, "/api/local/buzzer/cancel", "Cancel round", "", nil,
			[]response{{http.StatusOK, game.BuzzerState{}}, conflict}},
		{http.MethodPost, "/api/local/buzzer/buzz", "Buzz", "Scores the time since the reveal.", nil,
			[]response{{http.StatusOK, game.BuzzerState{}}, conflict}},
		{http.MethodPost, "/api/local/buzzer/again", "Play again", "", nil,
			[]response{{http.StatusOK, game.BuzzerState{}}, conflict}},
		{http.MethodPost, "/api/local/buzzer/next", "Next card", "Not allowed while a round runs.", nil,
			[]response{{http.StatusOK, game.BuzzerState{}}, conflict}},
	}
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Trinkspiel API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Party card games on one device or shared in a room.")

	for _, op := range apiOperations() {
		ctx, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			continue
		}
		ctx.SetSummary(op.summary)
		if op.description != "" {
			ctx.SetDescription(op.description)
		}
		if op.request != nil {
			ctx.AddReqStructure(op.request)
		}
		for _, resp := range op.responses {
			opts := []openapi.ContentOption{openapi.WithHTTPStatus(resp.status)}
			if resp.body == nil && resp.status == http.StatusOK {
				opts = append(opts, openapi.WithContentType("image/png"))
			}
			ctx.AddRespStructure(resp.body, opts...)
		}
		_ = r.AddOperation(ctx)
	}
	return r.Spec
}

func (s *Server) handleOpenAPI(c *gin.Context) {
	openAPIOnce.Do(func() {
		openAPIData, _ = json.MarshalIndent(newOpenAPISpec(), "", "  ")
	})
	c.Data(http.StatusOK, "application/json; charset=utf-8", openAPIData)
}
