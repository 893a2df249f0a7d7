package server

import (
	"net/http"
	"time"

	"trinkspiel/internal/catalog"
	"trinkspiel/internal/config"
	"trinkspiel/internal/room"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/swaggest/swgui/v5emb"
	"gorm.io/gorm"
)

type Server struct {
	db       *gorm.DB
	cfg      config.Config
	catalog  *catalog.Accessor
	rooms    *room.Manager
	sessions *sessionStore
	upgrader websocket.Upgrader
}

// New wires the service. A nil conn serves the built-in deck and keeps rooms
// in memory.
func New(conn *gorm.DB, cfg config.Config) *Server {
	var source catalog.Source = catalog.SeedSource()
	var rooms room.Store = room.NewMemoryStore()
	if conn != nil {
		source = catalog.NewGormSource(conn)
		rooms = room.NewGormStore(conn)
	}
	accessor := catalog.NewAccessor(source, cfg.CatalogPageSize)
	idle := time.Duration(cfg.LocalSessionIdleSeconds) * time.Second
	return &Server{
		db:       conn,
		cfg:      cfg,
		catalog:  accessor,
		rooms:    room.NewManager(rooms, room.NewHub(), accessor.WithPageSize(cfg.RoomPageSize)),
		sessions: newSessionStore(accessor, idle),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (s *Server) Handler() http.Handler {
	registerValidators()
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", s.handleHome)
	router.GET("/play/:game", s.handleLocalGame)
	router.GET("/online", s.handleOnlineLobby)
	router.GET("/online/:code", s.handleRoomView)
	router.GET("/healthz", s.handleHealth)
	router.GET("/openapi.json", s.handleOpenAPI)
	router.GET("/docs/*any", gin.WrapH(v5emb.New("Trinkspiel API", "/openapi.json", "/docs/")))

	rooms := router.Group("/api/rooms")
	rooms.POST("", s.handleCreateRoom)
	rooms.GET("/:code", s.handleGetRoom)
	rooms.POST("/:code/join", s.handleJoinRoom)
	rooms.POST("/:code/leave", s.handleLeaveRoom)
	rooms.POST("/:code/game", s.handleSelectGame)
	rooms.POST("/:code/draw", s.handleDrawCard)
	rooms.GET("/:code/qr.png", s.handleRoomQR)
	router.GET("/ws/rooms/:code", s.handleRoomWebsocket)

	local := router.Group("/api/local")
	local.DELETE("/session", s.handleEndSession)
	local.GET("/truth-or-dare", s.handleTruthOrDareState)
	local.POST("/truth-or-dare/draw", s.handleTruthOrDareDraw)
	local.POST("/truth-or-dare/drink", s.handleTruthOrDareDrink)
	local.GET("/confessions", s.handleConfessionState)
	local.POST("/confessions/next", s.handleConfessionNext)
	local.POST("/confessions/vote", s.handleConfessionVote)
	local.POST("/confessions/submit", s.handleConfessionSubmit)
	local.GET("/would-rather", s.handleWouldRatherState)
	local.POST("/would-rather/players", s.handleWouldRatherAddPlayer)
	local.DELETE("/would-rather/players/:name", s.handleWouldRatherRemovePlayer)
	local.POST("/would-rather/play", s.handleWouldRatherPlay)
	local.POST("/would-rather/next", s.handleWouldRatherNext)
	local.POST("/would-rather/setup", s.handleWouldRatherSetup)
	local.GET("/buzzer", s.handleBuzzerState)
	local.POST("/buzzer/start", s.handleBuzzerStart)
	local.POST("/buzzer/cancel", s.handleBuzzerCancel)
	local.POST("/buzzer/buzz", s.handleBuzzerBuzz)
	local.POST("/buzzer/again", s.handleBuzzerAgain)
	local.POST("/buzzer/next", s.handleBuzzerNext)
	return router
}

// Close tears down every local session and its timers.
func (s *Server) Close() {
	s.sessions.Close()
}

func (s *Server) handleHealth(c *gin.Context) {
	status := gin.H{"status": "ok", "database": "disabled"}
	if s.db == nil {
		c.JSON(http.StatusOK, status)
		return
	}
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	status["database"] = "ok"
	c.JSON(http.StatusOK, status)
}
