package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"holdem-gameserver/game"
	"holdem-gameserver/logging"
)

var restLogger = logging.GetZeroLogger("rest::rest", nil)

//
// APP error definition
//
type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Server struct {
	service *game.GameService
	hub     *Hub
	limiter *rate.Limiter
}

func NewServer(service *game.GameService, hub *Hub) *Server {
	return &Server{
		service: service,
		hub:     hub,
		// burst absorbs a full table acting at once
		limiter: rate.NewLimiter(rate.Limit(100), 200),
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.Use(s.rateLimit)

	r.POST("/games", s.createGame)
	r.GET("/games/:gameId", s.getGame)
	r.GET("/games/:gameId/ws", s.subscribe)
	r.POST("/games/:gameId/join", s.join)
	r.POST("/games/:gameId/start", s.startHand)
	r.POST("/games/:gameId/act", s.act)
	r.POST("/games/:gameId/leave", s.leave)
	r.POST("/games/:gameId/sitout", s.sitOut)
	r.POST("/games/:gameId/sitin", s.sitIn)
	return r
}

func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) rateLimit(c *gin.Context) {
	if !s.limiter.Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, appError{
			Code:    http.StatusTooManyRequests,
			Message: "too many requests",
		})
		return
	}
	c.Next()
}

type playerRequest struct {
	PlayerID uint64 `json:"playerId" binding:"required"`
	Name     string `json:"name"`
	BuyIn    int64  `json:"buyIn"`
}

type actRequest struct {
	PlayerID uint64 `json:"playerId" binding:"required"`
	Action   string `json:"action" binding:"required"`
	Amount   int64  `json:"amount"`
}

func badRequest(c *gin.Context, err error) {
	c.IndentedJSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
}

func (s *Server) createGame(c *gin.Context) {
	var config game.GameConfig
	if err := c.BindJSON(&config); err != nil {
		badRequest(c, err)
		return
	}
	g, err := s.service.CreateGame(config)
	if err != nil {
		respondError(c, err)
		return
	}
	restLogger.Info().Str(logging.GameIDKey, g.ID).Msg("Game created over REST")
	c.JSON(http.StatusCreated, g.View())
}

func (s *Server) getGame(c *gin.Context) {
	viewerID := uint64(0)
	if v, err := parseUint(c.Query("playerId")); err == nil {
		viewerID = v
	}
	update, err := s.service.GameView(c.Param("gameId"), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}

func (s *Server) join(c *gin.Context) {
	var req playerRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.service.Join(c.Param("gameId"), req.PlayerID, req.Name, req.BuyIn); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) startHand(c *gin.Context) {
	if err := s.service.StartHand(c.Param("gameId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) act(c *gin.Context) {
	var req actRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	kind := game.ParseActionKind(req.Action)
	if kind == game.ActionNone {
		badRequest(c, errors.Errorf("unknown action %q", req.Action))
		return
	}
	if err := s.service.Act(c.Param("gameId"), req.PlayerID, kind, req.Amount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) leave(c *gin.Context) {
	s.playerOp(c, s.service.Leave)
}

func (s *Server) sitOut(c *gin.Context) {
	s.playerOp(c, s.service.SitOut)
}

func (s *Server) sitIn(c *gin.Context) {
	s.playerOp(c, s.service.SitIn)
}

func (s *Server) playerOp(c *gin.Context, op func(gameID string, playerID uint64) error) {
	var req playerRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := op(c.Param("gameId"), req.PlayerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) subscribe(c *gin.Context) {
	playerID := uint64(0)
	if v, err := parseUint(c.Query("playerId")); err == nil {
		playerID = v
	}
	s.hub.Subscribe(c.Writer, c.Request, c.Param("gameId"), playerID)
}

// respondError maps domain errors to HTTP status codes. Anything not
// recognized is a 500 with the message withheld.
func respondError(c *gin.Context, err error) {
	code := errorCode(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		restLogger.Error().Err(err).Msg("Unhandled error in REST handler")
		message = "internal server error"
		c.Error(err)
	}
	c.IndentedJSON(code, appError{Code: code, Message: message})
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrGameFull),
		errors.Is(err, game.ErrAlreadySeated),
		errors.Is(err, game.ErrGameNotWaiting),
		errors.Is(err, game.ErrHandInProgress):
		return http.StatusConflict
	case errors.Is(err, game.ErrPlayerNotInGame),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrPlayerFolded),
		errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, game.ErrNoBettingInFlight),
		errors.Is(err, game.ErrInvalidBuyIn),
		errors.Is(err, game.ErrInvalidPlayerID),
		errors.Is(err, game.ErrInvalidConfig):
		return http.StatusBadRequest
	}
	var betErr game.IllegalBetError
	var statusErr game.UnexpectedGameStatusError
	if errors.As(err, &betErr) || errors.As(err, &statusErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func parseUint(v string) (uint64, error) {
	return strconv.ParseUint(v, 10, 64)
}
