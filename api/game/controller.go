// Package gameapi exposes the game session manager over HTTP.
package gameapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/beka-birhanu/trapmaze/game"
	"github.com/beka-birhanu/trapmaze/protocol"
	"github.com/beka-birhanu/trapmaze/service"
	"github.com/beka-birhanu/trapmaze/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GameController serves the agent protocol.
type GameController struct {
	gameSessionManager i.GameSessionManager
	resultRepo         i.ResultRepo
	events             *EventHub
}

// NewGameController initializes a GameController. resultRepo and events may
// be nil, which disables their routes.
func NewGameController(gsm i.GameSessionManager, rr i.ResultRepo, events *EventHub) (*GameController, error) {
	if gsm == nil {
		return nil, errors.New("game session manager is required")
	}
	return &GameController{
		gameSessionManager: gsm,
		resultRepo:         rr,
		events:             events,
	}, nil
}

// Register registers the game routes.
func (gc *GameController) Register(route *gin.RouterGroup) {
	route.POST("/register_agent", gc.registerAgent)
	route.POST("/receive_moves", gc.receiveMoves)
	route.GET("/character_position", gc.characterPosition)
	if gc.events != nil {
		route.GET("/events", gc.events.serve)
	}
	if gc.resultRepo != nil {
		route.GET("/results/:ID", gc.result)
	}
}

// registerAgent accepts an empty body or {"UUID": id}.
func (gc *GameController) registerAgent(ctx *gin.Context) {
	var request protocol.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, protocol.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := gc.gameSessionManager.Register(ctx, request.UUID)
	if err != nil {
		ctx.JSON(statusFor(err), protocol.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (gc *GameController) receiveMoves(ctx *gin.Context) {
	var request protocol.MovesRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, protocol.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := gc.gameSessionManager.ReceiveMoves(ctx, request.UUID, request.Input)
	if err != nil {
		ctx.JSON(statusFor(err), protocol.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (gc *GameController) characterPosition(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gc.gameSessionManager.Position())
}

func (gc *GameController) result(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, protocol.ErrorResponse{Error: "invalid id"})
		return
	}

	res, err := gc.resultRepo.ByID(ctx, id)
	if err != nil {
		ctx.JSON(statusFor(err), protocol.ErrorResponse{Error: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrBatchTooLong),
		errors.Is(err, game.ErrInvalidCommand),
		errors.Is(err, service.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnknownAgent),
		errors.Is(err, i.ErrResultNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
