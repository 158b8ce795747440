package handlers

import (
	"net/http"
	"time"

	"salesboard-be/internal/models"
	"salesboard-be/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultColumns are the pipeline stages created with every new board.
var defaultColumns = []struct {
	Title string
	Color string
}{
	{"Prospects 🎯", "#EF4444"},
	{"Contact Made 📞", "#F59E0B"},
	{"Proposal Sent 📄", "#3B82F6"},
	{"Closed Won 🎉", "#10B981"},
}

type BoardHandler struct {
	boards  repository.BoardStore
	columns repository.ColumnStore
	cards   repository.CardStore
	log     *zap.Logger
}

func NewBoardHandler(boards repository.BoardStore, columns repository.ColumnStore, cards repository.CardStore, log *zap.Logger) *BoardHandler {
	return &BoardHandler{boards: boards, columns: columns, cards: cards, log: log}
}

// CreateBoard godoc
// @Summary Create a board with the default pipeline columns
// @Tags boards
// @Accept json
// @Produce json
// @Param board body models.CreateBoardRequest true "Board"
// @Success 201 {object} models.Board
// @Router /api/boards [post]
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	var req models.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	title := req.Title
	if title == "" {
		title = "Sales Pipeline"
	}

	board := &models.Board{
		ID:          uuid.NewString(),
		Title:       title,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.boards.Insert(c.Request.Context(), board); err != nil {
		h.log.Error("failed to create board", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to create board",
		})
		return
	}

	if err := h.createDefaultColumns(c, board.ID); err != nil {
		h.log.Error("failed to create default columns",
			zap.String("board_id", board.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to create default columns",
		})
		return
	}

	c.JSON(http.StatusCreated, board)
}

func (h *BoardHandler) createDefaultColumns(c *gin.Context, boardID string) error {
	for i, col := range defaultColumns {
		column := &models.Column{
			ID:       uuid.NewString(),
			Title:    col.Title,
			Color:    col.Color,
			Position: i,
			BoardID:  boardID,
		}
		if err := h.columns.Insert(c.Request.Context(), column); err != nil {
			return err
		}
	}
	return nil
}

// GetBoards godoc
// @Summary List all boards
// @Tags boards
// @Produce json
// @Success 200 {array} models.Board
// @Router /api/boards [get]
func (h *BoardHandler) GetBoards(c *gin.Context) {
	boards, err := h.boards.List(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list boards", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list boards",
		})
		return
	}
	c.JSON(http.StatusOK, boards)
}

// GetBoardColumns godoc
// @Summary List the columns of a board, ordered by position
// @Tags boards
// @Produce json
// @Param board_id path string true "Board ID"
// @Success 200 {array} models.Column
// @Router /api/boards/{board_id}/columns [get]
func (h *BoardHandler) GetBoardColumns(c *gin.Context) {
	columns, err := h.columns.ListByBoard(c.Request.Context(), c.Param("board_id"))
	if err != nil {
		h.log.Error("failed to list columns", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list columns",
		})
		return
	}
	c.JSON(http.StatusOK, columns)
}

// Initialize godoc
// @Summary Seed the demo board, columns and sample cards
// @Description Idempotent: does nothing if any board already exists.
// @Tags boards
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/initialize [post]
func (h *BoardHandler) Initialize(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.boards.Count(ctx)
	if err != nil {
		h.log.Error("failed to count boards", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to initialize data",
		})
		return
	}
	if count > 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Data already exists"})
		return
	}

	board := &models.Board{
		ID:          uuid.NewString(),
		Title:       "Sales Pipeline",
		Description: "Default sales pipeline board",
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.boards.Insert(ctx, board); err != nil {
		h.log.Error("failed to seed board", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to initialize data",
		})
		return
	}

	columnIDs := make([]string, 0, len(defaultColumns))
	for i, col := range defaultColumns {
		column := &models.Column{
			ID:       uuid.NewString(),
			Title:    col.Title,
			Color:    col.Color,
			Position: i,
			BoardID:  board.ID,
		}
		if err := h.columns.Insert(ctx, column); err != nil {
			h.log.Error("failed to seed column", zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "internal_error",
				Message: "Failed to initialize data",
			})
			return
		}
		columnIDs = append(columnIDs, column.ID)
	}

	now := time.Now().UTC()
	samples := []*models.Card{
		{
			ID:             uuid.NewString(),
			Title:          "Acme Corp",
			Description:    "Interested in enterprise plan",
			ContactName:    "John Smith",
			ContactEmail:   "john@acme.com",
			EstimatedValue: 25000,
			Priority:       "high",
			Tags:           []string{"enterprise"},
			CreatedAt:      now,
			ColumnID:       columnIDs[0],
			Position:       0,
		},
		{
			ID:             uuid.NewString(),
			Title:          "TechStart Inc",
			Description:    "Demo scheduled for next week",
			ContactName:    "Sarah Johnson",
			ContactEmail:   "sarah@techstart.io",
			EstimatedValue: 12000,
			Priority:       "medium",
			Tags:           []string{"startup"},
			CreatedAt:      now,
			ColumnID:       columnIDs[1],
			Position:       0,
		},
		{
			ID:             uuid.NewString(),
			Title:          "Global Retail",
			Description:    "Proposal under review by procurement",
			ContactName:    "Mike Chen",
			ContactEmail:   "mike@globalretail.com",
			EstimatedValue: 45000,
			Priority:       "high",
			Tags:           []string{"retail", "enterprise"},
			CreatedAt:      now,
			ColumnID:       columnIDs[2],
			Position:       0,
		},
	}
	for _, card := range samples {
		if err := h.cards.Insert(ctx, card); err != nil {
			h.log.Error("failed to seed card", zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "internal_error",
				Message: "Failed to initialize data",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Sample data initialized",
		"board_id": board.ID,
	})
}
