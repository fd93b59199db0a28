package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// Engineの型付きエラーをHTTPへ写す
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	var ir *usecase.InvalidReferenceError
	if errors.As(err, &ir) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid reference", Details: ir.ItemIDs})
	}
	var ui *usecase.UnknownItemError
	if errors.As(err, &ui) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown items", Details: ui.ItemIDs})
	}
	var is *usecase.InsufficientStockError
	if errors.As(err, &is) {
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "insufficient stock", Details: is.Messages})
	}
	if errors.Is(err, repo.ErrConflict) {
		//バッチごと再送すれば通る可能性がある
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict, retry"})
	}
	if errors.Is(err, repo.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// ActorRequest は認証レイヤーが確定させた操作者。
// 認証そのものはこのサービスの外（前段）で済んでいる前提。
type ActorRequest struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type StockChangeRequest struct {
	ItemID string `json:"item_id"`
	Op     string `json:"op"`
	Delta  int64  `json:"delta"`
	Value  int64  `json:"value"`
}

type ApplyStockChangesRequest struct {
	Actor   ActorRequest         `json:"actor"`
	Changes []StockChangeRequest `json:"changes"`
}

// /stores/:store_id/stock まわり
type StockHandler struct {
	uc *usecase.StockUsecase
}

// DI
func NewStockHandler(uc *usecase.StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

func (h *StockHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/stores/:store_id/stock-changes", h.applyChanges)
	e.GET("/stores/:store_id/stock", h.getStock)
	e.GET("/stores/:store_id/adjustments", h.listAdjustments)
	e.GET("/stores/:store_id/adjustments/:id", h.getAdjustment)
}

func (h *StockHandler) applyChanges(c echo.Context) error {
	storeID, err := storeIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid store_id"})
	}

	var req ApplyStockChangesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	changes := make([]usecase.StockChangeInput, 0, len(req.Changes))
	for _, ch := range req.Changes {
		changes = append(changes, usecase.StockChangeInput{
			ItemID: ch.ItemID,
			Op:     model.ChangeOp(ch.Op),
			Delta:  ch.Delta,
			Value:  ch.Value,
		})
	}

	rec, err := h.uc.ApplyStockChanges(
		c.Request().Context(),
		storeID,
		model.Actor{ID: req.Actor.ID, Email: req.Actor.Email},
		changes,
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, rec)
}

func (h *StockHandler) getStock(c echo.Context) error {
	storeID, err := storeIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid store_id"})
	}

	rec, err := h.uc.GetStock(c.Request().Context(), storeID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, rec)
}

func (h *StockHandler) listAdjustments(c echo.Context) error {
	storeID, err := storeIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid store_id"})
	}

	var f usecase.HistoryFilter
	if v := c.QueryParam("actor_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid actor_id"})
		}
		f.ActorID = id
	}
	if v := c.QueryParam("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid since"})
		}
		f.Since = &t
	}

	adjs, err := h.uc.GetAdjustmentHistory(c.Request().Context(), storeID, f)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, adjs)
}

func (h *StockHandler) getAdjustment(c echo.Context) error {
	storeID, err := storeIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid store_id"})
	}

	adj, err := h.uc.GetAdjustmentByID(c.Request().Context(), storeID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, adj)
}

func storeIDParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("store_id"), 10, 64)
}
