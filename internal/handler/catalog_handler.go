package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CatalogItemRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type SectionRowRequest struct {
	ItemID   string `json:"item_id"`
	Position int    `json:"position"`
}

type SectionRequest struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Position int                 `json:"position"`
	Rows     []SectionRowRequest `json:"rows"`
}

type CatalogUpdateRequest struct {
	Items    []CatalogItemRequest `json:"items"`
	Sections []SectionRequest     `json:"sections"`
}

// /stores/:store_id/catalog
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.PUT("/stores/:store_id/catalog", h.updateCatalog)
}

func (h *CatalogHandler) updateCatalog(c echo.Context) error {
	storeID, err := storeIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid store_id"})
	}

	var req CatalogUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	items := make([]model.CatalogItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.CatalogItem{ID: it.ID, Name: it.Name, Code: it.Code})
	}

	sections := make([]model.Section, 0, len(req.Sections))
	for _, s := range req.Sections {
		rows := make([]model.SectionRow, 0, len(s.Rows))
		for _, row := range s.Rows {
			rows = append(rows, model.SectionRow{ItemID: row.ItemID, Position: row.Position})
		}
		sections = append(sections, model.Section{
			ID:       s.ID,
			Name:     s.Name,
			Position: s.Position,
			Rows:     rows,
		})
	}

	if err := h.uc.ApplyCatalogUpdate(c.Request().Context(), storeID, items, sections); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "catalog updated"})
}
