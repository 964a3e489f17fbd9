package handler

import (
	"net/http"

	"ventureshield/internal/catalog"
	"ventureshield/internal/model"
)

// CatalogHandler serves the question catalog to the wizard client
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// CatalogResponse is the body of GET /v1/catalog
type CatalogResponse struct {
	Sections      []model.Section `json:"sections"`
	QuestionCount int             `json:"questionCount"`
}

// Get handles GET /v1/catalog
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CatalogResponse{
		Sections:      h.catalog.Sections(),
		QuestionCount: h.catalog.QuestionCount(),
	})
}
