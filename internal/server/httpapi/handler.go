// Package httpapi serves the REST page API, published sites and previews
// over gin.
package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/pagebuilder/internal/common"
	"github.com/dmitrijs2005/pagebuilder/internal/logging"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
	"github.com/dmitrijs2005/pagebuilder/internal/registry"
	"github.com/dmitrijs2005/pagebuilder/internal/renderer"
	"github.com/dmitrijs2005/pagebuilder/internal/schema"
	"github.com/gin-gonic/gin"
)

// Pages is the page service behind the API.
type Pages interface {
	List(ctx context.Context) ([]models.IndexEntry, error)
	Get(ctx context.Context, id string) (models.SavedPage, error)
	GetPublished(ctx context.Context, slug string) (models.SavedPage, error)
	Create(ctx context.Context, in models.PageInput) (models.SavedPage, error)
	Update(ctx context.Context, id string, in models.PageInput) (models.SavedPage, error)
	Delete(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, publish bool) (models.SavedPage, error)
}

type Handler struct {
	pages  Pages
	reg    *registry.Registry
	render *renderer.Renderer
	log    logging.Logger
}

func NewHandler(pages Pages, reg *registry.Registry, render *renderer.Renderer, log logging.Logger) *Handler {
	return &Handler{pages: pages, reg: reg, render: render, log: log}
}

type errorBody struct {
	Error string `json:"error"`
}

type publishBody struct {
	Publish bool `json:"publish"`
}

type registryBody struct {
	Components []registry.Definition   `json:"components"`
	Sidebar    []registry.SidebarGroup `json:"sidebar"`
	Fonts      []schema.Option         `json:"fonts"`
	Icons      []schema.Option         `json:"icons"`
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListPages(c *gin.Context) {
	entries, err := h.pages.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) CreatePage(c *gin.Context) {
	var in models.PageInput
	if !h.bind(c, &in) {
		return
	}
	p, err := h.pages.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPage(c *gin.Context) {
	p, err := h.pages.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePage(c *gin.Context) {
	var in models.PageInput
	if !h.bind(c, &in) {
		return
	}
	p, err := h.pages.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePage(c *gin.Context) {
	if err := h.pages.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) PublishPage(c *gin.Context) {
	var body publishBody
	if !h.bind(c, &body) {
		return
	}
	p, err := h.pages.SetPublished(c.Request.Context(), c.Param("id"), body.Publish)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Site renders a published page by slug. Drafts are not found.
func (h *Handler) Site(c *gin.Context) {
	p, err := h.pages.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.html(c, p.Page, p.Description)
}

// Preview renders a posted page document without storing it. With
// ?fragment=1 only the styled body is returned, for embedding in an editor
// canvas.
func (h *Handler) Preview(c *gin.Context) {
	var p models.Page
	if !h.bind(c, &p) {
		return
	}
	if fragment, _ := strconv.ParseBool(c.Query("fragment")); !fragment {
		h.html(c, p, "")
		return
	}

	var buf bytes.Buffer
	if err := h.render.RenderBody(&buf, p); err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) Registry(c *gin.Context) {
	c.JSON(http.StatusOK, registryBody{
		Components: h.reg.Definitions(),
		Sidebar:    h.reg.Sidebar(),
		Fonts:      h.reg.Fonts(),
		Icons:      h.reg.Icons(),
	})
}

func (h *Handler) html(c *gin.Context, p models.Page, description string) {
	var buf bytes.Buffer
	if err := h.render.RenderDocument(&buf, p, description); err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return false
	}
	return true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: "Not found"})
	case errors.Is(err, common.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		h.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: "Internal server error"})
	}
}
