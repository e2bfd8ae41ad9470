package license

import (
	"net/http"

	"optimagrowth-licensing/pkg/catalog"
	"optimagrowth-licensing/pkg/errutil"
	"optimagrowth-licensing/pkg/httpapi"
	"optimagrowth-licensing/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// Handler exposes the license mutation and query surface. Failures are
// attached to the context and rendered by the problem middleware.
type Handler struct {
	command *CommandService
	query   *QueryService
	catalog *catalog.Catalog
}

type HandlerParams struct {
	fx.In
	Command *CommandService
	Query   *QueryService
	Catalog *catalog.Catalog
}

func NewHandler(p HandlerParams) *Handler {
	return &Handler{command: p.Command, query: p.Query, catalog: p.Catalog}
}

func (h *Handler) Register(r *gin.Engine) {
	grp := r.Group("/organization/:organizationId/license")

	grp.POST("/create", h.create)
	grp.PATCH("/:licenseId",
		middleware.RequireContentType("application/json-patch+json", "application/json"),
		h.update,
	)
	grp.DELETE("/:licenseId", h.delete)
	grp.GET("/:licenseId", h.retrieve)
	grp.GET("/all", h.retrieveAll)
}

func (h *Handler) create(c *gin.Context) {
	var req CreateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(errutil.BadRequest(
			h.catalog.Lookup("exception.message.not.readable"), errutil.WithErr(err)))
		return
	}

	l, err := h.command.Create(c.Request.Context(), &req, c.Param("organizationId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, httpapi.Success(l,
		h.catalog.Lookup("success.license.created.successfully")))
}

func (h *Handler) update(c *gin.Context) {
	doc, err := c.GetRawData()
	if err != nil {
		_ = c.Error(errutil.BadRequest(
			h.catalog.Lookup("exception.message.not.readable"), errutil.WithErr(err)))
		return
	}

	l, err := h.command.Update(c.Request.Context(), c.Param("licenseId"), c.Param("organizationId"), doc)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, httpapi.Success(l,
		h.catalog.Lookup("success.license.updated.successfully")))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.command.Delete(c.Request.Context(), c.Param("licenseId"), c.Param("organizationId")); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) retrieve(c *gin.Context) {
	l, err := h.query.RetrieveOne(c.Request.Context(), c.Param("licenseId"), c.Param("organizationId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, httpapi.Success(l,
		h.catalog.Lookup("success.license.retrieved.successfully")))
}

func (h *Handler) retrieveAll(c *gin.Context) {
	list, err := h.query.RetrieveAll(c.Request.Context(), c.Param("organizationId"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, httpapi.Success(list,
		h.catalog.Lookup("success.license.retrieved.successfully")))
}
