package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/permission"
	"github.com/neupaneprasanna/prasannarent-sub002/internal/service"
)

// AdminHandler serves the admin console and user reports
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type listingStatusRequest struct {
	Status model.ListingStatus `json:"status" binding:"required"`
}

// Permissions handles GET /api/admin/permissions
func (h *AdminHandler) Permissions(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"role":        user.Role,
		"permissions": permission.For(user.Role),
	})
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers handles GET /api/admin/users?q=&page=&pageSize=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, err := h.adminService.ListUsers(c.Request.Context(), c.Query("q"), queryInt(c, "page", 1), queryInt(c, "pageSize", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// UpdateUser handles PATCH /api/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var patch model.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.adminService.UpdateUser(c.Request.Context(), currentUser(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetListingStatus handles PATCH /api/admin/listings/:id/status
func (h *AdminHandler) SetListingStatus(c *gin.Context) {
	var req listingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.adminService.SetListingStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Report handles POST /api/reports
func (h *AdminHandler) Report(c *gin.Context) {
	var req model.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.adminService.Report(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ListModeration handles GET /api/admin/moderation?status=PENDING
func (h *AdminHandler) ListModeration(c *gin.Context) {
	items, err := h.adminService.ListModeration(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": items})
}

// Resolve handles POST /api/admin/moderation/:id/resolve
func (h *AdminHandler) Resolve(c *gin.Context) {
	var req model.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.adminService.Resolve(c.Request.Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Settings handles GET /api/admin/settings
func (h *AdminHandler) Settings(c *gin.Context) {
	settings, err := h.adminService.Settings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": settings})
}

// UpdateSetting handles PUT /api/admin/settings/:key
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req model.SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	setting, err := h.adminService.UpdateSetting(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}
