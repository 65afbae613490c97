package controller

import (
	"qaboard/internal/qa/service"
	"qaboard/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// ListingController handles listing view events.
type ListingController struct {
	views *service.ViewService
}

func NewListingController(views *service.ViewService) *ListingController {
	return &ListingController{views: views}
}

// Open creates a listing view.
func (h *ListingController) Open(c *gin.Context) {
	page, err := h.views.OpenListing(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, page)
}

func (h *ListingController) Get(c *gin.Context) {
	page, err := h.views.Listing(c.Request.Context(), c.Param("view"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (h *ListingController) SetQuery(c *gin.Context) {
	var req SetQueryRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := h.views.SetListingQuery(c.Request.Context(), c.Param("view"), req.Query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (h *ListingController) SetSort(c *gin.Context) {
	var req SetSortRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := h.views.SetListingSort(c.Request.Context(), c.Param("view"), req.Sort)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// ToggleTag selects or deselects a tag filter.
func (h *ListingController) ToggleTag(c *gin.Context) {
	var req TagRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := h.views.ToggleListingTag(c.Request.Context(), c.Param("view"), req.Tag)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (h *ListingController) Close(c *gin.Context) {
	if err := h.views.CloseView(c.Request.Context(), service.KindListing, c.Param("view")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
