package controller

import (
	"qaboard/internal/qa/service"
	"qaboard/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// ComposeController handles the question composition form.
type ComposeController struct {
	views *service.ViewService
}

func NewComposeController(views *service.ViewService) *ComposeController {
	return &ComposeController{views: views}
}

func (h *ComposeController) Open(c *gin.Context) {
	page, err := h.views.OpenCompose(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, page)
}

func (h *ComposeController) Get(c *gin.Context) {
	page, err := h.views.Compose(c.Request.Context(), c.Param("view"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// Update sets title and/or description.
func (h *ComposeController) Update(c *gin.Context) {
	var req UpdateComposeRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := h.views.UpdateCompose(c.Request.Context(), c.Param("view"), req.Title, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// AddTag reports added=false when the tag is empty, a duplicate, or over the limit.
func (h *ComposeController) AddTag(c *gin.Context) {
	var req TagRequest
	if !bindJSON(c, &req) {
		return
	}
	page, added, err := h.views.AddComposeTag(c.Request.Context(), c.Param("view"), req.Tag)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, AddTagResponse{ComposePage: page, Added: added})
}

func (h *ComposeController) RemoveTag(c *gin.Context) {
	page, removed, err := h.views.RemoveComposeTag(c.Request.Context(), c.Param("view"), c.Param("tag"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, RemoveTagResponse{ComposePage: page, Removed: removed})
}

// Submit hands a complete draft to the configured submitter.
func (h *ComposeController) Submit(c *gin.Context) {
	page, err := h.views.SubmitCompose(c.Request.Context(), c.Param("view"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (h *ComposeController) Close(c *gin.Context) {
	if err := h.views.CloseView(c.Request.Context(), service.KindCompose, c.Param("view")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
