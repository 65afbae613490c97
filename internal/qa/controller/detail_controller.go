package controller

import (
	"qaboard/internal/qa/service"
	"qaboard/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// DetailController handles question detail view events.
type DetailController struct {
	views *service.ViewService
}

func NewDetailController(views *service.ViewService) *DetailController {
	return &DetailController{views: views}
}

// Open creates a detail view on the question in the path.
func (h *DetailController) Open(c *gin.Context) {
	id, ok := parseID(c, "id", "question")
	if !ok {
		return
	}
	page, err := h.views.OpenDetail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, page)
}

func (h *DetailController) Get(c *gin.Context) {
	page, err := h.views.Detail(c.Request.Context(), c.Param("view"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// VoteQuestion requires a credential and succeeds once per view.
func (h *DetailController) VoteQuestion(c *gin.Context) {
	var req VoteRequest
	if !bindJSON(c, &req) {
		return
	}
	dir, ok := parseDirection(c, req.Direction)
	if !ok {
		return
	}
	page, err := h.views.VoteQuestion(c.Request.Context(), c.Param("view"), dir)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (h *DetailController) VoteAnswer(c *gin.Context) {
	answerID, ok := parseID(c, "answer", "answer")
	if !ok {
		return
	}
	var req VoteRequest
	if !bindJSON(c, &req) {
		return
	}
	dir, ok := parseDirection(c, req.Direction)
	if !ok {
		return
	}
	page, err := h.views.VoteAnswer(c.Request.Context(), c.Param("view"), answerID, dir)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (h *DetailController) AcceptAnswer(c *gin.Context) {
	answerID, ok := parseID(c, "answer", "answer")
	if !ok {
		return
	}
	page, err := h.views.AcceptAnswer(c.Request.Context(), c.Param("view"), answerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (h *DetailController) SetDraft(c *gin.Context) {
	var req DraftRequest
	if !bindJSON(c, &req) {
		return
	}
	page, err := h.views.SetAnswerDraft(c.Request.Context(), c.Param("view"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// SubmitAnswer posts the body content, or the stored draft when the body is empty.
func (h *DetailController) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	page, err := h.views.SubmitAnswer(c.Request.Context(), c.Param("view"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, page)
}

func (h *DetailController) Close(c *gin.Context) {
	if err := h.views.CloseView(c.Request.Context(), service.KindDetail, c.Param("view")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
