package controller

import (
	"strings"

	"qaboard/internal/qa/service"
	"qaboard/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// DatasetController serves read-only views of the data store.
type DatasetController struct {
	views *service.ViewService
}

func NewDatasetController(views *service.ViewService) *DatasetController {
	return &DatasetController{views: views}
}

// ListQuestions handles a stateless listing: ?q=&tags=a,b&sort=votes.
func (h *DatasetController) ListQuestions(c *gin.Context) {
	var tags []string
	if raw := c.Query("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}
	response.Success(c, h.views.SearchQuestions(c.Query("q"), tags, c.Query("sort")))
}

// GetQuestion returns a question with its dataset answers.
func (h *DatasetController) GetQuestion(c *gin.Context) {
	id, ok := parseID(c, "id", "question")
	if !ok {
		return
	}
	page, err := h.views.Question(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (h *DatasetController) ListUsers(c *gin.Context) {
	response.Success(c, h.views.Users())
}

func (h *DatasetController) ListTags(c *gin.Context) {
	response.Success(c, TagsResponse{Tags: h.views.PopularTags()})
}
