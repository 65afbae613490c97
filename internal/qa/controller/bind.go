package controller

import (
	"errors"
	"io"
	"strconv"

	"qaboard/internal/qa/model"
	pkgerrors "qaboard/pkg/errors"
	"qaboard/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, pkgerrors.BadRequest("Invalid request parameters"))
		return false
	}
	return true
}

func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.Error(c, pkgerrors.BadRequest("Invalid request parameters"))
		return false
	}
	return true
}

func parseID(c *gin.Context, param, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, pkgerrors.BadRequest("Invalid "+what+" id").WithDetail(param, c.Param(param)))
		return 0, false
	}
	return id, true
}

func parseDirection(c *gin.Context, raw string) (model.Direction, bool) {
	dir, err := model.ParseDirection(raw)
	if err != nil {
		response.Error(c, pkgerrors.BadRequest("direction must be up or down"))
		return "", false
	}
	return dir, true
}
