package controller

import (
	"context"
	"fmt"
	"net/http"

	"qaboard/internal/common/http/middleware"
	"qaboard/internal/common/metrics"
	"qaboard/internal/qa/service"
	pkgerrors "qaboard/pkg/errors"
	"qaboard/pkg/utils/logger"
	"qaboard/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterOptions carries the optional pieces of the HTTP surface.
type RouterOptions struct {
	Metrics *metrics.Metrics
	CORS    middleware.CORSConfig
	// Ready backs /readyz; nil always reports ready.
	Ready func(ctx context.Context) error
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(views *service.ViewService, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(recoverPanic))
	router.Use(middleware.TraceContextMiddleware())
	router.Use(middleware.CORSMiddleware(opts.CORS))
	router.Use(middleware.RequestLogger(opts.Metrics))
	router.Use(middleware.CredentialMiddleware())

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/readyz", readyHandler(opts.Ready))
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}
	router.GET("/login", Login)

	dataset := NewDatasetController(views)
	listing := NewListingController(views)
	detail := NewDetailController(views)
	compose := NewComposeController(views)

	api := router.Group("/api/v1")
	{
		api.GET("/questions", dataset.ListQuestions)
		api.GET("/questions/:id", dataset.GetQuestion)
		api.GET("/users", dataset.ListUsers)
		api.GET("/tags", dataset.ListTags)
	}

	lv := api.Group("/views/listing")
	{
		lv.POST("", listing.Open)
		lv.GET("/:view", listing.Get)
		lv.DELETE("/:view", listing.Close)
		lv.PUT("/:view/query", listing.SetQuery)
		lv.PUT("/:view/sort", listing.SetSort)
		lv.POST("/:view/tags/toggle", listing.ToggleTag)
	}

	api.POST("/views/questions/:id", detail.Open)
	dv := api.Group("/views/detail")
	{
		dv.GET("/:view", detail.Get)
		dv.DELETE("/:view", detail.Close)
		dv.POST("/:view/vote", detail.VoteQuestion)
		dv.POST("/:view/answers/:answer/vote", detail.VoteAnswer)
		dv.POST("/:view/answers/:answer/accept", detail.AcceptAnswer)
		dv.PUT("/:view/draft", detail.SetDraft)
		dv.POST("/:view/answers", detail.SubmitAnswer)
	}

	cv := api.Group("/views/compose")
	{
		cv.POST("", compose.Open)
		cv.GET("/:view", compose.Get)
		cv.PUT("/:view", compose.Update)
		cv.DELETE("/:view", compose.Close)
		cv.POST("/:view/tags", compose.AddTag)
		cv.DELETE("/:view/tags/:tag", compose.RemoveTag)
		cv.POST("/:view/submit", compose.Submit)
	}

	router.NoRoute(NotFound)
	return router
}

// Login is a placeholder until a real identity provider exists.
func Login(c *gin.Context) {
	response.NotImplemented(c, "Login is not available yet")
}

// NotFound renders the catch-all page.
func NotFound(c *gin.Context) {
	response.Error(c, pkgerrors.NotFoundError("Page").WithDetail("path", c.Request.URL.Path))
}

// recoverPanic keeps the panic value out of the response body.
func recoverPanic(c *gin.Context, recovered interface{}) {
	err := pkgerrors.InternalError(fmt.Errorf("panic: %v", recovered))
	logger.Error(c.Request.Context(), "handler panicked", zap.Error(err.Err), zap.String("stack", err.Stack))
	response.AbortWithError(c, err.WithMessage(pkgerrors.InternalServerError.Message()))
}

func readyHandler(ready func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil {
			if err := ready(c.Request.Context()); err != nil {
				response.Error(c, pkgerrors.Wrap(err, pkgerrors.ServiceUnavailable))
				return
			}
		}
		c.Status(http.StatusOK)
	}
}
