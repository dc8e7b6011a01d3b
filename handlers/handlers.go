package handlers

// handlers expose track resolution over HTTP. They parse the request,
// call the service and map resolution errors onto status codes.

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"muc/models"
	"muc/platform"
	"muc/resolver"
	"muc/sentryhelper"
)

type Resolver interface {
	Search(ctx context.Context, uri string) (*resolver.SearchResult, error)
	Track(ctx context.Context, uri string) (models.Track, error)
	PlatformTrack(ctx context.Context, p platform.Platform, uri string) (models.Track, error)
	PlatformSearch(ctx context.Context, p platform.Platform, query string) (*models.Track, error)
}

type URIRequest struct {
	URI string `json:"uri" binding:"required"`
}

type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type ClassifyResponse struct {
	Platform *platform.Platform `json:"platform"`
}

type Manager struct {
	resolver Resolver
	logger   *log.Entry
}

func NewManager(r Resolver) *Manager {
	return &Manager{
		resolver: r,
		logger:   log.WithFields(log.Fields{"module": "handlers"}),
	}
}

// Register mounts the API routes on router.
func (manager *Manager) Register(router gin.IRouter) {
	router.GET("/healthz", manager.handleHealth)

	api := router.Group("/api")
	api.POST("/search", manager.handleSearch)
	api.POST("/track", manager.handleTrack)
	api.GET("/classify", manager.handleClassify)
	api.POST("/:platform/track", manager.handlePlatformTrack)
	api.POST("/:platform/search", manager.handlePlatformSearch)
}

func (manager *Manager) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (manager *Manager) handleSearch(c *gin.Context) {
	var req URIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body must contain a uri", Code: "bad_request"})
		return
	}

	ctx, transaction := sentryhelper.StartRequestTransaction(c.Request.Context(), "search", req.URI)
	defer transaction.Finish()

	result, err := manager.resolver.Search(ctx, req.URI)
	if err != nil {
		manager.respondError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (manager *Manager) handleTrack(c *gin.Context) {
	var req URIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body must contain a uri", Code: "bad_request"})
		return
	}

	ctx, transaction := sentryhelper.StartRequestTransaction(c.Request.Context(), "track", req.URI)
	defer transaction.Finish()

	track, err := manager.resolver.Track(ctx, req.URI)
	if err != nil {
		manager.respondError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, track)
}

func (manager *Manager) handlePlatformTrack(c *gin.Context) {
	p, ok := platformParam(c)
	if !ok {
		return
	}
	var req URIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body must contain a uri", Code: "bad_request"})
		return
	}

	ctx, transaction := sentryhelper.StartRequestTransaction(c.Request.Context(), string(p)+".track", req.URI)
	defer transaction.Finish()

	track, err := manager.resolver.PlatformTrack(ctx, p, req.URI)
	if err != nil {
		manager.respondError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, track)
}

// handlePlatformSearch answers with a list holding the best match, or an
// empty list when the platform has none.
func (manager *Manager) handlePlatformSearch(c *gin.Context) {
	p, ok := platformParam(c)
	if !ok {
		return
	}
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body must contain a query", Code: "bad_request"})
		return
	}

	ctx, transaction := sentryhelper.StartRequestTransaction(c.Request.Context(), string(p)+".search", req.Query)
	defer transaction.Finish()

	track, err := manager.resolver.PlatformSearch(ctx, p, req.Query)
	if err != nil {
		manager.respondError(ctx, c, err)
		return
	}
	tracks := []models.Track{}
	if track != nil {
		tracks = append(tracks, *track)
	}
	c.JSON(http.StatusOK, tracks)
}

func platformParam(c *gin.Context) (platform.Platform, bool) {
	p := platform.Platform(c.Param("platform"))
	if !p.Valid() {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown platform " + c.Param("platform"), Code: "unknown_platform"})
		return "", false
	}
	return p, true
}

func (manager *Manager) handleClassify(c *gin.Context) {
	p, ok := platform.Classify(c.Query("uri"))
	if !ok {
		c.JSON(http.StatusOK, ClassifyResponse{})
		return
	}
	c.JSON(http.StatusOK, ClassifyResponse{Platform: &p})
}

func (manager *Manager) respondError(ctx context.Context, c *gin.Context, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		manager.logger.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		sentryhelper.CaptureException(ctx, err)
	} else {
		manager.logger.Debugf("%s %s rejected: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrUnrecognizedURI):
		return http.StatusBadRequest, "unrecognized_uri"
	case errors.Is(err, models.ErrInvalidURI):
		return http.StatusBadRequest, "invalid_uri"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return http.StatusBadGateway, "upstream_unavailable"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, "timeout"
	}
	return http.StatusInternalServerError, "internal"
}
