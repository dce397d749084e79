package httppresentation

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Zhima-Mochi/procurement-portal/internal/application"
	appcatalog "github.com/Zhima-Mochi/procurement-portal/internal/application/catalog"
	appmetrics "github.com/Zhima-Mochi/procurement-portal/internal/application/metrics"
	appnotification "github.com/Zhima-Mochi/procurement-portal/internal/application/notification"
	apprequest "github.com/Zhima-Mochi/procurement-portal/internal/application/request"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/identity"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/request"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability/logctx"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	componentHTTPServer = "http_server"
	identityKey         = "identity"
	tokenKey            = "session_token"
)

// Sessions resolves bearer tokens issued by the mock login.
type Sessions interface {
	Login(ctx context.Context, email, password string) (string, identity.Identity, error)
	Resolve(token string) (identity.Identity, error)
	Logout(token string)
}

// Deps are the collaborators the HTTP layer dispatches to.
type Deps struct {
	Catalog       *appcatalog.Service
	Requests      *apprequest.Service
	Notifications *appnotification.Service
	Metrics       *appmetrics.Service
	Sessions      Sessions
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

type Server struct {
	engine *gin.Engine
	deps   Deps
	log    observability.Logger
}

func NewServer(deps Deps, tel observability.Observability) *Server {
	if tel == nil {
		tel = observability.Nop()
	}
	log := tel.Logger().With(observability.F("component", componentHTTPServer))

	r := gin.New()
	// Trace -> request logger -> metrics -> access log -> recovery -> handler
	r.Use(
		withTrace(tel.Tracer()),
		withRequestLogger(log),
		withHTTPMetrics(tel.Metrics()),
		withAccessLog(log),
		withRecovery(log),
	)
	s := &Server{engine: r, deps: deps, log: log}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.health)
	if s.deps.MetricsHandler != nil {
		s.engine.GET("/metrics", gin.WrapH(s.deps.MetricsHandler))
	}

	v1 := s.engine.Group("/api/v1")
	v1.POST("/auth/login", s.login)

	authed := v1.Group("", s.requireSession)
	{
		authed.POST("/auth/logout", s.logout)
		authed.GET("/me", s.me)

		products := authed.Group("/products")
		products.GET("", s.listProducts)
		products.POST("", s.createProduct)
		products.PUT(":id", s.updateProduct)
		products.DELETE(":id", s.deleteProduct)

		requests := authed.Group("/requests")
		requests.GET("", s.listRequests)
		requests.POST("", s.submitRequest)
		requests.POST(":id/status", s.updateRequestStatus)

		notifications := authed.Group("/notifications")
		notifications.GET("", s.listNotifications)
		notifications.POST(":id/read", s.markNotificationRead)

		authed.GET("/metrics", s.metricsSummary)
		authed.GET("/metrics/requesters", s.metricsByRequester)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requireSession resolves "Authorization: Bearer <token>" into the acting identity.
func (s *Server) requireSession(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		writeDomainError(c, identity.ErrUnauthenticated)
		c.Abort()
		return
	}
	who, err := s.deps.Sessions.Resolve(strings.TrimSpace(token))
	if err != nil {
		writeDomainError(c, err)
		c.Abort()
		return
	}
	c.Set(identityKey, who)
	c.Set(tokenKey, strings.TrimSpace(token))

	ctx, _ := logctx.Enrich(c.Request.Context(), s.log, observability.F("user_id", who.ID))
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

func actor(c *gin.Context) identity.Identity {
	v, _ := c.Get(identityKey)
	who, _ := v.(identity.Identity)
	return who
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token string            `json:"token"`
	User  identity.Identity `json:"user"`
}

func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	token, who, err := s.deps.Sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, loginResp{Token: token, User: who})
}

func (s *Server) logout(c *gin.Context) {
	s.deps.Sessions.Logout(c.GetString(tokenKey))
	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, actor(c))
}

type productReq struct {
	Name          string                `json:"name"`
	Category      catalog.Category      `json:"category"`
	Price         decimal.Decimal       `json:"price"`
	Quantity      int                   `json:"quantity"`
	Description   string                `json:"description"`
	ConfigOptions catalog.ConfigOptions `json:"configOptions"`
}

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.deps.Catalog.ListProducts(c.Request.Context(), appcatalog.ListProductsQuery{
		Actor: actor(c),
		Filter: catalog.Filter{
			Search:   c.Query("q"),
			Category: catalog.Category(c.Query("category")),
		},
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) createProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.deps.Catalog.AddProduct(c.Request.Context(), appcatalog.AddProductCommand{
		Actor:         actor(c),
		Name:          req.Name,
		Category:      req.Category,
		Price:         req.Price,
		Quantity:      req.Quantity,
		Description:   req.Description,
		ConfigOptions: req.ConfigOptions,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// updateProduct is a full replace: omitted fields are cleared.
func (s *Server) updateProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.deps.Catalog.UpdateProduct(c.Request.Context(), appcatalog.UpdateProductCommand{
		Actor: actor(c),
		Product: catalog.Product{
			ID:            id,
			Name:          req.Name,
			Category:      req.Category,
			Price:         req.Price,
			Quantity:      req.Quantity,
			Description:   req.Description,
			ConfigOptions: req.ConfigOptions,
		},
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.deps.Catalog.DeleteProduct(c.Request.Context(), appcatalog.DeleteProductCommand{Actor: actor(c), ID: id}); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listRequests(c *gin.Context) {
	list, err := s.deps.Requests.List(c.Request.Context(), apprequest.ListQuery{
		Actor:  actor(c),
		Status: request.Status(c.Query("status")),
		UserID: c.Query("user"),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type submitReq struct {
	ItemID        int64                 `json:"itemId"`
	Quantity      int                   `json:"quantity"`
	Configuration catalog.Configuration `json:"configuration"`
	Urgency       request.Urgency       `json:"urgency"`
	Justification string                `json:"justification"`
}

func (s *Server) submitRequest(c *gin.Context) {
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	created, err := s.deps.Requests.Submit(c.Request.Context(), apprequest.SubmitCommand{
		Actor:         actor(c),
		ItemID:        req.ItemID,
		Quantity:      req.Quantity,
		Configuration: req.Configuration,
		Urgency:       req.Urgency,
		Justification: req.Justification,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

type statusReq struct {
	Status request.Status `json:"status"`
}

func (s *Server) updateRequestStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	res, err := s.deps.Requests.UpdateStatus(c.Request.Context(), apprequest.UpdateStatusCommand{
		Actor:     actor(c),
		RequestID: id,
		Status:    req.Status,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res.Request)
}

func (s *Server) listNotifications(c *gin.Context) {
	feed, err := s.deps.Notifications.List(c.Request.Context(), actor(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (s *Server) markNotificationRead(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.deps.Notifications.MarkRead(c.Request.Context(), appnotification.MarkReadCommand{Actor: actor(c), ID: id}); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) metricsSummary(c *gin.Context) {
	summary, err := s.deps.Metrics.Summary(c.Request.Context(), actor(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) metricsByRequester(c *gin.Context) {
	rows, err := s.deps.Metrics.ByRequester(c.Request.Context(), actor(c))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// writeDomainError maps use case errors onto HTTP status codes. Validation is
// checked first since validation errors may also wrap a not-found cause.
func writeDomainError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, application.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, request.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, request.ErrAlreadyResolved):
		status = http.StatusConflict
	case errors.Is(err, identity.ErrUnauthenticated),
		errors.Is(err, identity.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, identity.ErrForbidden):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		logctx.FromOr(c.Request.Context(), observability.NopLogger()).Error("http_internal_error",
			observability.F("error", err),
		)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
