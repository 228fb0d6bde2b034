package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lottosix/lotto"
)

// APIResponse is the uniform JSON envelope for every endpoint
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Server wires the draw manager and authenticator into gin routes
type Server struct {
	manager *lotto.DrawManager
	auth    *Authenticator
	users   lotto.UserStore
	logger  lotto.Logger
}

// NewServer creates the HTTP server over the given manager and user store
func NewServer(manager *lotto.DrawManager, auth *Authenticator, users lotto.UserStore, logger lotto.Logger) *Server {
	if logger == nil {
		logger = &lotto.DefaultLogger{}
	}

	return &Server{
		manager: manager,
		auth:    auth,
		users:   users,
		logger:  logger,
	}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", s.Register)
		authGroup.POST("/login", s.Login)
		authGroup.GET("/me", s.auth.Middleware(), s.Me)
	}

	lottery := api.Group("/lottery")
	{
		lottery.GET("/current-draw", s.GetCurrentDraw)
		lottery.GET("/draws", s.GetRecentDraws)
		lottery.GET("/draws/:id", s.GetDraw)
		lottery.GET("/quick-pick", s.QuickPick)
		lottery.GET("/statistics", s.GetStatistics)

		protected := lottery.Group("", s.auth.Middleware())
		{
			protected.POST("/purchase-ticket", s.PurchaseTicket)
			protected.GET("/my-tickets", s.MyTickets)
		}
	}

	admin := api.Group("/admin", s.auth.Middleware(), s.auth.AdminOnly())
	{
		admin.GET("/users", s.ListUsers)
		admin.GET("/draws", s.AdminDraws)
		admin.GET("/draws/:id/tickets", s.DrawTickets)
		admin.GET("/dashboard", s.Dashboard)
		admin.POST("/draws", s.CreateDraw)
		admin.POST("/draws/:id/conduct", s.ConductDraw)
		admin.POST("/draws/schedule-next", s.ScheduleNextDraw)
		admin.GET("/metrics", s.GetMetrics)
	}

	return router
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates a new user account and returns a signed token
func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid registration payload")
		return
	}

	existing, err := s.users.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		s.fail(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, APIResponse{
			Success: false,
			Error:   "email already registered",
		})
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}

	user := &lotto.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         lotto.RoleUser,
	}
	if err := s.users.CreateUser(c.Request.Context(), user); err != nil {
		s.fail(c, err)
		return
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    gin.H{"user": user, "token": token},
		Message: "account created",
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a signed token
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid login payload")
		return
	}

	user, err := s.users.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		s.fail(c, err)
		return
	}
	if user == nil || !CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, APIResponse{
			Success: false,
			Error:   "invalid email or password",
		})
		return
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"user": user, "token": token},
	})
}

// Me returns the authenticated user's account
func (s *Server) Me(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		unauthorized(c, "not authenticated")
		return
	}

	user, err := s.users.GetUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, APIResponse{
			Success: false,
			Error:   "user not found",
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: user})
}

// GetCurrentDraw returns the draw currently open for purchases
func (s *Server) GetCurrentDraw(c *gin.Context) {
	draw, err := s.manager.CurrentDraw(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if draw == nil {
		c.JSON(http.StatusNotFound, APIResponse{
			Success: false,
			Error:   "no draw is currently available",
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: draw})
}

// GetRecentDraws returns recent draws, newest first. The limit query
// parameter caps the result.
func (s *Server) GetRecentDraws(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			badRequest(c, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	draws, err := s.manager.RecentDraws(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: draws})
}

// GetDraw returns one draw by ID
func (s *Server) GetDraw(c *gin.Context) {
	draw, err := s.manager.GetDraw(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: draw})
}

// QuickPick returns a randomly generated valid number set
func (s *Server) QuickPick(c *gin.Context) {
	numbers, err := s.manager.QuickPick()
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    gin.H{"numbers": numbers},
	})
}

// GetStatistics returns aggregate statistics over recent draws
func (s *Server) GetStatistics(c *gin.Context) {
	stats, err := s.manager.Statistics(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: stats})
}

type purchaseRequest struct {
	DrawID  string `json:"draw_id" binding:"required"`
	Numbers []int  `json:"numbers" binding:"required"`
}

// PurchaseTicket sells a ticket on the current draw to the authenticated user
func (s *Server) PurchaseTicket(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		unauthorized(c, "not authenticated")
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid purchase payload")
		return
	}

	ticket, err := s.manager.PurchaseTicket(c.Request.Context(), claims.UserID, req.DrawID, req.Numbers)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    ticket,
		Message: "ticket purchased",
	})
}

// MyTickets returns the authenticated user's tickets
func (s *Server) MyTickets(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		unauthorized(c, "not authenticated")
		return
	}

	tickets, err := s.manager.TicketsForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: tickets})
}

type createDrawRequest struct {
	DrawDate   time.Time `json:"draw_date" binding:"required"`
	TotalPrize float64   `json:"total_prize" binding:"required"`
}

// CreateDraw creates a new scheduled draw
func (s *Server) CreateDraw(c *gin.Context) {
	var req createDrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid draw payload")
		return
	}

	draw, err := s.manager.CreateDraw(c.Request.Context(), req.DrawDate, req.TotalPrize)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    draw,
		Message: "draw created",
	})
}

// ConductDraw conducts the draw and returns the winners
func (s *Server) ConductDraw(c *gin.Context) {
	result, err := s.manager.ConductDraw(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
		Message: "draw conducted",
	})
}

// ScheduleNextDraw schedules tomorrow's draw
func (s *Server) ScheduleNextDraw(c *gin.Context) {
	draw, err := s.manager.ScheduleNextDraw(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    draw,
		Message: "next draw scheduled",
	})
}

// ListUsers returns every registered account. Password hashes never
// serialize (the field is json-excluded on the entity).
func (s *Server) ListUsers(c *gin.Context) {
	users, err := s.users.ListUsers(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: users})
}

// AdminDraws returns recent draws enriched with ticket and winner tallies
func (s *Server) AdminDraws(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			badRequest(c, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	summaries, err := s.manager.DrawSummaries(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: summaries})
}

// DrawTickets returns every ticket purchased for one draw
func (s *Server) DrawTickets(c *gin.Context) {
	tickets, err := s.manager.TicketsForDraw(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{Success: true, Data: tickets})
}

// Dashboard aggregates the admin overview: user counts, the current draw,
// recent draws, and the game statistics
func (s *Server) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	activeUsers := 0
	for _, u := range users {
		if u.Role == lotto.RoleUser {
			activeUsers++
		}
	}

	stats, err := s.manager.Statistics(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}

	current, err := s.manager.CurrentDraw(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}

	recent, err := s.manager.RecentDraws(ctx, 5)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: gin.H{
			"total_users":  len(users),
			"active_users": activeUsers,
			"total_draws":  stats.TotalDraws,
			"current_draw": current,
			"recent_draws": recent,
			"statistics":   stats,
		},
	})
}

// GetMetrics returns the manager's performance metrics
func (s *Server) GetMetrics(c *gin.Context) {
	metrics := s.manager.Monitor().GetMetrics()
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: metrics})
}

// fail maps domain errors onto HTTP status codes and logs the rest
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, lotto.ErrInvalidParameters),
		errors.Is(err, lotto.ErrInvalidNumbers):
		status = http.StatusBadRequest
	case errors.Is(err, lotto.ErrDrawUnavailable),
		errors.Is(err, lotto.ErrDrawNotFound):
		status = http.StatusNotFound
	case errors.Is(err, lotto.ErrDrawClosed),
		errors.Is(err, lotto.ErrDrawAlreadyCompleted):
		status = http.StatusConflict
	case errors.Is(err, lotto.ErrTicketLimitExceeded):
		status = http.StatusTooManyRequests
	case errors.Is(err, lotto.ErrLockAcquisitionFailed),
		errors.Is(err, lotto.ErrRedisConnectionFailed):
		status = http.StatusServiceUnavailable
	default:
		s.logger.Error("request failed: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, APIResponse{
			Success: false,
			Error:   "internal server error",
		})
		return
	}

	c.JSON(status, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Error:   msg,
	})
}
