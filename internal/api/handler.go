package api

import (
	"net/http"
	"strings"

	"github.com/Abhinavj12/hackfest-2025/internal/auth"
	"github.com/Abhinavj12/hackfest-2025/internal/config"
	"github.com/Abhinavj12/hackfest-2025/internal/model"
	"github.com/Abhinavj12/hackfest-2025/internal/service"
	"github.com/Abhinavj12/hackfest-2025/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const bodyLimit = "10M"

type Handler struct {
	intake *service.IntakeService
	teams  *service.TeamService

	healthChecker HealthChecker
	issuer        *auth.Issuer

	cfg    *config.Config
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger, cfg *config.Config) *Handler {
	return &Handler{
		cfg:    cfg,
		logger: logger,
		issuer: auth.NewIssuer(""),
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithIntakeService(intake *service.IntakeService) *Handler {
	h.intake = intake
	return h
}

func (h *Handler) WithTeamService(teams *service.TeamService) *Handler {
	h.teams = teams
	return h
}

func (h *Handler) WithTokenIssuer(issuer *auth.Issuer) *Handler {
	h.issuer = issuer
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.HTTPErrorHandler = h.httpErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.FromContext(c.Request().Context()).Error("panic recovered", zap.Error(err), zap.ByteString("stack", stack))
			return err
		},
	}))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		HSTSMaxAge:            15552000,
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'",
		ReferrerPolicy:        "no-referrer",
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{h.cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(h.rateLimiter(h.cfg.RateLimitPerWindow, globalWindow, msgTooManyRequests))

	if h.healthChecker != nil {
		e.GET("/health", h.healthChecker.HealthCheck())
	}

	api := e.Group("/api")

	api.GET("/teams", h.ListTeams)
	api.GET("/stats", h.GetStatistics)
	api.GET("/team/:id", h.GetTeam)
	api.POST("/register", h.RegisterTeam, h.rateLimiter(h.cfg.RegisterLimitPerHour, registerWindow, msgTooManyRegistrations))

	// Route level, so unknown /api paths still fall through to "Route not found".
	adminOnly := h.AuthMiddleware(auth.TokenTypeAdmin)

	api.PATCH("/team/:id/status", h.UpdateTeamStatus, adminOnly)
	api.DELETE("/team/:id", h.DeleteTeam, adminOnly)

	if h.cfg.StaticDir != "" {
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:  h.cfg.StaticDir,
			HTML5: true,
			Skipper: func(c echo.Context) bool {
				p := c.Request().URL.Path
				return p == "/health" || p == "/api" || strings.HasPrefix(p, "/api/")
			},
		}))
	}
}

func (h *Handler) RegisterTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req model.Registration

	if err := decodeRequest(e, &req, false); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	team, err := h.intake.Register(e.Request().Context(), &req)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, struct {
		Message string             `json:"message"`
		Team    *model.TeamSummary `json:"team"`
	}{
		Message: "Team registered successfully!",
		Team:    team,
	})
}

func (h *Handler) ListTeams(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var (
		page, limit       int
		track, experience string
	)
	err := echo.QueryParamsBinder(e).
		Int("page", &page).
		Int("limit", &limit).
		String("track", &track).
		String("experience", &experience).
		BindError()
	if err != nil {
		l.Warn("invalid query parameters", zap.Error(err))
		return h.transportError(e, service.NewError(service.ErrorCodeValidation, "Invalid query parameters"))
	}

	filter := model.TeamFilter{Track: model.Track(track), Experience: model.Experience(experience)}

	teams, serr := h.teams.ListTeams(e.Request().Context(), page, limit, filter)
	if serr != nil {
		return h.transportError(e, serr)
	}

	return e.JSON(http.StatusOK, teams)
}

func (h *Handler) GetStatistics(e echo.Context) error {
	stats, err := h.teams.GetStatistics(e.Request().Context())
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, stats)
}

func (h *Handler) GetTeam(e echo.Context) error {
	team, err := h.teams.GetTeam(e.Request().Context(), e.Param("id"))
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, team)
}

func (h *Handler) UpdateTeamStatus(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Status model.Status `json:"status" validate:"required"`
	}

	if err := decodeRequest(e, &req, true); err != nil {
		l.Warn("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	team, err := h.teams.UpdateStatus(e.Request().Context(), e.Param("id"), req.Status)
	if err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, struct {
		Message string      `json:"message"`
		Team    *model.Team `json:"team"`
	}{
		Message: "Team status updated successfully",
		Team:    team,
	})
}

func (h *Handler) DeleteTeam(e echo.Context) error {
	if err := h.teams.DeleteTeam(e.Request().Context(), e.Param("id")); err != nil {
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, map[string]string{"message": "Team deleted successfully"})
}
