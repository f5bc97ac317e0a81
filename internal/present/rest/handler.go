package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/itreb/portal"
	"github.com/itreb/portal/internal/domain"
	"github.com/itreb/portal/internal/present/rest/middleware"
	"github.com/itreb/portal/internal/present/rest/presenter"
	"github.com/itreb/portal/internal/service"
	"github.com/itreb/portal/internal/usecase"
)

const (
	eventsCacheKey        = "listing:events"
	opportunitiesCacheKey = "listing:opportunities"
)

// SignalStreamer feeds submission signals to realtime subscribers, filtered
// by the portfolio set most recently sent on input.
type SignalStreamer interface {
	Realtime(ctx context.Context, input <-chan []string, output chan<- portal.Signal)
}

type Handler struct {
	applications  *usecase.ApplicationUsecase
	opportunities *usecase.OpportunityUsecase
	events        *usecase.EventUsecase
	todos         *usecase.TodoUsecase
	profiles      *usecase.ProfileUsecase
	auth          *service.AuthService
	signal        SignalStreamer
	listings      *service.ListingCache
}

func NewHandler(
	applications *usecase.ApplicationUsecase,
	opportunities *usecase.OpportunityUsecase,
	events *usecase.EventUsecase,
	todos *usecase.TodoUsecase,
	profiles *usecase.ProfileUsecase,
	auth *service.AuthService,
	signal SignalStreamer,
	listings *service.ListingCache,
) *Handler {
	return &Handler{
		applications:  applications,
		opportunities: opportunities,
		events:        events,
		todos:         todos,
		profiles:      profiles,
		auth:          auth,
		signal:        signal,
		listings:      listings,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, authMw *middleware.AuthMiddleware) {
	e.Use(authMw.IdentifyIdentity)

	api := e.Group("/api/v1")

	api.POST("/auth/signup", h.handleSignup)
	api.POST("/auth/signin", h.handleSignin)

	api.GET("/events", h.handleListEvents)
	api.GET("/events/upcoming", h.handleUpcomingEvents)
	api.GET("/opportunities", h.handleListOpportunities)
	api.GET("/opportunities/:id", h.handleGetOpportunity)
	api.POST("/applications", h.handleSubmitApplication)

	authed := api.Group("", authMw.RequireAuth)
	authed.GET("/profile", h.handleGetProfile)
	authed.GET("/todos", h.handleListTodos)
	authed.POST("/todos", h.handleAddTodo)
	authed.PATCH("/todos/:id", h.handleUpdateTodo)
	authed.DELETE("/todos/:id", h.handleDeleteTodo)

	board := api.Group("", authMw.RequireRole(portal.RoleBoardMember))
	board.POST("/events", h.handleCreateEvent)
	board.PUT("/events/:id", h.handleUpdateEvent)
	board.DELETE("/events/:id", h.handleDeleteEvent)
	board.POST("/opportunities", h.handleCreateOpportunity)
	board.PUT("/opportunities/:id", h.handleUpdateOpportunity)
	board.DELETE("/opportunities/:id", h.handleDeleteOpportunity)
	board.GET("/applications", h.handleListApplications)
	board.PATCH("/applications/:id/status", h.handleUpdateApplicationStatus)

	e.GET("/realtime", h.handleRealtime, authMw.RequireRole(portal.RoleBoardMember))
}

// --- auth ---

type signupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

func (h *Handler) handleSignup(c echo.Context) error {
	ctx := c.Request().Context()

	var req signupRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	profile, err := h.auth.Signup(ctx, req.Email, req.FullName, req.Password)
	if err != nil {
		return presenter.Error(c, err)
	}

	token, err := h.auth.IssueToken(profile.ID)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	return presenter.Created(c, echo.Map{"token": token, "profile": profile})
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleSignin(c echo.Context) error {
	ctx := c.Request().Context()

	var req signinRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	token, profile, err := h.auth.Signin(ctx, req.Email, req.Password)
	if err != nil {
		return presenter.Unauthorized(c, "invalid credentials")
	}

	return presenter.OK(c, echo.Map{"token": token, "profile": profile})
}

func (h *Handler) handleGetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	profile, err := h.profiles.Get(ctx, middleware.RequesterID(c))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, profile)
}

// --- events ---

func (h *Handler) handleListEvents(c echo.Context) error {
	ctx := c.Request().Context()

	if payload, etag, ok := h.listings.Get(eventsCacheKey); ok {
		return respondListing(c, payload, etag)
	}

	events, err := h.events.List(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	payload, etag, err := h.listings.Put(eventsCacheKey, events)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return respondListing(c, payload, etag)
}

func (h *Handler) handleUpcomingEvents(c echo.Context) error {
	ctx := c.Request().Context()

	events, err := h.events.Upcoming(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, events)
}

type eventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	EventDate   string   `json:"event_date"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Venue       string   `json:"venue"`
	ImageURLs   []string `json:"image_urls"`
}

func (h *Handler) handleCreateEvent(c echo.Context) error {
	ctx := c.Request().Context()

	var req eventRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	event, err := h.events.Create(ctx, middleware.RequesterID(c), usecase.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Venue:       req.Venue,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	h.listings.Invalidate(eventsCacheKey)
	return presenter.Created(c, event)
}

type eventPatchRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	EventDate   *string   `json:"event_date"`
	StartTime   *string   `json:"start_time"`
	EndTime     *string   `json:"end_time"`
	Venue       *string   `json:"venue"`
	ImageURLs   *[]string `json:"image_urls"`
}

func (h *Handler) handleUpdateEvent(c echo.Context) error {
	ctx := c.Request().Context()

	var req eventPatchRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	event, err := h.events.Update(ctx, c.Param("id"), usecase.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Venue:       req.Venue,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	h.listings.Invalidate(eventsCacheKey)
	return presenter.OK(c, event)
}

func (h *Handler) handleDeleteEvent(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.events.Delete(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}

	h.listings.Invalidate(eventsCacheKey)
	return presenter.OK(c, echo.Map{"status": "ok"})
}

// --- opportunities ---

func (h *Handler) handleListOpportunities(c echo.Context) error {
	ctx := c.Request().Context()

	// Board members see inactive postings too; the public listing is cached.
	if middleware.RequesterRole(c) == portal.RoleBoardMember {
		opportunities, err := h.opportunities.List(ctx, false)
		if err != nil {
			return presenter.InternalError(c, err)
		}
		return presenter.OK(c, opportunities)
	}

	if payload, etag, ok := h.listings.Get(opportunitiesCacheKey); ok {
		return respondListing(c, payload, etag)
	}

	opportunities, err := h.opportunities.List(ctx, true)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	payload, etag, err := h.listings.Put(opportunitiesCacheKey, opportunities)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return respondListing(c, payload, etag)
}

func (h *Handler) handleGetOpportunity(c echo.Context) error {
	ctx := c.Request().Context()

	opportunity, err := h.opportunities.Get(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, opportunity)
}

type opportunityRequest struct {
	JobTitle         string `json:"job_title"`
	Description      string `json:"description"`
	Duration         string `json:"duration"`
	Portfolio        string `json:"portfolio"`
	SkillRequirement string `json:"skill_requirement"`
}

func (h *Handler) handleCreateOpportunity(c echo.Context) error {
	ctx := c.Request().Context()

	var req opportunityRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	opportunity, err := h.opportunities.Create(ctx, middleware.RequesterID(c), usecase.CreateOpportunityInput{
		JobTitle:         req.JobTitle,
		Description:      req.Description,
		Duration:         req.Duration,
		Portfolio:        req.Portfolio,
		SkillRequirement: req.SkillRequirement,
	})
	if err != nil {
		return presenter.Error(c, err)
	}

	h.listings.Invalidate(opportunitiesCacheKey)
	return presenter.Created(c, opportunity)
}

type opportunityPatchRequest struct {
	JobTitle         *string `json:"job_title"`
	Description      *string `json:"description"`
	Duration         *string `json:"duration"`
	Portfolio        *string `json:"portfolio"`
	SkillRequirement *string `json:"skill_requirement"`
	IsActive         *bool   `json:"is_active"`
}

func (h *Handler) handleUpdateOpportunity(c echo.Context) error {
	ctx := c.Request().Context()

	var req opportunityPatchRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	patch := usecase.OpportunityPatch{
		JobTitle:         req.JobTitle,
		Description:      req.Description,
		Duration:         req.Duration,
		SkillRequirement: req.SkillRequirement,
		IsActive:         req.IsActive,
	}
	if req.Portfolio != nil {
		p := portal.Portfolio(*req.Portfolio)
		patch.Portfolio = &p
	}

	opportunity, err := h.opportunities.Update(ctx, c.Param("id"), patch)
	if err != nil {
		return presenter.Error(c, err)
	}

	h.listings.Invalidate(opportunitiesCacheKey)
	return presenter.OK(c, opportunity)
}

func (h *Handler) handleDeleteOpportunity(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.opportunities.Delete(ctx, middleware.RequesterID(c), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}

	h.listings.Invalidate(opportunitiesCacheKey)
	return presenter.OK(c, echo.Map{"status": "ok"})
}

// --- applications ---

func (h *Handler) handleSubmitApplication(c echo.Context) error {
	ctx := c.Request().Context()

	input := usecase.SubmitApplicationInput{
		OpportunityID:          c.FormValue("opportunity_id"),
		FirstName:              c.FormValue("first_name"),
		LastName:               c.FormValue("last_name"),
		Email:                  c.FormValue("email"),
		ContactNumber:          c.FormValue("contact_number"),
		Age:                    c.FormValue("age"),
		Portfolio:              c.FormValue("portfolio"),
		SecularQualification:   c.FormValue("secular_qualification"),
		ReligiousQualification: c.FormValue("religious_qualification"),
		Skills:                 c.FormValue("skills"),
	}

	fileHeader, err := c.FormFile("resume")
	if err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return presenter.BadRequestMessage(c, "unreadable resume file")
		}
		defer file.Close()

		input.Resume = &usecase.ResumeUpload{
			Filename: fileHeader.Filename,
			Size:     fileHeader.Size,
			Reader:   file,
		}
	}

	application, err := h.applications.Submit(ctx, input)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.Created(c, application)
}

func (h *Handler) handleListApplications(c echo.Context) error {
	ctx := c.Request().Context()

	reviewer := domain.Profile{
		ID:        middleware.RequesterID(c),
		Role:      middleware.RequesterRole(c),
		Portfolio: middleware.RequesterPortfolio(c),
	}

	applications, err := h.applications.ListForReviewer(ctx, reviewer)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, applications)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateApplicationStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req statusRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	reviewer := domain.Profile{
		ID:        middleware.RequesterID(c),
		Role:      middleware.RequesterRole(c),
		Portfolio: middleware.RequesterPortfolio(c),
	}

	application, err := h.applications.UpdateStatus(ctx, reviewer, c.Param("id"), portal.ApplicationStatus(req.Status))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, application)
}

// --- todos ---

func (h *Handler) handleListTodos(c echo.Context) error {
	ctx := c.Request().Context()

	todos, err := h.todos.List(ctx, middleware.RequesterID(c))
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, todos)
}

type todoRequest struct {
	Content string `json:"content"`
}

func (h *Handler) handleAddTodo(c echo.Context) error {
	ctx := c.Request().Context()

	var req todoRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	todo, err := h.todos.Add(ctx, middleware.RequesterID(c), req.Content)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, todo)
}

type todoPatchRequest struct {
	Content   *string `json:"content"`
	Completed *bool   `json:"completed"`
}

func (h *Handler) handleUpdateTodo(c echo.Context) error {
	ctx := c.Request().Context()

	var req todoPatchRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	todo, err := h.todos.Update(ctx, c.Param("id"), middleware.RequesterID(c), usecase.TodoPatch{
		Content:   req.Content,
		Completed: req.Completed,
	})
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, todo)
}

func (h *Handler) handleDeleteTodo(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.todos.Delete(ctx, c.Param("id"), middleware.RequesterID(c))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

// --- realtime ---

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeRequest struct {
	Type string `json:"type"`
}

// handleRealtime streams submission signals for the viewer's own portfolio
// over a websocket.
func (h *Handler) handleRealtime(c echo.Context) error {
	viewerPortfolio := middleware.RequesterPortfolio(c)
	if viewerPortfolio == nil {
		return presenter.Forbidden(c, "no portfolio assigned")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	input := make(chan []string)
	defer close(input)
	output := make(chan portal.Signal)

	go h.signal.Realtime(ctx, input, output)

	input <- []string{string(*viewerPortfolio)}

	// Buffered so the reader's final send cannot block after the write loop
	// has already returned.
	quit := make(chan struct{}, 1)

	go func() {
		for {
			var req realtimeRequest
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}

			switch req.Type {
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, fmt.Sprintf("Unknown request type: %s", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case signal := <-output:
			err := ws.WriteJSON(signal)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}

func respondListing(c echo.Context, payload []byte, etag string) error {
	c.Response().Header().Set("ETag", etag)
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, payload)
}
