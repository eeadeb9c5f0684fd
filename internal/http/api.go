package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"whisperlink/internal/auth"
	"whisperlink/internal/domain"
	"whisperlink/internal/service"
	"whisperlink/internal/validation"
)

const sessionCookie = "whisper_session"

// Handler wires HTTP routes to domain services. Every response is a uniform
// envelope: {"success": true, ...} or {"success": false, "error": "..."}.
type Handler struct {
	users    service.UserService
	messages service.MessageService
	tokens   *auth.TokenIssuer
	logger   *logrus.Logger
}

func NewHandler(users service.UserService, messages service.MessageService, tokens *auth.TokenIssuer, logger *logrus.Logger) *Handler {
	return &Handler{
		users:    users,
		messages: messages,
		tokens:   tokens,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(h.requestLogger())

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.POST("/auth/logout", h.logout)
		api.GET("/auth/session", h.session)

		api.GET("/users/:username", h.getProfile)
		api.POST("/users/:username/messages", h.submitMessage)

		authed := api.Group("", h.requireSession())
		{
			authed.GET("/messages", h.listMessages)
			authed.POST("/messages/:id/read", h.markMessageRead)
			authed.DELETE("/messages/:id", h.deleteMessage)
		}
	}
}

func (h *Handler) register(c *gin.Context) {
	var req validation.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": userToResponse(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.tokens.TTL().Seconds()))
	c.JSON(http.StatusOK, gin.H{"success": true, "user": userToResponse(user)})
}

func (h *Handler) logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) session(c *gin.Context) {
	sess := h.sessionFromCookie(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": service.ErrNotAuthenticated.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": gin.H{
		"userId":   sess.UserID,
		"username": sess.Username,
	}})
}

func (h *Handler) getProfile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	// public lookup exposes only what the share page needs
	c.JSON(http.StatusOK, gin.H{"success": true, "user": gin.H{
		"name":     user.Name,
		"username": user.Username,
	}})
}

type submitMessageRequest struct {
	Content string `json:"content"`
}

func (h *Handler) submitMessage(c *gin.Context) {
	var req submitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	message, err := h.messages.Submit(c.Request.Context(), c.Param("username"), req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": messageToResponse(*message)})
}

func (h *Handler) listMessages(c *gin.Context) {
	messages, err := h.messages.ListForUser(c.Request.Context(), currentSession(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]MessageResponse, len(messages))
	for i := range messages {
		resp[i] = messageToResponse(messages[i])
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": resp})
}

func (h *Handler) markMessageRead(c *gin.Context) {
	if err := h.messages.MarkRead(c.Request.Context(), currentSession(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) deleteMessage(c *gin.Context) {
	if err := h.messages.Delete(c.Request.Context(), currentSession(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// respondError translates the service error taxonomy into a status code and
// the failure envelope. Nothing propagates past here as a raw error.
func (h *Handler) respondError(c *gin.Context, err error) {
	var fieldErr *validation.FieldError
	var conflictErr *service.ConflictError

	switch {
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": fieldErr.Message})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": conflictErr.Error()})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	default:
		h.logger.WithError(err).Error("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "An unexpected error occurred"})
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, maxAge, "/", "", false, true)
}

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

type MessageResponse struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	ReceiverID string `json:"receiver_id"`
	IsRead     bool   `json:"is_read"`
	CreatedAt  string `json:"created_at"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func messageToResponse(m domain.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		Content:    m.Content,
		ReceiverID: m.ReceiverID,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt.Format(time.RFC3339),
	}
}
