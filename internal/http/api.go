package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"notable/internal/domain"
	"notable/internal/service"
)

const sessionCookieName = "notable.sid"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	notes    service.NoteService
	sessions service.SessionService
	logger   *logrus.Logger
	cors     string
}

func NewHandler(users service.UserService, notes service.NoteService, sessions service.SessionService, logger *logrus.Logger, corsOrigin string) *Handler {
	return &Handler{
		users:    users,
		notes:    notes,
		sessions: sessions,
		logger:   logger,
		cors:     corsOrigin,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger))
	router.Use(corsMiddleware(h.cors))
	router.Use(errorMapper(h.logger))
	router.Use(h.loadSession)

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("/signup", h.signUp)
			users.POST("/login", h.login)
			users.POST("/logout", h.logout)
			users.GET("", requireAuth, h.getAuthenticatedUser)
		}

		notes := api.Group("/notes", requireAuth)
		{
			notes.GET("", h.listNotes)
			notes.GET("/:noteId", h.getNote)
			notes.POST("", h.createNote)
			notes.PATCH("/:noteId", h.updateNote)
			notes.DELETE("/:noteId", h.deleteNote)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		fail(c, domain.RouteNotFoundError("Endpoint not found"))
	})
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type noteRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, domain.ValidationError("Invalid request body"))
		return
	}

	user, err := h.users.SignUp(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.beginSession(c, user.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, domain.ValidationError("Invalid request body"))
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.beginSession(c, user.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) logout(c *gin.Context) {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
		if err := h.sessions.Destroy(c.Request.Context(), cookie); err != nil {
			fail(c, err)
			return
		}
	}
	h.clearSessionCookie(c)
	c.Status(http.StatusOK)
}

func (h *Handler) getAuthenticatedUser(c *gin.Context) {
	auth, err := mustAuth(c)
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), auth.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) listNotes(c *gin.Context) {
	auth, err := mustAuth(c)
	if err != nil {
		fail(c, err)
		return
	}

	notes, err := h.notes.List(c.Request.Context(), auth.UserID)
	if err != nil {
		fail(c, err)
		return
	}

	resp := make([]NoteResponse, len(notes))
	for i := range notes {
		resp[i] = noteToResponse(&notes[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getNote(c *gin.Context) {
	auth, err := mustAuth(c)
	if err != nil {
		fail(c, err)
		return
	}

	noteID, err := parseNoteID(c.Param("noteId"))
	if err != nil {
		fail(c, err)
		return
	}

	note, err := h.notes.Get(c.Request.Context(), auth.UserID, noteID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, noteToResponse(note))
}

func (h *Handler) createNote(c *gin.Context) {
	auth, err := mustAuth(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, domain.ValidationError("Invalid request body"))
		return
	}

	note, err := h.notes.Create(c.Request.Context(), auth.UserID, req.Title, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, noteToResponse(note))
}

func (h *Handler) updateNote(c *gin.Context) {
	auth, err := mustAuth(c)
	if err != nil {
		fail(c, err)
		return
	}

	noteID, err := parseNoteID(c.Param("noteId"))
	if err != nil {
		fail(c, err)
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, domain.ValidationError("Invalid request body"))
		return
	}

	note, err := h.notes.Update(c.Request.Context(), auth.UserID, noteID, req.Title, req.Text)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, noteToResponse(note))
}

func (h *Handler) deleteNote(c *gin.Context) {
	auth, err := mustAuth(c)
	if err != nil {
		fail(c, err)
		return
	}

	noteID, err := parseNoteID(c.Param("noteId"))
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.notes.Delete(c.Request.Context(), auth.UserID, noteID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseNoteID validates the path parameter against the store's id scheme
// (positive integer rowid) before any store access.
func parseNoteID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationError("Invalid note id")
	}
	return id, nil
}

func (h *Handler) beginSession(c *gin.Context, userID int64) error {
	// A fresh login always gets a fresh session; any previous one dies.
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
		if err := h.sessions.Destroy(c.Request.Context(), cookie); err != nil {
			return err
		}
	}

	cookie, err := h.sessions.Create(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, cookie)
	return nil
}

func (h *Handler) setSessionCookie(c *gin.Context, value string) {
	h.writeSessionCookie(c, value, int(h.sessions.TTL().Seconds()))
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	h.writeSessionCookie(c, "", -1)
}

// writeSessionCookie queues the session cookie, dropping any Set-Cookie
// header already queued for it: a login or logout replaces the sliding
// refresh so each response carries at most one cookie for the session.
func (h *Handler) writeSessionCookie(c *gin.Context, value string, maxAge int) {
	header := c.Writer.Header()
	if prev := header["Set-Cookie"]; len(prev) > 0 {
		var kept []string
		for _, sc := range prev {
			if !strings.HasPrefix(sc, sessionCookieName+"=") {
				kept = append(kept, sc)
			}
		}
		if len(kept) > 0 {
			header["Set-Cookie"] = kept
		} else {
			header.Del("Set-Cookie")
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, value, maxAge, "/", "", false, true)
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type NoteResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func noteToResponse(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		UserID:    note.UserID,
		Title:     note.Title,
		Text:      note.Text,
		CreatedAt: note.CreatedAt.Format(time.RFC3339),
		UpdatedAt: note.UpdatedAt.Format(time.RFC3339),
	}
}
