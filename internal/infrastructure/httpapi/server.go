// Package httpapi exposes the assistant over HTTP: the Google OAuth flow,
// the chat endpoints with their confirmation gate, and the raw calendar
// event endpoints backing the UI.
package httpapi

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/infrastructure/auth"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/services"
)

// OAuthFlow is what the server needs from the OAuth layer. auth.Manager is
// the production implementation.
type OAuthFlow interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) error
	Authenticated() bool
}

var _ OAuthFlow = (*auth.Manager)(nil)

const (
	sessionCookie = "gcaltool_session"
	stateCookie   = "gcaltool_oauth_state"
)

// Server wires the HTTP surface together.
type Server struct {
	engine    *gin.Engine
	chat      *services.ChatService
	calendar  ports.CalendarClient
	oauth     OAuthFlow
	sessions  *auth.Sessions
	logger    ports.Logger
	staticDir string
}

// Options carries everything the server needs. StaticDir may be empty.
type Options struct {
	Chat           *services.ChatService
	Calendar       ports.CalendarClient
	OAuth          OAuthFlow
	Sessions       *auth.Sessions
	Logger         ports.Logger
	StaticDir      string
	AllowedOrigins []string
}

func NewServer(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	engine.Use(cors.New(corsConfig))

	s := &Server{
		engine:    engine,
		chat:      opts.Chat,
		calendar:  opts.Calendar,
		oauth:     opts.OAuth,
		sessions:  opts.Sessions,
		logger:    opts.Logger,
		staticDir: opts.StaticDir,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/auth/google", s.handleAuthRedirect)
	s.engine.GET("/auth/google/callback", s.handleAuthCallback)

	api := s.engine.Group("/api", s.requireSession)
	{
		api.POST("/chat", s.handleChat)
		api.POST("/chat/confirm", s.handleChatConfirm)
		api.POST("/chat/reject", s.handleChatReject)
		api.POST("/chat/clear", s.handleChatClear)
		api.GET("/chat/history/stats", s.handleHistoryStats)

		api.GET("/calendar/events", s.handleListEvents)
		api.POST("/calendar/events", s.handleCreateEvent)
		api.PATCH("/calendar/events/:id", s.handlePatchEvent)
		api.DELETE("/calendar/events/:id", s.handleDeleteEvent)
	}

	if s.staticDir != "" {
		if info, err := os.Stat(s.staticDir); err == nil && info.IsDir() {
			s.engine.NoRoute(s.serveStatic)
		}
	}
}

// requireSession verifies the signed session cookie and checks that the
// Google account is connected. The session ID becomes the conversation key.
func (s *Server) requireSession(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		writeError(c, domain.ErrAuthRequired)
		c.Abort()
		return
	}
	sessionID, err := s.sessions.Verify(token)
	if err != nil {
		writeError(c, domain.ErrAuthRequired)
		c.Abort()
		return
	}
	if !s.oauth.Authenticated() {
		writeError(c, domain.ErrAuthRequired)
		c.Abort()
		return
	}
	c.Set("session_id", sessionID)
	c.Next()
}

func (s *Server) handleAuthRedirect(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie(stateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, s.oauth.AuthURL(state))
}

func (s *Server) handleAuthCallback(c *gin.Context) {
	wantState, err := c.Cookie(stateCookie)
	if err != nil || wantState == "" || c.Query("state") != wantState {
		s.logger.Warn("oauth callback with bad state", nil)
		c.Redirect(http.StatusFound, "/?auth=error")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, "/?auth=error")
		return
	}
	if err := s.oauth.Exchange(c.Request.Context(), code); err != nil {
		s.logger.Error("oauth exchange failed", err, nil)
		c.Redirect(http.StatusFound, "/?auth=error")
		return
	}

	token, _, err := s.sessions.Issue()
	if err != nil {
		s.logger.Error("session issue failed", err, nil)
		c.Redirect(http.StatusFound, "/?auth=error")
		return
	}
	c.SetCookie(sessionCookie, token, int(s.sessions.TTL().Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, "/?auth=success")
}

func (s *Server) serveStatic(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.Status(http.StatusNotFound)
		return
	}
	requested := filepath.Join(s.staticDir, filepath.Clean("/"+c.Request.URL.Path))
	if info, err := os.Stat(requested); err == nil && !info.IsDir() {
		c.File(requested)
		return
	}
	c.File(filepath.Join(s.staticDir, "index.html"))
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks serving on the given address.
func (s *Server) Run(listen string) error {
	s.logger.Info("http server listening", map[string]interface{}{"addr": listen})
	return s.engine.Run(listen)
}
