// Package web serves the chat page and its JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dyike/mentorchat/internal/chat"
	"github.com/dyike/mentorchat/internal/session"
)

const (
	ClientCookie = "mentor_client"
	PageTitle    = "AI Data Science Mentor"

	cookieMaxAge = 365 * 24 * 3600
)

//go:embed templates/*.html
var templateFS embed.FS

type Options struct {
	Addr  string
	Debug bool
}

// Server wires the conversation service to HTTP. Each browser gets a client
// cookie that selects its session.Manager.
type Server struct {
	svc     *chat.Service
	clients *session.Registry
	engine  *gin.Engine
	addr    string
	debug   bool

	mu      sync.Mutex
	notices map[string]string
}

func NewServer(svc *chat.Service, clients *session.Registry, opts Options) (*Server, error) {
	if svc == nil {
		return nil, errors.New("chat service is required")
	}
	if clients == nil {
		clients = session.NewRegistry()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}

	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		svc:     svc,
		clients: clients,
		addr:    opts.Addr,
		debug:   opts.Debug,
		notices: make(map[string]string),
	}
	clients.OnEvict(s.dropNotice)

	r := gin.New()
	r.Use(gin.Recovery())
	if opts.Debug {
		r.Use(gin.Logger())
	}
	r.SetHTMLTemplate(tpl)
	s.routes(r)
	s.engine = r
	return s, nil
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	r.GET("/", s.Index)
	r.POST("/chat", s.SubmitForm)
	r.POST("/new", s.NewChat)

	api := r.Group("/api")
	{
		api.POST("/chat", s.APIChat)
		api.GET("/history", s.APIHistory)
		api.POST("/session/reset", s.APIReset)
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server.Run] listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("[Server.Run] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// client resolves the caller's Manager and refreshes the cookie.
func (s *Server) client(c *gin.Context) (string, *session.Manager) {
	id, _ := c.Cookie(ClientCookie)
	id, mgr := s.clients.Get(id)
	c.SetCookie(ClientCookie, id, cookieMaxAge, "/", "", false, true)
	return id, mgr
}

func (s *Server) setNotice(clientID, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices[clientID] = msg
}

func (s *Server) dropNotice(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notices, clientID)
}

func (s *Server) popNotice(clientID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.notices[clientID]
	delete(s.notices, clientID)
	return msg
}
