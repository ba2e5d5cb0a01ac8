package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/alnah/go-md2deck/internal/pipeline"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// reloadMessage is broadcast to connected browsers when a source file
// changes. The client script reloads on any message.
const reloadMessage = "reload"

// reloadScript is injected into every served deck page. It reconnects
// after the server restarts so edits during a restart still reload.
const reloadScript = `(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var socket = new WebSocket(proto + location.host + "/ws");
  socket.onmessage = function () { location.reload(); };
  socket.onclose = function () {
    setTimeout(function () { location.reload(); }, 2000);
  };
})();`

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// PageRenderer renders markdown into a self-contained HTML page.
type PageRenderer interface {
	RenderPage(ctx context.Context, markdown string) (string, error)
}

// Options configures a Server. Zero values select defaults.
type Options struct {
	Addr         string        // listen address (default ":8080")
	PollInterval time.Duration // file poll interval (default 500ms)
}

// Server serves rendered decks from a source directory with
// live-reload. Markdown files are rendered per request; anything else
// is served as a static file so relative image paths keep working.
type Server struct {
	renderer PageRenderer
	root     string
	addr     string
	hub      *Hub
	watcher  *Watcher
	engine   *gin.Engine
}

// New creates a Server over the source directory root.
func New(renderer PageRenderer, root string, opts Options) *Server {
	addr := opts.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		renderer: renderer,
		root:     root,
		addr:     addr,
		hub:      NewHub(),
		watcher:  NewWatcher(root, opts.PollInterval),
		engine:   engine,
	}

	engine.GET("/", s.handleIndex)
	engine.GET("/ws", s.handleSocket)
	engine.NoRoute(s.handleFile)

	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler exposes the HTTP handler, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the hub, the file watcher, and the HTTP listener, and
// blocks until ctx is cancelled or the listener fails.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run(ctx)
	go s.watcher.Run(ctx, func(string) {
		s.hub.Broadcast([]byte(reloadMessage))
	})

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	}
}

// handleIndex lists the markdown files under root as links.
func (s *Server) handleIndex(c *gin.Context) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\" />\n")
	b.WriteString("<title>md2deck</title>\n</head>\n<body>\n<h1>Decks</h1>\n<ul>\n")
	for _, deck := range s.listDecks() {
		href := "/" + filepath.ToSlash(deck)
		fmt.Fprintf(&b, "<li><a href=%q>%s</a></li>\n", href, html.EscapeString(deck))
	}
	b.WriteString("</ul>\n</body>\n</html>\n")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(b.String()))
}

// handleSocket upgrades the connection and registers it with the hub.
func (s *Server) handleSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	cl := &client{hub: s.hub, conn: conn, send: make(chan []byte, 8)}
	s.hub.Register(cl)
	go cl.writePump()
	go cl.readPump()
}

// handleFile serves markdown files as rendered decks and everything
// else verbatim.
func (s *Server) handleFile(c *gin.Context) {
	rel := strings.TrimPrefix(c.Request.URL.Path, "/")
	if rel == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	target, err := s.resolve(rel)
	if err != nil {
		c.String(http.StatusNotFound, "not found: %s", rel)
		return
	}

	if strings.EqualFold(filepath.Ext(target), ".md") {
		s.serveDeck(c, target)
		return
	}
	c.File(target)
}

// serveDeck renders one markdown file into a page with the reload
// script injected.
func (s *Server) serveDeck(c *gin.Context, path string) {
	source, err := os.ReadFile(path) // #nosec G304 -- path is resolved against the server root
	if err != nil {
		c.String(http.StatusInternalServerError, "reading %s: %v", filepath.Base(path), err)
		return
	}

	page, err := s.renderer.RenderPage(c.Request.Context(), string(source))
	if err != nil {
		c.String(http.StatusInternalServerError, "rendering %s: %v", filepath.Base(path), err)
		return
	}

	page = pipeline.InjectScript(page, reloadScript)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// resolve maps a URL path to a file under root, rejecting anything
// that escapes it.
func (s *Server) resolve(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.New("path escapes root")
	}

	target := filepath.Join(s.root, clean)
	info, err := os.Stat(target)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", errors.New("is a directory")
	}
	return target, nil
}

// listDecks returns the markdown files under root, relative to it.
func (s *Server) listDecks() []string {
	var decks []string
	_ = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != s.root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		if rel, err := filepath.Rel(s.root, path); err == nil {
			decks = append(decks, rel)
		}
		return nil
	})
	sort.Strings(decks)
	return decks
}
