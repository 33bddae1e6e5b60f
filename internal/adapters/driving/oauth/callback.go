// Package oauth provides the local OIDC callback server and browser helper.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/confadmin/internal/logger"
)

// ErrStateMismatch is returned when the callback state does not match.
var ErrStateMismatch = errors.New("state mismatch")

// CallbackServer receives the identity provider redirect on a loopback port.
// It serves a single path and hands the authorization code to WaitForCode.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	path          string
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a callback server for path. A port of 0 picks a
// free one on Start.
func NewCallbackServer(port int, path string) *CallbackServer {
	if path == "" {
		path = "/callback"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &CallbackServer{
		port:     port,
		path:     path,
		codeChan: make(chan string, 1),
		errChan:  make(chan error, 1),
	}
}

// Expect sets the state the callback must carry. It is known only after the
// redirect URI has been used to build the authorization URL.
func (s *CallbackServer) Expect(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expectedState = state
}

// Handler returns the router serving the callback path.
func (s *CallbackServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(s.path, s.handleCallback)
	return r
}

// Start listens on 127.0.0.1 and serves in the background.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	// Store the actual port (important when port was 0)
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.fail(err)
		}
	}()

	logger.Debug("OIDC callback listening on %s", s.RedirectURI())
	return nil
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if errParam := q.Get("error"); errParam != "" {
		desc := q.Get("error_description")
		s.fail(fmt.Errorf("oidc error: %s - %s", errParam, desc))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, resultHTML("Sign-in failed", desc))
		return
	}

	s.mu.Lock()
	expected := s.expectedState
	s.mu.Unlock()

	if state := q.Get("state"); expected == "" || state != expected {
		s.fail(ErrStateMismatch)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, resultHTML("Sign-in failed", "Invalid state parameter."))
		return
	}

	code := q.Get("code")
	if code == "" {
		s.fail(errors.New("no authorization code received"))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprint(w, resultHTML("Sign-in failed", "No code received."))
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}
	_, _ = fmt.Fprint(w, resultHTML("Signed in", "You can close this window and return to confadmin."))
}

func (s *CallbackServer) fail(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// WaitForCode blocks until a code arrives, the callback fails or ctx ends.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("timeout waiting for authorization callback: %w", ctx.Err())
	}
}

// Stop shuts down the callback server.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	return s.port
}

// RedirectURI returns the URI to register as the OIDC redirect.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d%s", s.port, s.path)
}

func resultHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>confadmin</title>
    <style>
        body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: #FAFAFA; }
        .box { text-align: center; background: white; padding: 48px 64px; border-radius: 16px; border: 1px solid #C7C8CC; }
        h1 { color: #333F50; margin: 0 0 8px 0; font-size: 24px; }
        p { color: #7B8088; margin: 0; }
    </style>
</head>
<body>
    <div class="box">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(message))
}

// OpenBrowser opens the default browser to the given URL.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
