package preview

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Server serves the output tree as plain static files. It serves whatever is
// on disk, so a request racing a rebuild may see the previous version of a
// file; atomic writes keep it from seeing a half-written one.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// Handler returns the file serving handler for dir.
func Handler(dir string) http.Handler {
	return instrument(slog.Default(), ferrors.NewHTTPErrorAdapter(nil), noCache(http.FileServer(http.Dir(dir))))
}

// bindHost keeps the dev server off external interfaces.
const bindHost = "localhost"

// Listen binds the server to port on the loopback interface. Port 0 picks a free port.
func Listen(dir string, port int) (*Server, error) {
	addr := net.JoinHostPort(bindHost, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, ferrors.WatchError("failed to bind dev server").
			WithCause(err).
			WithContext("addr", addr).
			Hint("another process holds the port; pick a free one with --port").
			Build()
	}
	return &Server{
		srv: &http.Server{
			Handler:           Handler(dir),
			ReadHeaderTimeout: 10 * time.Second,
		},
		ln: ln,
	}, nil
}

// Addr is the bound address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Serve blocks until the server is shut down.
func (s *Server) Serve() error {
	slog.Info("Dev server listening", logfields.URL("http://"+s.displayAddr()))
	if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return ferrors.WatchError("dev server stopped").WithCause(err).Build()
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	// the listener is only tracked by srv once Serve runs
	_ = s.ln.Close()
	return err
}

func (s *Server) displayAddr() string {
	tcp, ok := s.ln.Addr().(*net.TCPAddr)
	if !ok {
		return s.ln.Addr().String()
	}
	return net.JoinHostPort(bindHost, strconv.Itoa(tcp.Port))
}
