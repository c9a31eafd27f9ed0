package dashboard

import (
	"context"
	"net/http"
)

// listenAddr is the dashboard's bind address (§4.N Dashboard: "Bound to
// 0.0.0.0:8080").
const listenAddr = "0.0.0.0:8080"

// Server serves the dashboard's websocket namespace at "/" and its
// static UI assets under "/static/".
type Server struct {
	hub    *Hub
	httpSv *http.Server
}

// NewServer wires the websocket namespace and a static file server
// rooted at staticDir.
func NewServer(hub *Hub, staticDir string) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if websocketUpgradeRequested(r) {
			ServeWs(hub, w, r)
			return
		}
		http.NotFound(w, r)
	})
	if staticDir != "" {
		mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}
	return &Server{
		hub:    hub,
		httpSv: &http.Server{Addr: listenAddr, Handler: mux},
	}
}

func websocketUpgradeRequested(r *http.Request) bool {
	return r.Header.Get("Upgrade") != "" && r.Header.Get("Connection") != ""
}

// Run starts the Hub's event loop and the HTTP listener; it blocks
// until ctx is cancelled, then shuts the listener down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return s.httpSv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
