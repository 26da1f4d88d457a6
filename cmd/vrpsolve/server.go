package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vrpengine/internal/metrics"
	"vrpengine/internal/progress"
)

// upgrader mirrors the teacher's internal/api/graphql_ws.go: origin
// checking is left to whatever reverse proxy fronts this debug server,
// since it only ever runs for local operator dashboards.
var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// serveDebug exposes /metrics (Prometheus, scraped per SPEC_FULL's
// domain-stack table) and /progress (a WebSocket stream of one run's
// progress.Event values) on addr until ctx-independent process exit —
// it runs for the lifetime of the solve plus however long an operator
// dashboard stays connected, so it is started in its own goroutine and
// never joined.
func serveDebug(addr string, broker progress.EventBroker) {
	metrics.RegisterDefault()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/progress", func(w http.ResponseWriter, r *http.Request) {
		progressHandler(w, r, broker)
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	log.Printf("debug server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("debug server error: %v", err)
	}
}

func progressHandler(w http.ResponseWriter, r *http.Request, broker progress.EventBroker) {
	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		http.Error(w, "run_id required", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	ch := broker.Subscribe(runID)
	defer broker.Unsubscribe(runID, ch)

	for evt := range ch {
		if err := conn.WriteJSON(evt); err != nil {
			return
		}
	}
}
