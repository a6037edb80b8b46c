// Command domedit runs the in-page editing service: it attaches an
// editor session to a live Chrome tab, exposes the command API over
// HTTP, and serves MCP tools for editing, layouts and extraction
// strategies.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/domedit/browser"
	"github.com/hazyhaar/domedit/config"
	"github.com/hazyhaar/domedit/connectivity"
	"github.com/hazyhaar/domedit/editor"
	"github.com/hazyhaar/domedit/layout"
	"github.com/hazyhaar/domedit/observability"
	"github.com/hazyhaar/domedit/strategy"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		pageURL    = flag.String("url", "", "page to open and attach the editor to")
		logLevel   = flag.String("log-level", "info", "debug | info | warn | error")
		mcpStdio   = flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP logging")
	)
	flag.Parse()

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Stores.
	layouts, err := layout.Open(cfg.Storage.LayoutDB, logger)
	if err != nil {
		return fmt.Errorf("layout store: %w", err)
	}
	defer layouts.Close()

	audit, err := observability.Open(cfg.Storage.AuditDB, observability.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("audit store: %w", err)
	}
	defer audit.Close()

	// Browser.
	mode := browser.ModeHeadless
	if cfg.Browser.Stealth == "headful" {
		mode = browser.ModeHeadful
	}
	mgr := browser.NewManager(browser.Config{
		RemoteURL:        cfg.Browser.Remote,
		Mode:             mode,
		ResourceBlocking: cfg.Browser.ResourceBlocking,
		Logger:           logger,
	})
	if _, err := mgr.Start(ctx); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	defer mgr.Close()

	router := connectivity.New(connectivity.WithLogger(logger))
	defer router.Close()

	// Strategy planner is optional; without a key only strategy_run works.
	var planner *strategy.Planner
	if os.Getenv("OPENAI_API_KEY") != "" {
		planner = strategy.NewPlanner("",
			strategy.WithModel(cfg.LLM.Model),
			strategy.WithBaseURL(cfg.LLM.BaseURL),
			strategy.WithPlannerLogger(logger))
	} else {
		logger.Warn("OPENAI_API_KEY not set, strategy planning disabled")
	}
	strategies := strategy.NewService(mgr, planner, logger)

	// Editor session, attached when a page URL is given.
	var ed *editor.Editor
	if *pageURL != "" {
		tab, err := browser.OpenTab(ctx, mgr, *pageURL, "edit")
		if err != nil {
			return fmt.Errorf("open %s: %w", *pageURL, err)
		}
		defer tab.Close()

		sinks := buildSinks(cfg.Editor.Sinks)
		sinks = append(sinks, observability.NewAuditSink(audit, *pageURL))

		ed = editor.New(editor.Config{
			Document: editor.NewRodDocument(tab.Page),
			Chrome:   editor.NewChromeInjector(tab.Page, logger),
			Sink:     editor.NewSinkRouter(logger, sinks...),
			Store:    layouts,
			Theme:    cfg.Editor.Theme,
			Logger:   logger,
		})
		ed.RegisterRoutes(router)
		logger.Info("editor attached", "url", *pageURL)
	}

	if *mcpStdio {
		return serveMCP(ctx, ed, layouts, strategies)
	}
	return serveHTTP(ctx, cfg.HTTP.Addr, router, ed, layouts, strategies, audit, logger)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildSinks(configs []config.SinkConfig) []editor.Sink {
	var sinks []editor.Sink
	for _, sc := range configs {
		switch sc.Type {
		case "stdout":
			sinks = append(sinks, editor.NewStdoutSink())
		case "webhook":
			sinks = append(sinks, editor.NewWebhookSink(sc.URL))
		}
	}
	return sinks
}

func serveMCP(ctx context.Context, ed *editor.Editor, layouts *layout.Service, strategies *strategy.Service) error {
	srv := mcp.NewServer(&mcp.Implementation{Name: "domedit", Version: "1.0.0"}, nil)
	if ed != nil {
		ed.RegisterMCP(srv)
	}
	layouts.RegisterMCP(srv)
	strategies.RegisterMCP(srv)

	slog.Info("MCP serving on stdio")
	return srv.Run(ctx, &mcp.StdioTransport{})
}

func serveHTTP(ctx context.Context, addr string, router *connectivity.Router, ed *editor.Editor, layouts *layout.Service, strategies *strategy.Service, audit *observability.EventLogger, logger *slog.Logger) error {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Editor command channel. The body is a Command envelope; the
	// response is always a Result, failures included.
	r.Post("/api/command", func(w http.ResponseWriter, req *http.Request) {
		if ed == nil {
			writeJSON(w, 503, map[string]string{"error": "no editor session (start with -url)"})
			return
		}
		var payload json.RawMessage
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, 400, err)
			return
		}
		out, err := router.Call(req.Context(), "editor", payload)
		if err != nil {
			writeError(w, 400, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(200)
		w.Write(out)
	})

	r.Route("/api/layouts", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
			list, err := layouts.List(req.Context(), req.URL.Query().Get("domain"), limit)
			if err != nil {
				writeError(w, 500, err)
				return
			}
			writeJSON(w, 200, list)
		})
		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			snap, err := layouts.Get(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeError(w, statusFor(err), err)
				return
			}
			writeJSON(w, 200, snap)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			if err := layouts.Delete(req.Context(), chi.URLParam(req, "id")); err != nil {
				writeError(w, statusFor(err), err)
				return
			}
			writeJSON(w, 200, map[string]string{"deleted": chi.URLParam(req, "id")})
		})
	})

	r.Post("/api/strategy/plan", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			URL  string `json:"url"`
			Goal string `json:"goal"`
		}
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			writeError(w, 400, err)
			return
		}
		plan, err := strategies.Plan(req.Context(), in.URL, in.Goal)
		audit.RecordOp(observability.SourceStrategy, "plan", in.URL, "", plan, err)
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, plan)
	})

	r.Post("/api/strategy/run", func(w http.ResponseWriter, req *http.Request) {
		var in struct {
			URL      string            `json:"url"`
			Strategy strategy.Strategy `json:"strategy"`
		}
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			writeError(w, 400, err)
			return
		}
		views, err := strategies.Run(req.Context(), in.URL, in.Strategy)
		audit.RecordOp(observability.SourceStrategy, "run", in.URL, "", map[string]int{"views": len(views)}, err)
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, views)
	})

	r.Get("/api/audit", func(w http.ResponseWriter, req *http.Request) {
		limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
		events, err := audit.Query(req.Context(), observability.Filter{
			Source: req.URL.Query().Get("source"),
			Kind:   req.URL.Query().Get("kind"),
			Limit:  limit,
		})
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, events)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("server stopped")
	return nil
}

func statusFor(err error) int {
	if errors.Is(err, layout.ErrNotFound) {
		return 404
	}
	return 500
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
