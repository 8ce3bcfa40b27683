// Command memory-match starts the Memory Match Game server.
//
// It supports three modes:
//  1. "server" (default) runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "tui" plays a single game in the terminal
//
// Flags control host/port, game rules, logging, version output,
// and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/memory-match/api"
	"github.com/wricardo/memory-match/game/config"
	"github.com/wricardo/memory-match/game/engine"
	"github.com/wricardo/memory-match/game/service"
	"github.com/wricardo/memory-match/game/session"
	"github.com/wricardo/memory-match/transport/mcp"
	"github.com/wricardo/memory-match/transport/tui"
	"github.com/wricardo/memory-match/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Memory Match Game Server"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("error loading .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("exiting")
	}
}

// newCommand builds the command tree; every flag is shared by all modes
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "memory-match",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "JSON configuration file", Sources: cli.EnvVars("CONFIG_FILE")},
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "Log level (debug, info, warn, error)", Sources: cli.EnvVars("LOG_LEVEL")},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging with console output", Sources: cli.EnvVars("DEBUG")},
			&cli.StringFlag{Name: "difficulty", Value: "medium", Usage: "Default difficulty (easy, medium, hard)", Sources: cli.EnvVars("DIFFICULTY")},
			&cli.DurationFlag{Name: "mismatch-delay", Value: time.Second, Usage: "How long a mismatched pair stays visible"},
			&cli.DurationFlag{Name: "tick-interval", Value: time.Second, Usage: "Game clock resolution"},
			&cli.Uint64Flag{Name: "seed", Usage: "Shuffle seed (0 picks a random one)", Sources: cli.EnvVars("SEED")},
			&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, Usage: "Expire sessions idle for longer than this"},
			&cli.DurationFlag{Name: "cleanup-interval", Value: 10 * time.Minute, Usage: "How often idle sessions are expired"},
			&cli.StringFlag{Name: "static-dir", Value: "static", Usage: "Directory served at /", Sources: cli.EnvVars("STATIC_DIR")},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: runServer,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  runServer,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  runStdioMCP,
			},
			{
				Name:   "tui",
				Usage:  "Play in the terminal",
				Action: runTUI,
			},
		},
	}
}

// loadConfig starts from the config file (or defaults) and applies explicitly set flags
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	override := func(name string, apply func()) {
		if cmd.IsSet(name) || cmd.String("config") == "" {
			apply()
		}
	}
	override("host", func() { cfg.Host = cmd.String("host") })
	override("port", func() { cfg.Port = cmd.Int("port") })
	override("log-level", func() { cfg.LogLevel = cmd.String("log-level") })
	override("debug", func() { cfg.Debug = cmd.Bool("debug") })
	override("difficulty", func() { cfg.Difficulty = engine.Difficulty(cmd.String("difficulty")) })
	override("mismatch-delay", func() { cfg.MismatchDelay = cmd.Duration("mismatch-delay") })
	override("tick-interval", func() { cfg.TickInterval = cmd.Duration("tick-interval") })
	override("seed", func() { cfg.Seed = cmd.Uint64("seed") })
	override("session-ttl", func() { cfg.SessionTTL = cmd.Duration("session-ttl") })
	override("cleanup-interval", func() { cfg.CleanupInterval = cmd.Duration("cleanup-interval") })
	override("static-dir", func() { cfg.StaticDir = cmd.String("static-dir") })
	override("ngrok", func() { cfg.Ngrok.Enabled = cmd.Bool("ngrok") })
	override("ngrok-auth", func() { cfg.Ngrok.AuthToken = cmd.String("ngrok-auth") })
	override("ngrok-domain", func() { cfg.Ngrok.Domain = cmd.String("ngrok-domain") })

	if cfg.Ngrok.Enabled && cfg.Ngrok.AuthToken == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN); tunnel disabled")
		cfg.Ngrok.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging configures the global zerolog logger
func setupLogging(cfg *config.Config, out io.Writer) {
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).With().Caller().Logger()
		return
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// services bundles everything a mode needs to serve games
type services struct {
	hub      *websocket.Hub
	sessions *session.Manager
	game     service.GameService
	api      *api.Server
}

// initializeServices wires the hub, session manager, game service and API server,
// and starts the background session cleanup.
func initializeServices(ctx context.Context, cfg *config.Config) *services {
	hub := websocket.NewHub()
	go hub.Run()

	sessions := session.NewManager(cfg.GameConfig(), hub.Renderer)
	sessions.StartCleanup(ctx, cfg.CleanupInterval, cfg.SessionTTL)

	gameService := service.NewGameService(sessions)

	return &services{
		hub:      hub,
		sessions: sessions,
		game:     gameService,
		api:      api.NewServer(gameService, hub, cfg.StaticDir),
	}
}

// newMainRouter mounts the API at / and the MCP JSON-RPC endpoint at /mcp
func newMainRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled it also provisions a public tunnel.
func runServer(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg, os.Stderr)

	log.Info().Str("version", Version).Str("mode", "server").Msg("starting " + AppName)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	svc := initializeServices(ctx, cfg)
	defer svc.sessions.CloseAll()

	addr := cfg.Addr()
	mcpClient := mcp.NewClient("http://" + addr)
	mainRouter := newMainRouter(svc.api, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().
			Str("addr", addr).
			Str("api", "http://"+addr+"/api").
			Str("websocket", "ws://"+addr+"/ws?session=<session_id>").
			Str("mcp", "http://"+addr+"/mcp").
			Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
			cancel()
		}
	}()

	if cfg.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveNgrok(ctx, cfg.Ngrok, mainRouter)
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("server stopped")

	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}

// serveNgrok exposes handler through an ngrok tunnel until ctx is cancelled
func serveNgrok(ctx context.Context, cfg config.NgrokConfig, handler http.Handler) {
	log.Info().Msg("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if cfg.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.Domain))
		log.Info().Str("domain", cfg.Domain).Msg("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.AuthToken))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	url := tun.URL()
	log.Info().
		Str("url", url).
		Str("api", url+"/api").
		Str("websocket", url+"/ws?session=<session_id>").
		Str("mcp", url+"/mcp").
		Msg("ngrok tunnel established")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server.
// It reuses an external API at the configured address when one answers; otherwise it
// starts an internal HTTP API bound to a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stdout carries the MCP protocol
	setupLogging(cfg, os.Stderr)

	baseURL := "http://" + cfg.Addr()
	if !apiAvailable(ctx, baseURL) {
		log.Info().Msg("no external API server found, starting internal HTTP server")

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		svc := initializeServices(ctx, cfg)
		defer svc.sessions.CloseAll()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		httpServer := &http.Server{Handler: svc.api}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
	}

	log.Info().Str("api", baseURL).Msg("MCP stdio server ready")

	mcpClient := mcp.NewClient(baseURL)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiAvailable reports whether a game API answers its health check at baseURL
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	log.Info().Str("api", baseURL).Msg("external API server found, using it for MCP")
	return true
}

// runTUI plays one game in the terminal
func runTUI(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// the terminal belongs to the UI
	setupLogging(cfg, io.Discard)

	app, err := tui.NewApp(cfg.GameConfig())
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
