// Command server runs the authoritative game server: the QUIC
// transport, lobby/room matchmaking, the fixed-tick session simulation,
// the persisted leaderboard, and the admin console's local and
// websocket front ends.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rtype/arcade/config"
	"github.com/rtype/arcade/internal/admin"
	"github.com/rtype/arcade/internal/dispatcher"
	"github.com/rtype/arcade/internal/leaderboard"
	"github.com/rtype/arcade/internal/lobby"
	"github.com/rtype/arcade/internal/room"
	"github.com/rtype/arcade/internal/session"
	"github.com/rtype/arcade/internal/transport"
)

func main() {
	cfg := config.DefaultServerConfig()

	configFile := flag.String("config", "", "path to a YAML config file (optional)")
	host := flag.String("host", cfg.Host, "host reported in the startup log; the game transport binds 127.0.0.1, or 0.0.0.0 with -bind-all")
	port := flag.Int("port", cfg.Port, "QUIC port for the game transport")
	adminPort := flag.Int("admin-port", cfg.AdminPort, "HTTP port for the admin websocket bridge")
	bindAll := flag.Bool("bind-all", cfg.BindAll, "bind the game transport and admin bridge to 0.0.0.0 instead of 127.0.0.1")
	dataDir := flag.String("data-dir", cfg.DataDir, "directory for the leaderboard file")
	debug := flag.Bool("debug", cfg.Debug, "verbose (development) logging")
	flag.Parse()

	// A bare positional port is accepted too: `server 4242`.
	var positionalPort int
	if arg := flag.Arg(0); arg != "" {
		p, err := strconv.Atoi(arg)
		if err != nil || p <= 0 || p > 65535 {
			fmt.Fprintf(os.Stderr, "server: invalid port %q\n", arg)
			os.Exit(1)
		}
		positionalPort = p
	}

	if err := config.LoadFile(cfg, *configFile); err != nil {
		fmt.Fprintf(os.Stderr, "server: loading config file: %v\n", err)
		os.Exit(1)
	}
	config.LoadEnv(cfg)

	// Flags win over file and env, but only when explicitly set —
	// otherwise a flag's zero-value default would stomp a file/env
	// override that already ran.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "admin-port":
			cfg.AdminPort = *adminPort
		case "bind-all":
			cfg.BindAll = *bindAll
		case "data-dir":
			cfg.DataDir = *dataDir
		case "debug":
			cfg.Debug = *debug
		}
	})
	if positionalPort != 0 {
		cfg.Port = positionalPort
	}

	log, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "server: logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Errorw("fatal", "error", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	var z *zap.Logger
	var err error
	if debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return z.Sugar(), nil
}

func run(cfg *config.ServerConfig, log *zap.SugaredLogger) error {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	board, err := leaderboard.Load(filepath.Join(cfg.DataDir, cfg.LeaderboardFile), log)
	if err != nil {
		return fmt.Errorf("loading leaderboard: %w", err)
	}

	t := transport.NewServer(log.Named("transport"))
	if err := t.StartServer(cfg.Port, cfg.BindAll); err != nil {
		return fmt.Errorf("starting transport: %w", err)
	}
	defer t.Close()

	lobbies := lobby.NewManager()
	rooms := room.NewManager()
	sessions := session.NewManager(log.Named("session"))

	d := dispatcher.New(t, lobbies, rooms, sessions, board, log.Named("dispatcher"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Infow("shutting down")
		cancel()
	}()

	adminHost := "127.0.0.1"
	if cfg.BindAll {
		adminHost = "0.0.0.0"
	}
	e := echo.New()
	e.HideBanner = true
	bridge := admin.NewBridge(dispatcherAdapter{d}, cfg.AdminPwHash, log.Named("admin"))
	bridge.Register(e)
	go func() {
		addr := fmt.Sprintf("%s:%d", adminHost, cfg.AdminPort)
		if err := e.Start(addr); err != nil {
			log.Infow("admin http server stopped", "error", err)
		}
	}()
	defer e.Close()

	go runLocalAdminConsole(ctx, dispatcherAdapter{d}, log)

	log.Infow("server started", "host", cfg.Host, "port", cfg.Port, "admin_port", cfg.AdminPort, "bind_all", cfg.BindAll)
	d.Run(ctx)
	return nil
}

// runLocalAdminConsole reads admin commands from stdin; the local
// front end never needs a password.
func runLocalAdminConsole(ctx context.Context, srv admin.Server, log *zap.SugaredLogger) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		result := admin.Run(srv, admin.Parse(scanner.Text()))
		if result.Message != "" {
			fmt.Println(result.Message)
		} else if result.Success {
			fmt.Println("ok")
		}
	}
	if err := scanner.Err(); err != nil {
		log.Debugw("admin console stdin closed", "error", err)
	}
}

// dispatcherAdapter bridges dispatcher.Dispatcher's concrete return
// types to the admin.Server interface's own PlayerView/InfoView types.
// internal/admin intentionally does not import internal/dispatcher, so
// this small value-to-value translation lives here instead of in
// either package.
type dispatcherAdapter struct {
	d *dispatcher.Dispatcher
}

func (a dispatcherAdapter) List() []admin.PlayerView {
	players := a.d.List()
	out := make([]admin.PlayerView, len(players))
	for i, p := range players {
		out[i] = admin.PlayerView{
			PlayerID: p.PlayerID, Name: p.Name, LobbyID: p.LobbyID,
			RoomID: p.RoomID, InSession: p.InSession,
		}
	}
	return out
}

func (a dispatcherAdapter) Info() admin.InfoView {
	i := a.d.Info()
	return admin.InfoView{Players: i.Players, Sessions: i.Sessions, Lobbies: i.Lobbies, Rooms: i.Rooms, Paused: i.Paused, ProtocolErrors: i.ProtocolErrors}
}

func (a dispatcherAdapter) Kick(playerID uint32, reason string) error { return a.d.Kick(playerID, reason) }
func (a dispatcherAdapter) Pause()                                    { a.d.Pause() }
func (a dispatcherAdapter) Resume()                                   { a.d.Resume() }
func (a dispatcherAdapter) ClearEnemies(sessionIDFilter string) (int, error) {
	return a.d.ClearEnemies(sessionIDFilter)
}
