// Package admin implements the server's administrative command
// surface: a small parser shared by a local stdin front end and
// an authenticated websocket bridge, and the effects each command has on
// a running server.
package admin

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is one parsed admin invocation.
type Command struct {
	Name string
	Args []string
}

// Result is the uniform {success, message} shape every command returns.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Parse splits a raw command line into a Command. Whitespace-only input
// parses to the empty command name, which Run treats as a
// no-op success (keeps a REPL front end simple).
func Parse(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}
	}
	return Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}
}

// Server is the subset of dispatcher.Dispatcher the admin console
// drives. Kept as an interface so tests can supply a fake without
// constructing a full transport/session stack.
type Server interface {
	List() []PlayerView
	Info() InfoView
	Kick(playerID uint32, reason string) error
	Pause()
	Resume()
	ClearEnemies(sessionIDFilter string) (int, error)
}

// PlayerView and InfoView mirror dispatcher.PlayerSummary/Info so this
// package does not import internal/dispatcher (which would create an
// import cycle once the dispatcher wires the admin bridge in).
type PlayerView struct {
	PlayerID  uint32
	Name      string
	LobbyID   uint32
	RoomID    uint32
	InSession bool
}

type InfoView struct {
	Players        int
	Sessions       int
	Lobbies        int
	Rooms          int
	Paused         bool
	ProtocolErrors uint64
}

const helpText = `commands: help, list, kick <player_id> [reason], info, pause, resume, clearenemies [session_id]`

// Run executes a parsed command against a Server and returns its result.
func Run(srv Server, cmd Command) Result {
	switch cmd.Name {
	case "":
		return Result{Success: true}
	case "help":
		return Result{Success: true, Message: helpText}
	case "list":
		return runList(srv)
	case "kick":
		return runKick(srv, cmd.Args)
	case "info":
		return runInfo(srv)
	case "pause":
		srv.Pause()
		return Result{Success: true, Message: "paused"}
	case "resume":
		srv.Resume()
		return Result{Success: true, Message: "resumed"}
	case "clearenemies":
		return runClearEnemies(srv, cmd.Args)
	default:
		return Result{Success: false, Message: fmt.Sprintf("unknown command %q; %s", cmd.Name, helpText)}
	}
}

func runList(srv Server) Result {
	players := srv.List()
	if len(players) == 0 {
		return Result{Success: true, Message: "no players connected"}
	}
	var b strings.Builder
	for _, p := range players {
		fmt.Fprintf(&b, "%d\t%s\tlobby=%d room=%d in_session=%v\n", p.PlayerID, p.Name, p.LobbyID, p.RoomID, p.InSession)
	}
	return Result{Success: true, Message: strings.TrimRight(b.String(), "\n")}
}

func runKick(srv Server, args []string) Result {
	if len(args) < 1 {
		return Result{Success: false, Message: "usage: kick <player_id> [reason]"}
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("invalid player_id %q", args[0])}
	}
	reason := "kicked by admin"
	if len(args) > 1 {
		reason = strings.Join(args[1:], " ")
	}
	if err := srv.Kick(uint32(id), reason); err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	return Result{Success: true, Message: fmt.Sprintf("kicked player %d", id)}
}

func runInfo(srv Server) Result {
	info := srv.Info()
	msg := fmt.Sprintf("players=%d sessions=%d lobbies=%d rooms=%d paused=%v protocol_errors=%d",
		info.Players, info.Sessions, info.Lobbies, info.Rooms, info.Paused, info.ProtocolErrors)
	return Result{Success: true, Message: msg}
}

func runClearEnemies(srv Server, args []string) Result {
	filter := ""
	if len(args) > 0 {
		filter = args[0]
	}
	n, err := srv.ClearEnemies(filter)
	if err != nil {
		return Result{Success: false, Message: err.Error()}
	}
	return Result{Success: true, Message: fmt.Sprintf("cleared %d enemies", n)}
}
