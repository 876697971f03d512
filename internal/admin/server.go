package admin

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Bridge exposes the admin command surface over a websocket mounted
// on an echo route: loopback connections are trusted, anything else
// must present the operator's password before its first command runs.
type Bridge struct {
	srv    Server
	pwHash []byte // bcrypt hash from RTYPE_ADMIN_PWHASH; empty refuses every non-loopback connection
	log    *zap.SugaredLogger

	upgrader websocket.Upgrader
}

// NewBridge builds a Bridge. pwHash may be empty, in which case only
// loopback connections are ever accepted (see Bridge.authorize).
func NewBridge(srv Server, pwHash string, log *zap.SugaredLogger) *Bridge {
	return &Bridge{
		srv: srv, pwHash: []byte(pwHash), log: log,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}
}

// frame is the wire shape of one websocket exchange: the client sends a
// raw command line (optionally preceded by its password on the very
// first frame of a non-loopback connection), the server replies with a
// Result.
type frame struct {
	Password string `json:"password,omitempty"`
	Command  string `json:"command"`
}

// Register mounts the bridge's route on an echo instance.
func (b *Bridge) Register(e *echo.Echo) {
	e.GET("/admin/ws", b.handleWS)
}

func (b *Bridge) handleWS(c echo.Context) error {
	if !b.isLoopback(c.Request()) && len(b.pwHash) == 0 {
		return echo.NewHTTPError(http.StatusForbidden, "admin console requires RTYPE_ADMIN_PWHASH for non-loopback access")
	}

	conn, err := b.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	authenticated := b.isLoopback(c.Request())
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return nil
		}

		if !authenticated {
			if len(b.pwHash) == 0 || bcrypt.CompareHashAndPassword(b.pwHash, []byte(f.Password)) != nil {
				b.writeResult(conn, Result{Success: false, Message: "unauthorized"})
				return nil
			}
			authenticated = true
		}

		if err := b.writeResult(conn, Run(b.srv, Parse(f.Command))); err != nil {
			return nil
		}
	}
}

func (b *Bridge) isLoopback(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// HashPassword is a small helper for operators setting RTYPE_ADMIN_PWHASH:
// it bcrypt-hashes a plaintext password at the default cost.
func HashPassword(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(plaintext)), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// writeResult sends one Result frame, encoded via marshalResult so the
// wire format has exactly one definition.
func (b *Bridge) writeResult(conn *websocket.Conn, r Result) error {
	return conn.WriteMessage(websocket.TextMessage, []byte(marshalResult(r)))
}

// marshalResult is the bridge's single wire encoding of a Result.
func marshalResult(r Result) string {
	b, err := json.Marshal(r)
	if err != nil {
		return r.Message
	}
	return string(b)
}
