package wsbridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"

	"scout/agent"
	"scout/config"
)

// Server exposes configured agents over WebSocket. Each connection is
// bound to a single agent (selected via the ?agent= query parameter) and
// carries its own conversation history for the life of the connection.
type Server struct {
	cfg      *config.Config
	srvCfg   config.ServerConfig
	logger   hclog.Logger
	upgrader websocket.Upgrader
}

func NewServer(cfg *config.Config, logger hclog.Logger) *Server {
	srvCfg := config.ServerConfig{}
	if cfg.Server != nil {
		srvCfg = *cfg.Server
	}
	srvCfg.Defaults()

	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &Server{
		cfg:    cfg,
		srvCfg: srvCfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Agents are selected explicitly and auth is token-based,
			// so cross-origin browser clients are allowed.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ListenAndServe blocks serving WebSocket upgrades on /chat until the
// listener fails.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleUpgrade)

	s.logger.Info("listening", "addr", s.srvCfg.Addr)
	return http.ListenAndServe(s.srvCfg.Addr, mux)
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	if s.srvCfg.AuthToken != "" {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token != s.srvCfg.AuthToken {
			s.logger.Warn("rejected connection", "remote", r.RemoteAddr, "reason", "bad auth token")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	agentName := r.URL.Query().Get("agent")
	if agentName == "" {
		http.Error(w, "missing agent query parameter", http.StatusBadRequest)
		return
	}
	if s.cfg.GetAgent(agentName) == nil {
		http.Error(w, fmt.Sprintf("unknown agent %q", agentName), http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	s.logger.Info("client connected", "remote", r.RemoteAddr, "agent", agentName)
	go s.handleConn(r.Context(), conn, agentName)
}

func (s *Server) handleConn(ctx context.Context, conn *websocket.Conn, agentName string) {
	defer conn.Close()

	handler := newWSChatHandler(conn, s.logger)

	ag, err := agent.New(ctx, agent.Options{
		Config:    s.cfg,
		AgentName: agentName,
	})
	if err != nil {
		s.logger.Error("failed to build agent", "agent", agentName, "error", err)
		handler.Error(err)
		return
	}
	defer ag.Close()

	handler.Welcome(ag.Name, ag.ModelName)

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("read error", "agent", agentName, "error", err)
			}
			return
		}

		switch cmd.Type {
		case CommandClose:
			handler.Goodbye()
			return
		case CommandChat:
			if strings.TrimSpace(cmd.Content) == "" {
				handler.Error(errors.New("empty chat message"))
				continue
			}
			if _, err := ag.Chat(ctx, cmd.Content, handler); err != nil {
				s.logger.Error("chat turn failed", "agent", agentName, "error", err)
				handler.Error(err)
			}
		default:
			handler.Error(fmt.Errorf("unknown command type %q", cmd.Type))
		}
	}
}
