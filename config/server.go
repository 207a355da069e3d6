package config

import "fmt"

// ServerConfig configures the WebSocket bridge exposed by the serve command
type ServerConfig struct {
	Addr string `hcl:"addr,optional"` // listen address (default ":8420")
	// AuthToken, when set, is required as a Bearer token on upgrade requests
	AuthToken string `hcl:"auth_token,optional"`
}

func (s *ServerConfig) Defaults() {
	if s.Addr == "" {
		s.Addr = ":8420"
	}
}

func (s *ServerConfig) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("server: addr cannot be empty")
	}
	return nil
}
