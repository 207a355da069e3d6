package config

import "fmt"

// Memory configures a long-term memory an agent can store to and recall from
type Memory struct {
	Name string `hcl:"name,label"`
	// Backend is "store" (local, persisted via the storage block) or
	// "platform" (hosted memory service over HTTP)
	Backend string `hcl:"backend,optional"`
	UserID  string `hcl:"user_id,optional"`

	// Platform backend settings
	BaseURL string `hcl:"base_url,optional"`
	APIKey  string `hcl:"api_key,optional"`
}

func (m *Memory) Defaults() {
	if m.Backend == "" {
		m.Backend = "store"
	}
	if m.UserID == "" {
		m.UserID = "default"
	}
}

func (m *Memory) Validate() error {
	switch m.Backend {
	case "", "store":
	case "platform":
		if m.BaseURL == "" {
			return fmt.Errorf("memory '%s': platform backend requires base_url", m.Name)
		}
	default:
		return fmt.Errorf("memory '%s': unknown backend '%s' (expected store or platform)", m.Name, m.Backend)
	}
	return nil
}
