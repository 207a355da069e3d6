package config

import "fmt"

// KnowledgeBase configures a managed retrieval knowledge base. Ingestion
// happens on the service side; agents only query it.
type KnowledgeBase struct {
	Name    string `hcl:"name,label"`
	ID      string `hcl:"id"`
	BaseURL string `hcl:"base_url"`
	APIKey  string `hcl:"api_key,optional"`
	// TopK is the default passage count for retrievals
	TopK int `hcl:"top_k,optional"`
}

func (k *KnowledgeBase) Defaults() {
	if k.TopK == 0 {
		k.TopK = 4
	}
}

func (k *KnowledgeBase) Validate() error {
	if k.ID == "" {
		return fmt.Errorf("knowledge_base '%s': id is required", k.Name)
	}
	if k.BaseURL == "" {
		return fmt.Errorf("knowledge_base '%s': base_url is required", k.Name)
	}
	if k.TopK < 0 {
		return fmt.Errorf("knowledge_base '%s': top_k must be positive", k.Name)
	}
	return nil
}
