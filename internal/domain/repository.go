package domain

// ServerRepository persists the server collection.
type ServerRepository interface {
	List() ([]ServerConfig, error)
	Get(id string) (ServerConfig, bool, error)
	ListEnabled() ([]ServerConfig, error)
	Add(cfg ServerConfig) error
	Update(id string, patch ServerPatch) error
	Remove(id string) error
	Toggle(id string, enabled bool) error
	Clear() error
}
