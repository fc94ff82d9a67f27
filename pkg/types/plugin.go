package types

// Stage represents when a plugin should be executed
type Stage string

const (
	PreRequest   Stage = "pre_request"
	PostResponse Stage = "post_response"
)

// PluginConfig represents the configuration for a plugin
type PluginConfig struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Enabled  bool                   `json:"enabled"`
	Stage    Stage                  `json:"stage"`
	Priority int                    `json:"priority"`
	Settings map[string]interface{} `json:"settings"`
}

type PluginError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *PluginError) Error() string {
	return e.Message
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

type PluginResponse struct {
	StatusCode int
	Message    string
	Body       []byte
	Headers    map[string][]string
	Metadata   map[string]interface{}
}
