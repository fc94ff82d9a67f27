package plugins

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lufcmattylad/Load-JSON-Object/pkg/pluginiface"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/types"
)

// Manager registers plugins and executes a page's configured chain at a
// render stage. Execution is strictly sequential in priority order:
// injection fragments must land in the page in a deterministic order, or
// the merge semantics on a shared target path stop being reproducible.
type Manager interface {
	ValidatePlugin(name string, config types.PluginConfig) error
	RegisterPlugin(plugin pluginiface.Plugin) error
	GetPlugin(name string) pluginiface.Plugin
	SetPluginChain(pageID string, chain []types.PluginConfig) error
	ClearPluginChain(pageID string)
	ExecuteStage(
		ctx context.Context,
		stage types.Stage,
		pageID string,
		req *types.RequestContext,
		resp *types.ResponseContext,
	) (*types.ResponseContext, error)
}

type manager struct {
	mu             sync.RWMutex
	logger         *logrus.Logger
	plugins        map[string]pluginiface.Plugin
	configurations map[string][]types.PluginConfig
}

func NewManager(logger *logrus.Logger) Manager {
	return &manager{
		logger:         logger,
		plugins:        make(map[string]pluginiface.Plugin),
		configurations: make(map[string][]types.PluginConfig),
	}
}

func (m *manager) RegisterPlugin(plugin pluginiface.Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := plugin.Name()
	if _, exists := m.plugins[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}
	m.plugins[name] = plugin
	return nil
}

func (m *manager) GetPlugin(name string) pluginiface.Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.plugins[name]
}

func (m *manager) ValidatePlugin(name string, config types.PluginConfig) error {
	m.mu.RLock()
	plugin, exists := m.plugins[name]
	m.mu.RUnlock()
	if !exists {
		return fmt.Errorf("unknown plugin %q", name)
	}

	if config.Stage != "" {
		allowed := false
		for _, stage := range plugin.AllowedStages() {
			if stage == config.Stage {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("plugin %q does not support stage %q", name, config.Stage)
		}
	}

	return plugin.ValidateConfig(config)
}

func (m *manager) SetPluginChain(pageID string, chain []types.PluginConfig) error {
	for _, cfg := range chain {
		if err := m.ValidatePlugin(cfg.Name, cfg); err != nil {
			return fmt.Errorf("invalid chain for page %q: %w", pageID, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.configurations[pageID] = chain
	return nil
}

func (m *manager) ClearPluginChain(pageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.configurations, pageID)
}

func (m *manager) ExecuteStage(
	ctx context.Context,
	stage types.Stage,
	pageID string,
	req *types.RequestContext,
	resp *types.ResponseContext,
) (*types.ResponseContext, error) {
	m.mu.RLock()
	chain := m.configurations[pageID]
	plugins := m.plugins
	m.mu.RUnlock()

	req.Stage = stage

	sortedConfigs := make([]types.PluginConfig, 0, len(chain))
	for _, cfg := range chain {
		if cfg.Enabled && m.runsAtStage(plugins[cfg.Name], cfg, stage) {
			sortedConfigs = append(sortedConfigs, cfg)
		}
	}
	sort.SliceStable(sortedConfigs, func(i, j int) bool {
		return sortedConfigs[i].Priority < sortedConfigs[j].Priority
	})

	for _, cfg := range sortedConfigs {
		plugin, exists := plugins[cfg.Name]
		if !exists {
			m.logger.WithField("plugin", cfg.Name).Warn("configured plugin is not registered")
			continue
		}

		pluginResp, err := plugin.Execute(ctx, cfg, req, resp)
		if err != nil {
			return resp, err
		}
		if pluginResp != nil {
			resp.StatusCode = pluginResp.StatusCode
			if pluginResp.Body != nil {
				resp.Body = pluginResp.Body
			}
			for k, v := range pluginResp.Headers {
				resp.Headers[k] = v
			}
			for k, v := range pluginResp.Metadata {
				if resp.Metadata == nil {
					resp.Metadata = make(map[string]interface{})
				}
				resp.Metadata[k] = v
			}
		}
		if resp.StopProcessing {
			break
		}
	}

	return resp, nil
}

// runsAtStage resolves the effective stage of a plugin instance: fixed
// stages from the plugin win over the configured stage.
func (m *manager) runsAtStage(plugin pluginiface.Plugin, cfg types.PluginConfig, stage types.Stage) bool {
	if plugin != nil {
		if fixed := plugin.Stages(); len(fixed) > 0 {
			for _, s := range fixed {
				if s == stage {
					return true
				}
			}
			return false
		}
	}
	return cfg.Stage == stage
}
