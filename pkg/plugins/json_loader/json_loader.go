package json_loader

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"

	"github.com/lufcmattylad/Load-JSON-Object/pkg/infra/prometheus"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/injection"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/pluginiface"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/types"
)

const PluginName = "json_loader"

// JSONLoaderPlugin injects a script fragment into rendered HTML pages that
// loads a JSON object into a dotted global variable path. Several instances
// on one page compose: each fragment shallow-merges its payload into the
// target path instead of replacing it.
type JSONLoaderPlugin struct {
	logger *logrus.Logger
	engine *injection.Engine
}

type Config struct {
	Source          string `mapstructure:"source"`
	Query           string `mapstructure:"query"`
	JSONQuery       string `mapstructure:"json_query"`
	ProceduralBlock string `mapstructure:"procedural_block"`
	StaticText      string `mapstructure:"static_text"`
	TargetPath      string `mapstructure:"target_path"`
}

func NewJSONLoaderPlugin(
	logger *logrus.Logger,
	engine *injection.Engine,
) pluginiface.Plugin {
	return &JSONLoaderPlugin{
		logger: logger,
		engine: engine,
	}
}

func (p *JSONLoaderPlugin) Name() string {
	return PluginName
}

func (p *JSONLoaderPlugin) RequiredPlugins() []string {
	var requiredPlugins []string
	return requiredPlugins
}

func (p *JSONLoaderPlugin) Stages() []types.Stage {
	return []types.Stage{types.PostResponse}
}

func (p *JSONLoaderPlugin) AllowedStages() []types.Stage {
	return []types.Stage{types.PostResponse}
}

func (p *JSONLoaderPlugin) ValidateConfig(config types.PluginConfig) error {
	var cfg Config
	if err := mapstructure.Decode(config.Settings, &cfg); err != nil {
		return fmt.Errorf("failed to decode config: %v", err)
	}

	req := toRequest(cfg)
	if err := req.Validate(); err != nil {
		return err
	}

	// static text never changes after design time, so a syntax error in it
	// is caught here instead of on every render
	if req.Source == injection.SourceStaticJSON {
		if err := fastjson.Validate(req.StaticText); err != nil {
			return fmt.Errorf("static_text is not valid JSON: %v", err)
		}
	}
	return nil
}

func (p *JSONLoaderPlugin) Execute(
	ctx context.Context,
	cfg types.PluginConfig,
	req *types.RequestContext,
	resp *types.ResponseContext,
) (*types.PluginResponse, error) {
	var conf Config
	if err := mapstructure.Decode(cfg.Settings, &conf); err != nil {
		p.logger.WithError(err).Error("failed to decode config")
		return nil, &types.PluginError{
			StatusCode: http.StatusInternalServerError,
			Message:    "failed to decode config",
			Err:        err,
		}
	}

	if !isHTMLResponse(resp) {
		return &types.PluginResponse{
			StatusCode: resp.StatusCode,
			Message:    "json_loader: non-HTML response, skipping",
		}, nil
	}

	request := toRequest(conf)
	pageID := resp.PageID
	start := time.Now()

	var fragment bytes.Buffer
	if err := p.engine.Inject(ctx, &fragment, request); err != nil {
		prometheus.InjectionTotal.WithLabelValues(pageID, string(request.Source), "error").Inc()
		p.logger.WithError(err).WithFields(logrus.Fields{
			"page_id":     pageID,
			"target_path": request.TargetPath,
		}).Error("injection failed")
		return nil, &types.PluginError{
			StatusCode: http.StatusInternalServerError,
			Message:    "json_loader: injection failed",
			Err:        err,
		}
	}

	resp.Body = spliceFragment(resp.Body, fragment.Bytes())

	elapsed := float64(time.Since(start).Milliseconds())
	prometheus.InjectionTotal.WithLabelValues(pageID, string(request.Source), "success").Inc()
	prometheus.InjectionLatency.WithLabelValues(pageID, string(request.Source)).Observe(elapsed)
	prometheus.InjectionPayloadBytes.WithLabelValues(pageID, string(request.Source)).Observe(float64(fragment.Len()))

	return &types.PluginResponse{
		StatusCode: resp.StatusCode,
		Message:    "json_loader: fragment injected",
		Body:       resp.Body,
	}, nil
}

func toRequest(cfg Config) *injection.Request {
	return &injection.Request{
		Source:          injection.Source(cfg.Source),
		Query:           cfg.Query,
		JSONQuery:       cfg.JSONQuery,
		ProceduralBlock: cfg.ProceduralBlock,
		StaticText:      cfg.StaticText,
		TargetPath:      cfg.TargetPath,
	}
}

func isHTMLResponse(resp *types.ResponseContext) bool {
	for _, value := range resp.Headers["Content-Type"] {
		if strings.Contains(strings.ToLower(value), "text/html") {
			return true
		}
	}
	return false
}

// spliceFragment inserts the fragment before the closing body tag so the
// object exists before any deferred page script runs; documents without a
// body tag get the fragment appended.
func spliceFragment(body, fragment []byte) []byte {
	idx := bytes.LastIndex(body, []byte("</body>"))
	if idx < 0 {
		return append(body, fragment...)
	}
	spliced := make([]byte, 0, len(body)+len(fragment))
	spliced = append(spliced, body[:idx]...)
	spliced = append(spliced, fragment...)
	spliced = append(spliced, body[idx:]...)
	return spliced
}
