package server

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/lufcmattylad/Load-JSON-Object/pkg/config"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/infra/prometheus"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/plugins"
	"github.com/lufcmattylad/Load-JSON-Object/pkg/types"
)

type (
	PageServerDI struct {
		Config        *config.Config
		Logger        *logrus.Logger
		PluginManager plugins.Manager
	}

	// PageServer serves the configured HTML pages and runs each page's
	// plugin chain over the rendered body before it leaves the process.
	PageServer struct {
		*BaseServer
		pluginManager plugins.Manager
	}
)

func NewPageServer(di PageServerDI) *PageServer {
	s := &PageServer{
		BaseServer:    NewBaseServer(di.Config, di.Logger),
		pluginManager: di.PluginManager,
	}
	s.setupMetricsEndpoint()
	return s
}

func (s *PageServer) Run() error {
	if err := s.setupRoutes(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.WithField("addr", addr).Info("starting page server")
	return s.router.Listen(addr)
}

func (s *PageServer) Shutdown() error {
	return s.router.Shutdown()
}

func (s *PageServer) setupRoutes() error {
	s.router.Use(recover.New())
	s.setupHealthCheck()
	s.setupPluginCatalog()
	return s.registerPageRoutes()
}

// setupPluginCatalog exposes the registered plugin definitions, so page
// chain settings can be authored against the live catalog.
func (s *PageServer) setupPluginCatalog() {
	s.router.Get("/__/plugins", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(plugins.PluginList)
	})
}

func (s *PageServer) registerPageRoutes() error {
	for _, page := range s.config.Pages {
		template, err := os.ReadFile(page.Template)
		if err != nil {
			return fmt.Errorf("page %q: reading template %s: %w", page.ID, page.Template, err)
		}
		s.router.Get(page.Path, s.pageHandler(page, template))
		s.logger.WithFields(logrus.Fields{
			"page_id": page.ID,
			"path":    page.Path,
			"plugins": len(page.PluginChain),
		}).Info("registered page route")
	}
	return nil
}

func (s *PageServer) pageHandler(page config.PageConfig, template []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, resp := s.buildContexts(c, page, template)

		result, err := s.pluginManager.ExecuteStage(c.Context(), types.PostResponse, page.ID, req, resp)
		if err != nil {
			s.logger.WithError(err).WithField("page_id", page.ID).Error("plugin chain failed")
			prometheus.PageRequestTotal.WithLabelValues(page.ID, "500").Inc()
			return c.Status(fiber.StatusInternalServerError).SendString("internal server error")
		}

		prometheus.PageRequestTotal.WithLabelValues(page.ID, strconv.Itoa(result.StatusCode)).Inc()

		for k, values := range result.Headers {
			for _, v := range values {
				c.Set(k, v)
			}
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Status(result.StatusCode).Send(result.Body)
	}
}

func (s *PageServer) buildContexts(
	c *fiber.Ctx,
	page config.PageConfig,
	template []byte,
) (*types.RequestContext, *types.ResponseContext) {
	now := time.Now()

	headers := make(map[string][]string)
	c.Request().Header.VisitAll(func(key, value []byte) {
		k := string(key)
		headers[k] = append(headers[k], string(value))
	})

	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		query = url.Values{}
	}

	req := &types.RequestContext{
		C:         c,
		Context:   c.Context(),
		PageID:    page.ID,
		Headers:   headers,
		Method:    c.Method(),
		Path:      c.Path(),
		Query:     query,
		Metadata:  make(map[string]interface{}),
		ProcessAt: &now,
		IP:        c.IP(),
	}

	body := make([]byte, len(template))
	copy(body, template)

	resp := &types.ResponseContext{
		Context: c.Context(),
		PageID:  page.ID,
		Headers: map[string][]string{
			fiber.HeaderContentType: {fiber.MIMETextHTMLCharsetUTF8},
		},
		Body:       body,
		StatusCode: fiber.StatusOK,
		Metadata:   make(map[string]interface{}),
		ProcessAt:  &now,
	}
	return req, resp
}
