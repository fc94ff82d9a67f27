package types

import (
	"context"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestContext represents the context for a page request
type RequestContext struct {
	C         *fiber.Ctx
	Context   context.Context
	PageID    string
	Headers   map[string][]string
	Method    string
	Path      string
	Query     url.Values
	Metadata  map[string]interface{}
	Stage     Stage
	ProcessAt *time.Time
	IP        string
}

// ResponseContext represents the context for a rendered page response
type ResponseContext struct {
	Context        context.Context
	PageID         string
	Headers        map[string][]string
	Body           []byte
	StatusCode     int
	Metadata       map[string]interface{}
	StopProcessing bool
	ProcessAt      *time.Time
}
