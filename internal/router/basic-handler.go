package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type BasicHandler struct{}

var _ Route = &BasicHandler{}

func (r *BasicHandler) Filter() (method string, path string) {
	panic("handler did not implement Filter method")
}

func (r *BasicHandler) ToCache() CacheSetting {
	return Disabled
}

// CacheDuration of zero keeps pages for the configured page TTL.
func (r *BasicHandler) CacheDuration() time.Duration {
	return 0
}

func (r *BasicHandler) TemplatesToInject() []string {
	return []string{}
}

func (r *BasicHandler) Render(c *fiber.Ctx, supplements *Supplements, templateMap fiber.Map) (statusCode int, err error) {
	panic("handler did not implement Render method")
}
