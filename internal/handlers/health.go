package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-formsdb/internal/config"
	"github.com/localnerve/jam-build-formsdb/internal/services"
	"gorm.io/gorm"
)

// HealthHandler reports the health of the database pools and the Authorizer
type HealthHandler struct {
	Config *config.Config
	Pools  []*gorm.DB
}

// Health handles GET /health
// @Summary Health check
// @Description Ping the database and the Authorizer service
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Config, h.Pools...)
	status := fiber.StatusOK
	if !result.Healthy() {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
