package services

import (
	"fmt"
	"log"

	"github.com/localnerve/jam-build-formsdb/internal/config"
	"github.com/localnerve/jam-build-formsdb/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Authorizer   string            `json:"authorizer"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// Healthy reports whether every dependency answered.
func (r HealthCheckResult) Healthy() bool {
	return r.Status == "healthy"
}

func (r *HealthCheckResult) fail(component, message string, err error) {
	r.Status = "unhealthy"
	r.Details[component+"_error"] = err.Error()
	if r.ErrorMessage != "" {
		r.ErrorMessage += "; "
	}
	r.ErrorMessage += fmt.Sprintf("%s: %v", message, err)
	log.Printf("Health check failed - %s: %v", message, err)
}

// HealthCheck pings the database pools and the Authorizer.
func HealthCheck(cfg *config.Config, pools ...*gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:   "healthy",
		Database: "ok",
		Details:  make(map[string]string),
	}

	for i, db := range pools {
		sqlDB, err := db.DB()
		if err != nil {
			result.Database = "error"
			result.fail(fmt.Sprintf("database_%d", i), "Database connection error", err)
			continue
		}
		if err := sqlDB.Ping(); err != nil {
			result.Database = "unreachable"
			result.fail(fmt.Sprintf("database_%d", i), "Database ping failed", err)
		}
	}
	if result.Database == "ok" {
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBAppDatabase
	}

	if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
		result.Authorizer = "unreachable"
		result.fail("authorizer", "Authorizer ping failed", err)
	} else {
		result.Authorizer = "ok"
		result.Details["authorizer_url"] = cfg.AuthzURL
	}

	if result.Healthy() {
		log.Println("Health check passed - all systems operational")
	}

	return result
}
