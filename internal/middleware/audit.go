package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

// AuditResourceIDKey lets a handler name the record it created when the route
// has no id parameter.
const AuditResourceIDKey = "auditResourceID"

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Audit records an audit log after each successful request. The resource id
// is taken from AuditResourceIDKey or else the idParam route parameter;
// requests that name no resource are not recorded.
func Audit(repo auditWriter, logger *zap.Logger, action, resource, idParam string) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if c.Writer.Status() >= 400 || repo == nil {
			return
		}
		resourceID := c.GetString(AuditResourceIDKey)
		if resourceID == "" && idParam != "" {
			resourceID = c.Param(idParam)
		}
		if resourceID == "" {
			return
		}

		entry := &models.AuditLog{
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			Status:     c.Writer.Status(),
			LatencyMs:  time.Since(start).Milliseconds(),
			IPAddress:  c.ClientIP(),
			CreatedAt:  start,
		}
		if claims := CurrentUser(c); claims != nil {
			entry.Actor = claims.Email
			entry.Role = string(claims.Role)
		}

		if err := repo.CreateAuditLog(c.Request.Context(), entry); err != nil {
			logger.Warn("failed to write audit log",
				zap.String("action", action),
				zap.String("resource_id", entry.ResourceID),
				zap.Error(err),
			)
		}
	}
}
