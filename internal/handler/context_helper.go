package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ta-proctoring-api/internal/middleware"
	"github.com/noah-isme/ta-proctoring-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.CurrentUser(c)
}

func actorFromContext(c *gin.Context) string {
	if claims := claimsFromContext(c); claims != nil {
		return claims.Email
	}
	return ""
}

// pageParams reads limit and offset. Bad values fall back to the repository
// defaults.
func pageParams(c *gin.Context) (limit, offset int) {
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		offset = v
	}
	return limit, offset
}
