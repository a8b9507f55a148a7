package sessions

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/boxfinder/pkg/boxfinder/workflow"
)

const (
	// ContextKeySessionID is the key for the session ID in gin context
	ContextKeySessionID = "session_id"
	// ContextKeyWorkflow is the key for the session workflow in gin context
	ContextKeyWorkflow = "workflow"
)

// Middleware validates session tokens and sets the workflow in context
func Middleware(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Expect "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		id, wf, err := m.Authenticate(parts[1])
		if err != nil {
			switch {
			case errors.Is(err, ErrExpiredToken):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session has expired"})
			case errors.Is(err, ErrSessionNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		c.Set(ContextKeySessionID, id)
		c.Set(ContextKeyWorkflow, wf)

		c.Next()
	}
}

// GetWorkflow returns the session workflow from the gin context
func GetWorkflow(c *gin.Context) (*workflow.Workflow, bool) {
	wf, exists := c.Get(ContextKeyWorkflow)
	if !exists {
		return nil, false
	}
	return wf.(*workflow.Workflow), true
}

// GetSessionID returns the session ID from the gin context
func GetSessionID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ContextKeySessionID)
	if !exists {
		return "", false
	}
	return id.(string), true
}
