package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// subjectKey is the key used to store the authenticated caller (the JWT subject).
const subjectKey = contextKey("subject")

// GetSubjectFromContext retrieves the authenticated caller from the Gin context.
// It returns the subject and a boolean indicating if it was found.
func GetSubjectFromContext(c *gin.Context) (string, bool) {
	if c.Request != nil {
		if subject, ok := GetSubjectFromCtx(c.Request.Context()); ok {
			return subject, true
		}
	}
	subjectVal, exists := c.Get(string(subjectKey))
	if !exists {
		return "", false
	}
	subject, ok := subjectVal.(string)
	return subject, ok
}

// GetSubjectFromCtx retrieves the authenticated caller from a standard context.
func GetSubjectFromCtx(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok && subject != ""
}
