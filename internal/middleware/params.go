package middleware

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/GabyPng/Happ/internal/errors"
)

const paramKeyPrefix = "param:"

// RequireIDParams parses the named path parameters as positive integers.
// Handlers read them back with GetIDParam.
func RequireIDParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			id, err := strconv.ParseUint(c.Param(name), 10, 64)
			if err != nil || id == 0 {
				apierrors.BadRequest(c, fmt.Sprintf("Invalid %s", name))
				return
			}
			c.Set(paramKeyPrefix+name, id)
		}
		c.Next()
	}
}

// GetIDParam returns a path parameter parsed by RequireIDParams.
func GetIDParam(c *gin.Context, name string) uint64 {
	return c.GetUint64(paramKeyPrefix + name)
}
