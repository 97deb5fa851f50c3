package api

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ErrInvalidPathParam is returned when a path parameter is missing or not a positive integer.
var ErrInvalidPathParam = errors.New("invalid path parameter")

// PathUint binds the named simple-style path parameter to a positive uint.
func PathUint(c *gin.Context, name string) (uint, error) {
	var v uint
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &v, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
	})
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidPathParam, name, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("%w %q: must be positive", ErrInvalidPathParam, name)
	}
	return v, nil
}
