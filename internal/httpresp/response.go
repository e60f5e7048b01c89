// Package httpresp is the success-side counterpart of httperr: the
// envelope shapes handlers answer with.
package httpresp

import "github.com/gin-gonic/gin"

// ListResponse wraps collection payloads so calendar clients get the
// count without reparsing the slice.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

func List[T any](c *gin.Context, data []T) {
	c.JSON(200, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}
