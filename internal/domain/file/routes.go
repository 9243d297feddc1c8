package file

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the file corpus routes.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	files := r.Group("/files")
	{
		files.POST("", h.Upload)
		files.GET("", h.List)
		files.GET("/:id", h.GetByID)
		files.GET("/:id/download", h.Download)
		files.DELETE("/:id", h.Delete)
	}
}
