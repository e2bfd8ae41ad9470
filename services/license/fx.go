package license

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("license.module",
	fx.Provide(
		NewStore,
		NewCommandService,
		NewQueryService,
		NewHandler,
	),
	fx.Invoke(
		migrate,
		registerRoutes,
	),
)

// migrate creates the license table and its unique indexes; the indexes are
// the authoritative backstop for business-key uniqueness.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&License{})
}

func registerRoutes(r *gin.Engine, h *Handler) {
	h.Register(r)
}
