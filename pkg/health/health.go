package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("health", fx.Provide(ProvideHealth))

type Dependency struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Health struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Deps    []Dependency `json:"deps,omitempty"`
}

type HealthService interface {
	Liveness(c *gin.Context)
	Readiness(c *gin.Context)
}

type health struct {
	db *gorm.DB
}

type HealthParams struct {
	fx.In
	DB *gorm.DB `optional:"true"`
}

func ProvideHealth(p HealthParams) HealthService {
	return &health{db: p.DB}
}

func (h *health) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, &Health{Status: "healthy", Message: "OK"})
}

func (h *health) Readiness(c *gin.Context) {
	this := &Health{Status: "healthy", Message: "OK"}
	status := http.StatusOK

	if h.db != nil {
		dep := Dependency{Name: h.db.Name(), Status: "healthy", Message: "OK"}

		sql, err := h.db.DB()
		if err == nil {
			err = sql.PingContext(c.Request.Context())
		}
		if err != nil {
			dep.Status = "unhealthy"
			dep.Message = err.Error()
			this.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}

		this.Deps = append(this.Deps, dep)
	}

	c.JSON(status, this)
}
