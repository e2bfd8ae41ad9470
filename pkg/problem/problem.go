package problem

import (
	"fmt"
	"time"

	"optimagrowth-licensing/pkg/catalog"
	"optimagrowth-licensing/pkg/config"
	"optimagrowth-licensing/pkg/errutil"

	"go.uber.org/fx"
)

var Module = fx.Module("problem", fx.Provide(NewBuilder))

// Problem is the uniform error payload returned on any failure, shaped after
// RFC 7807 with the service's own timestamp and errorCategory extensions.
// Detail holds either a free-text string or a field -> messages map.
type Problem struct {
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Status        int       `json:"status"`
	Detail        any       `json:"detail,omitempty"`
	Instance      string    `json:"instance,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	ErrorCategory string    `json:"errorCategory"`
}

// Builder constructs Problems. It is pure: no I/O, no stored state beyond the
// service identity the type URIs are derived from.
type Builder struct {
	appName string
	addr    string
	catalog *catalog.Catalog
}

func NewBuilder(cfg *config.Config, cat *catalog.Catalog) *Builder {
	return &Builder{
		appName: cfg.AppName,
		addr:    cfg.Server.Addr,
		catalog: cat,
	}
}

func (b *Builder) typeURI(code errutil.CoreStatus) string {
	return fmt.Sprintf("https://%s%s/errors/%s", b.appName, b.addr, code.HTTPStatusName())
}

// Build produces a Problem with a single free-text detail.
func (b *Builder) Build(title, detail string, code errutil.CoreStatus) Problem {
	return Problem{
		Type:          b.typeURI(code),
		Title:         title,
		Status:        code.HTTPStatus(),
		Detail:        detail,
		Timestamp:     time.Now().UTC(),
		ErrorCategory: code.Category(),
	}
}

// BuildFieldErrors produces a Problem whose detail is a per-field map of
// validation messages.
func (b *Builder) BuildFieldErrors(title string, code errutil.CoreStatus, fieldErrors map[string][]string) Problem {
	return Problem{
		Type:          b.typeURI(code),
		Title:         title,
		Status:        code.HTTPStatus(),
		Detail:        fieldErrors,
		Timestamp:     time.Now().UTC(),
		ErrorCategory: code.Category(),
	}
}

// FromError classifies err and renders it. Instance is the request path the
// failure occurred on; empty is allowed.
func (b *Builder) FromError(err error, instance string) Problem {
	base := errutil.Classify(err)
	title := b.catalog.Lookup("exception.generic.title")

	var p Problem
	if fieldErrors := base.FieldErrors(); fieldErrors != nil {
		p = b.BuildFieldErrors(title, base.Code, fieldErrors)
	} else {
		p = b.Build(title, base.Message, base.Code)
	}
	p.Instance = instance
	return p
}
