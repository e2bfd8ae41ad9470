package problem

import (
	"testing"

	"optimagrowth-licensing/pkg/catalog"
	"optimagrowth-licensing/pkg/config"
	"optimagrowth-licensing/pkg/errutil"

	"github.com/stretchr/testify/require"
)

func newTestBuilder() *Builder {
	cfg := &config.Config{AppName: "licensing-service"}
	cfg.Server.Addr = ":8080"

	cat := catalog.FromMessages(map[string]string{
		"exception.generic.title": "An error occurred",
	})
	return NewBuilder(cfg, cat)
}

func TestBuildDerivesTypeURI(t *testing.T) {
	b := newTestBuilder()

	p := b.Build("title", "detail", errutil.StatusNotFound)
	require.Equal(t, "https://licensing-service:8080/errors/not_found", p.Type)
	require.Equal(t, 404, p.Status)
	require.Equal(t, "detail", p.Detail)
	require.Equal(t, errutil.CategoryGeneric, p.ErrorCategory)
	require.False(t, p.Timestamp.IsZero())
}

func TestBuildFieldErrors(t *testing.T) {
	b := newTestBuilder()

	p := b.BuildFieldErrors("title", errutil.StatusValidationFailed, map[string][]string{
		"licenseId": {"blank"},
	})
	require.Equal(t, 400, p.Status)
	require.Equal(t, map[string][]string{"licenseId": {"blank"}}, p.Detail)
}

func TestFromErrorWithDetails(t *testing.T) {
	b := newTestBuilder()

	err := errutil.ValidationFailed("invalid",
		errutil.WithDetails(errutil.Detail{Field: "description", Message: "too short"}))

	p := b.FromError(err, "/organization/org1/license/create")
	require.Equal(t, 400, p.Status)
	require.Equal(t, "An error occurred", p.Title)
	require.Equal(t, "/organization/org1/license/create", p.Instance)
	require.Equal(t, map[string][]string{"description": {"too short"}}, p.Detail)
}

func TestFromErrorRuntimeCategory(t *testing.T) {
	b := newTestBuilder()

	p := b.FromError(errutil.PatchFailed("cannot apply"), "")
	require.Equal(t, 400, p.Status)
	require.Equal(t, errutil.CategoryRuntime, p.ErrorCategory)
	require.Equal(t, "cannot apply", p.Detail)
}
