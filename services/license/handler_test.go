package license

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"optimagrowth-licensing/pkg/catalog"
	"optimagrowth-licensing/pkg/config"
	"optimagrowth-licensing/pkg/middleware"
	"optimagrowth-licensing/pkg/problem"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := newTestStore(t)
	cat := catalog.FromMessages(nil)
	h := NewHandler(HandlerParams{
		Command: NewCommandService(CommandServiceParams{Store: st, Catalog: cat}),
		Query:   NewQueryService(QueryServiceParams{Store: st, Catalog: cat}),
		Catalog: cat,
	})

	cfg := &config.Config{AppName: "licensing-service"}
	cfg.Server.Addr = ":8080"

	r := gin.New()
	r.Use(middleware.Problem(problem.NewBuilder(cfg, cat)))
	h.Register(r)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

const createBody = `{
	"licenseId": "LIC-0001",
	"description": "Core product license",
	"productName": "Ostock",
	"licenseType": "FULL"
}`

func TestCreateEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/organization/org-1/license/create", "application/json", createBody)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "success.license.created.successfully", body["message"])

	data := body["data"].(map[string]any)
	require.Equal(t, "LIC-0001", data["licenseId"])
	require.Equal(t, "org-1", data["organizationId"])
	require.NotEmpty(t, data["id"])
}

// organizationId in the body must not override the path.
func TestCreateEndpointIgnoresBodyOrganization(t *testing.T) {
	r := newTestRouter(t)

	body := strings.Replace(createBody, `"licenseId"`, `"organizationId": "org-evil", "licenseId"`, 1)
	w := doRequest(t, r, http.MethodPost, "/organization/org-1/license/create", "application/json", body)
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	require.Equal(t, "org-1", data["organizationId"])
}

func TestCreateEndpointConflictProblem(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/organization/org-1/license/create", "application/json", createBody)
	require.Equal(t, http.StatusCreated, w.Code)

	dup := strings.Replace(createBody, "LIC-0001", "LIC-0002", 1)
	w = doRequest(t, r, http.MethodPost, "/organization/org-2/license/create", "application/json", dup)
	require.Equal(t, http.StatusConflict, w.Code)

	p := decodeBody(t, w)
	require.Equal(t, "https://licensing-service:8080/errors/conflict", p["type"])
	require.Equal(t, float64(http.StatusConflict), p["status"])
	require.Equal(t, "Generic", p["errorCategory"])
	require.Equal(t, "/organization/org-2/license/create", p["instance"])
}

func TestCreateEndpointValidationProblemHasFieldMap(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/organization/org-1/license/create", "application/json", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	p := decodeBody(t, w)
	detail := p["detail"].(map[string]any)
	require.Contains(t, detail, "licenseId")
	require.Contains(t, detail, "licenseType")
}

func TestCreateEndpointUnreadableBody(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/organization/org-1/license/create", "application/json", `{broken`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRetrieveEndpointMissingIsProblem(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/organization/org-1/license/LIC-9999", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	p := decodeBody(t, w)
	require.Equal(t, "https://licensing-service:8080/errors/not_found", p["type"])
	require.Equal(t, "/organization/org-1/license/LIC-9999", p["instance"])
	require.NotEmpty(t, p["timestamp"])
}

func TestPatchEndpointReplacesDescription(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/organization/org-1/license/create", "application/json", createBody)
	require.Equal(t, http.StatusCreated, w.Code)

	patch := `[{"op":"replace","path":"/description","value":"Renewed product license"}]`
	w = doRequest(t, r, http.MethodPatch, "/organization/org-1/license/LIC-0001", "application/json-patch+json", patch)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "success.license.updated.successfully", body["message"])
	require.Equal(t, "Renewed product license", body["data"].(map[string]any)["description"])

	w = doRequest(t, r, http.MethodGet, "/organization/org-1/license/LIC-0001", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Renewed product license", decodeBody(t, w)["data"].(map[string]any)["description"])
}

func TestPatchEndpointRejectsUnsupportedContentType(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/organization/org-1/license/create", "application/json", createBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodPatch, "/organization/org-1/license/LIC-0001", "text/plain", `[]`)
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestPatchEndpointFailedPatchIsRuntimeProblem(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/organization/org-1/license/create", "application/json", createBody)
	require.Equal(t, http.StatusCreated, w.Code)

	patch := `[{"op":"remove","path":"/missing"}]`
	w = doRequest(t, r, http.MethodPatch, "/organization/org-1/license/LIC-0001", "application/json-patch+json", patch)
	require.Equal(t, http.StatusBadRequest, w.Code)

	p := decodeBody(t, w)
	require.Equal(t, "Runtime", p["errorCategory"])
}

func TestDeleteEndpointIsIdempotent(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/organization/org-1/license/create", "application/json", createBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/organization/org-1/license/LIC-0001", "", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/organization/org-1/license/LIC-0001", "", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, r, http.MethodGet, "/organization/org-1/license/LIC-0001", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRetrieveAllEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/organization/org-1/license/create", "application/json", createBody)
	require.Equal(t, http.StatusCreated, w.Code)

	second := strings.NewReplacer("LIC-0001", "LIC-0002", "Ostock", "Ostock Analytics").Replace(createBody)
	w = doRequest(t, r, http.MethodPost, "/organization/org-1/license/create", "application/json", second)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodGet, "/organization/org-1/license/all", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].([]any)
	require.Len(t, data, 2)

	w = doRequest(t, r, http.MethodGet, "/organization/org-2/license/all", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decodeBody(t, w)["data"])
}
