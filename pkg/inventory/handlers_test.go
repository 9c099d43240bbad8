package inventory

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rescueops/stationstock/pkg/identity"
)

func setupAPI(t *testing.T) (chi.Router, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewService(db)
	router := NewRouter(svc, NewResourceStore(db), NewLedgerStore(db), NewRequestStore(db), nil)
	return router, db
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetResource(t *testing.T) {
	router, _ := setupAPI(t)

	w := doJSON(t, router, http.MethodPost, "/resources", CreateResourceRequest{
		Name:         "SCBA Cylinder",
		ResourceType: "equipment",
		Category:     "breathing apparatus",
		Quantity:     12,
		Unit:         "units",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created Resource
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 12, created.AvailableQuantity)
	assert.Equal(t, ConditionServiceable, created.Condition)

	w = doJSON(t, router, http.MethodGet, "/resources/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got Resource
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, created.ID, got.ID)
}

func TestCreateResource_ValidationError(t *testing.T) {
	router, _ := setupAPI(t)

	w := doJSON(t, router, http.MethodPost, "/resources", CreateResourceRequest{Name: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetResource_NotFound(t *testing.T) {
	router, _ := setupAPI(t)

	w := doJSON(t, router, http.MethodGet, "/resources/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogUsageEndpoint(t *testing.T) {
	router, db := setupAPI(t)
	res := mustCreateResource(t, db, &Resource{Name: "Saline Bags", Quantity: 20})

	w := doJSON(t, router, http.MethodPost, "/resources/"+res.ID+"/usage", UsageRequest{
		QuantityUsed: 4,
		Category:     "medical",
		IncidentID:   "INC-2041",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result OperationResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, 16, result.Resource.AvailableQuantity)
	assert.NotEmpty(t, result.LedgerEntryID)
}

func TestLogUsageEndpoint_InsufficientIs409(t *testing.T) {
	router, db := setupAPI(t)
	res := mustCreateResource(t, db, &Resource{Name: "Saline Bags", Quantity: 2})

	w := doJSON(t, router, http.MethodPost, "/resources/"+res.ID+"/usage", UsageRequest{
		QuantityUsed: 4,
		Category:     "medical",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "INSUFFICIENT_QUANTITY", body["code"])
}

func TestReportDamageEndpoint(t *testing.T) {
	router, db := setupAPI(t)
	res := mustCreateResource(t, db, &Resource{Name: "Chainsaw", Quantity: 6})

	w := doJSON(t, router, http.MethodPost, "/resources/"+res.ID+"/damage", DamageRequest{
		Category:         "equipment",
		Severity:         SeveritySevere,
		AffectedQuantity: 1,
		Description:      "engine seized",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result OperationResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, ConditionCondemned, result.Resource.Condition)
	assert.NotEmpty(t, result.RequestID)
}

func TestReportDamageEndpoint_BadSeverity(t *testing.T) {
	router, db := setupAPI(t)
	res := mustCreateResource(t, db, &Resource{Name: "Chainsaw", Quantity: 6})

	w := doJSON(t, router, http.MethodPost, "/resources/"+res.ID+"/damage", map[string]any{
		"severity":         "shattered",
		"affectedQuantity": 1,
		"description":      "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestWorkflowEndpoints(t *testing.T) {
	router, db := setupAPI(t)
	res := mustCreateResource(t, db, &Resource{Name: "Gloves", Quantity: 30, AvailableQuantity: 5, MinStockLevel: 10})

	w := doJSON(t, router, http.MethodPost, "/requests", SubmitRequestBody{
		ResourceID:    res.ID,
		Category:      CategorySupply,
		Quantity:      25,
		Justification: "restock",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var filed OperationResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&filed))
	require.NotEmpty(t, filed.RequestID)

	for _, action := range []string{"approve", "start"} {
		w = doJSON(t, router, http.MethodPost, "/requests/"+filed.RequestID+"/actions/"+action, RequestActionBody{})
		require.Equal(t, http.StatusOK, w.Code, "action %s: %s", action, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/requests/"+filed.RequestID+"/actions/complete", RequestActionBody{
		ReceivedQuantity: 25,
	})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := NewResourceStore(db).Get("default", res.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.AvailableQuantity)
	assert.Equal(t, 55, stored.Quantity)
}

func TestRequestActionEndpoint_InvalidTransitionIs400(t *testing.T) {
	router, db := setupAPI(t)
	res := mustCreateResource(t, db, &Resource{Name: "Gloves", Quantity: 5})

	w := doJSON(t, router, http.MethodPost, "/requests", SubmitRequestBody{
		ResourceID:    res.ID,
		Category:      CategoryRepair,
		Justification: "torn",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var filed OperationResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&filed))

	w = doJSON(t, router, http.MethodPost, "/requests/"+filed.RequestID+"/actions/complete", RequestActionBody{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "REQUEST_INVALID_TRANSITION", body["code"])

	w = doJSON(t, router, http.MethodPost, "/requests/"+filed.RequestID+"/actions/detonate", RequestActionBody{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTagEndpoints(t *testing.T) {
	router, db := setupAPI(t)
	res := mustCreateResource(t, db, &Resource{Name: "Thermal Camera", Quantity: 2})

	w := doJSON(t, router, http.MethodPost, "/resources/"+res.ID+"/tags", AddTagRequest{
		Name:     "#emergency",
		Category: "response",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate add conflicts.
	w = doJSON(t, router, http.MethodPost, "/resources/"+res.ID+"/tags", AddTagRequest{Name: "EMERGENCY"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, "/resources/"+res.ID+"/tags", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list TagList
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	require.Len(t, list.Tags, 1)
	assert.Equal(t, "Emergency", list.Tags[0].Name)

	w = doJSON(t, router, http.MethodDelete, "/resources/"+res.ID+"/tags/emergency", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/resources/"+res.ID+"/tags/emergency", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResourceHistoryEndpoint(t *testing.T) {
	router, db := setupAPI(t)
	res := mustCreateResource(t, db, &Resource{Name: "Saline Bags", Quantity: 20})

	for i := 0; i < 2; i++ {
		w := doJSON(t, router, http.MethodPost, "/resources/"+res.ID+"/usage", UsageRequest{
			QuantityUsed: 1, Category: "medical",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/resources/"+res.ID+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list LedgerList
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Len(t, list.Entries, 2)
	assert.EqualValues(t, 2, list.TotalSize)
}

func TestRouterAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	router := NewRouter(svc, NewResourceStore(db), NewLedgerStore(db), NewRequestStore(db), identity.RolePolicy{})

	res := mustCreateResource(t, db, &Resource{Name: "Gloves", Quantity: 5})

	// Reads are open to everyone.
	req := httptest.NewRequest(http.MethodGet, "/resources", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// An anonymous actor may not approve requests.
	req = httptest.NewRequest(http.MethodPost, "/requests/"+res.ID+"/actions/approve", bytes.NewBufferString("{}"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
