package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oflo/internal/app"
	"oflo/internal/config"
	v1 "oflo/internal/infrastructure/http/v1"
	"oflo/internal/infrastructure/pdf"
)

type api struct {
	t *testing.T
	r *gin.Engine
}

func newAPI(t *testing.T) *api {
	a, err := app.New(context.Background(), &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverMemory},
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	r := v1.NewRouter(v1.RouterConfig{
		App:     a,
		Render:  pdf.RenderOptions{Creator: "test"},
		Version: "test",
	})
	return &api{t: t, r: r}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (a *api) create(path string, body any) int64 {
	a.t.Helper()
	w := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return int64(decode(a.t, w)["id"].(float64))
}

// seed creates one company, customer and product and returns their ids.
func (a *api) seed() (companyID, customerID, productID int64) {
	companyID = a.create("/api/v1/catalog/companies", map[string]any{
		"name": "Shree Traders", "gstin": "27AAPFU0939F1ZV", "invoicePrefix": "ST",
		"terms": "Goods once sold will not be taken back.",
	})
	customerID = a.create("/api/v1/catalog/customers", map[string]any{
		"name": "Mehta & Sons", "gstin": "27AAACM1234A1Z5", "address": "Pune",
	})
	productID = a.create("/api/v1/catalog/products", map[string]any{
		"name": "Wheat", "hsn": "1001", "unitPrice": "100", "taxRate": "5",
	})
	return
}

func TestHealth(t *testing.T) {
	a := newAPI(t)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/health/live", nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/health/ready", nil).Code)

	info := decode(t, a.do(http.MethodGet, "/health/info", nil))
	assert.Equal(t, config.DriverMemory, info["storage"])
}

func TestCatalogRoutes(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/v1/catalog/customers", map[string]any{"name": "Bad", "gstin": "XX"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/v1/catalog/customers", map[string]any{"gstin": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code, "name is required")

	custID := a.create("/api/v1/catalog/customers", map[string]any{
		"name": " Patil Agro ", "gstin": "29aaacp1234a1z5",
	})
	path := fmt.Sprintf("/api/v1/catalog/customers/%d", custID)

	got := decode(t, a.do(http.MethodGet, path, nil))
	assert.Equal(t, "Patil Agro", got["name"])
	assert.Equal(t, "29AAACP1234A1Z5", got["gstin"])
	assert.Equal(t, "29", got["placeOfSupply"])

	w = a.do(http.MethodPut, path, map[string]any{"name": "Patil Agro Pvt Ltd", "gstin": "29AAACP1234A1Z5"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	list := decode(t, a.do(http.MethodGet, "/api/v1/catalog/customers?search=pvt", nil))
	assert.EqualValues(t, 1, list["totalCount"])

	w = a.do(http.MethodGet, `/api/v1/catalog/customers?filter=[{"field":"password","operator":"eq","value":1}]`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/v1/catalog/customers/abc", nil).Code)
}

func TestInvoiceRoutes(t *testing.T) {
	a := newAPI(t)
	companyID, customerID, productID := a.seed()

	next := decode(t, a.do(http.MethodGet, fmt.Sprintf("/api/v1/document/invoices/next-number?companyId=%d", companyID), nil))
	assert.Equal(t, "ST-001", next["invoiceNumber"])

	body := map[string]any{
		"companyId":     companyID,
		"customerId":    customerID,
		"date":          "2024-04-01",
		"vehicleNumber": "MH12AB1234",
		"items":         []map[string]any{{"productId": productID, "quantity": "10", "numberOfBags": "2"}},
	}
	w := a.do(http.MethodPost, "/api/v1/document/invoices", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode(t, w)
	inv := created["invoice"].(map[string]any)
	cur := created["currentVersion"].(map[string]any)
	assert.Equal(t, "ST-001", inv["invoiceNumber"])
	assert.Equal(t, "ST-001", cur["referenceNumber"])
	assert.Equal(t, "1050", cur["grandTotal"])
	assert.Equal(t, "CGST_SGST", cur["taxType"])
	invoiceID := int64(inv["id"].(float64))
	firstVersionID := int64(cur["id"].(float64))
	path := fmt.Sprintf("/api/v1/document/invoices/%d", invoiceID)

	// Catalog edits do not reach stored snapshots.
	w = a.do(http.MethodPut, fmt.Sprintf("/api/v1/catalog/companies/%d", companyID), map[string]any{
		"name": "Shree Traders LLP", "gstin": "27AAPFU0939F1ZV", "invoicePrefix": "ST",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body["items"] = []map[string]any{{"productId": productID, "quantity": "20"}}
	body["baseVersion"] = 1
	w = a.do(http.MethodPut, path, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	revised := decode(t, w)["currentVersion"].(map[string]any)
	assert.Equal(t, "ST-001-R1", revised["referenceNumber"])
	assert.Equal(t, "2100", revised["grandTotal"])
	assert.Equal(t, "Shree Traders LLP", revised["sellerDetails"].(map[string]any)["name"])

	w = a.do(http.MethodPut, path, body)
	assert.Equal(t, http.StatusConflict, w.Code, "stale base version")

	versions := decode(t, a.do(http.MethodGet, path+"/versions", nil))["items"].([]any)
	require.Len(t, versions, 2)
	assert.Equal(t, false, versions[0].(map[string]any)["current"])
	assert.Equal(t, true, versions[1].(map[string]any)["current"])

	old := decode(t, a.do(http.MethodGet, fmt.Sprintf("/api/v1/document/invoice-versions/%d", firstVersionID), nil))
	oldVersion := old["currentVersion"].(map[string]any)
	assert.Equal(t, "1050", oldVersion["grandTotal"])
	assert.Equal(t, "Shree Traders", oldVersion["sellerDetails"].(map[string]any)["name"])

	list := decode(t, a.do(http.MethodGet, "/api/v1/document/invoices?search=st-001", nil))
	assert.EqualValues(t, 1, list["totalCount"])
	row := list["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "2100", row["grandTotal"])
	assert.Equal(t, "2024-04-01", row["date"])

	w = a.do(http.MethodGet, path+"/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="Invoice_ST-001-R1.pdf"`)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = a.do(http.MethodGet, fmt.Sprintf("/api/v1/document/invoice-versions/%d/pdf?print=1&consolidated=1", firstVersionID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `inline; filename="Invoice_ST-001.pdf"`)

	next = decode(t, a.do(http.MethodGet, fmt.Sprintf("/api/v1/document/invoices/next-number?companyId=%d", companyID), nil))
	assert.Equal(t, "ST-002", next["invoiceNumber"])

	assert.Equal(t, http.StatusConflict, a.do(http.MethodDelete, fmt.Sprintf("/api/v1/catalog/customers/%d", customerID), nil).Code)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound,
		a.do(http.MethodGet, fmt.Sprintf("/api/v1/document/invoice-versions/%d", firstVersionID), nil).Code)
}

func TestNextNumber_UnknownCompanyUsesDefaultPrefix(t *testing.T) {
	a := newAPI(t)

	for _, query := range []string{"", "?companyId=", "?companyId=abc", "?companyId=0", "?companyId=999"} {
		t.Run(query, func(t *testing.T) {
			w := a.do(http.MethodGet, "/api/v1/document/invoices/next-number"+query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, "INV-001", decode(t, w)["invoiceNumber"])
		})
	}
}

func TestInvoiceRoutes_Rejections(t *testing.T) {
	a := newAPI(t)
	companyID, customerID, productID := a.seed()

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"no items", map[string]any{"companyId": companyID, "customerId": customerID, "date": "2024-04-01"}, http.StatusUnprocessableEntity},
		{"bad date", map[string]any{"companyId": companyID, "customerId": customerID, "date": "01/04/2024",
			"items": []map[string]any{{"productId": productID, "quantity": "1"}}}, http.StatusBadRequest},
		{"unknown customer", map[string]any{"companyId": companyID, "customerId": 999, "date": "2024-04-01",
			"items": []map[string]any{{"productId": productID, "quantity": "1"}}}, http.StatusNotFound},
		{"unnamed line", map[string]any{"companyId": companyID, "customerId": customerID, "date": "2024-04-01",
			"items": []map[string]any{{"quantity": "1"}}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(http.MethodPost, "/api/v1/document/invoices", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	list := decode(t, a.do(http.MethodGet, "/api/v1/document/invoices", nil))
	assert.EqualValues(t, 0, list["totalCount"])
}

func TestInvoiceRoutes_ClientFinancials(t *testing.T) {
	a := newAPI(t)
	companyID, customerID, _ := a.seed()

	w := a.do(http.MethodPost, "/api/v1/document/invoices", map[string]any{
		"companyId":  companyID,
		"customerId": customerID,
		"date":       "2024-04-02",
		"items": []map[string]any{{
			"name": "Rice", "hsn": "1006", "quantity": "3", "unitPrice": "33.33", "taxRate": "0",
		}},
		"financials": map[string]any{"subTotal": "99.99", "totalTax": "0", "grandTotal": "100", "roundOff": "0.01"},
		"status":     "draft",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	cur := decode(t, w)["currentVersion"].(map[string]any)
	assert.Equal(t, "100", cur["grandTotal"])
	assert.Equal(t, "0.01", cur["roundOff"])
	assert.Equal(t, "CGST_SGST", cur["taxType"])
	assert.Equal(t, "draft", cur["status"])
}

func TestSettingsRoutes(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPut, "/api/v1/settings", map[string]any{"pdfFontSizeCompany": 22, "pdfFontBody": "Mukta"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode(t, w)
	assert.EqualValues(t, 22, got["pdfFontSizeCompany"])

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "Mukta.ttf")
	require.NoError(t, err)
	_, err = part.Write(append([]byte{0, 1, 0, 0}, make([]byte, 60)...))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fonts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	a.r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	font := decode(t, rec)
	assert.Equal(t, "Mukta", font["name"])
	assert.EqualValues(t, 64, font["size"])

	fonts := decode(t, a.do(http.MethodGet, "/api/v1/fonts", nil))["items"].([]any)
	require.Len(t, fonts, 1)

	w = a.do(http.MethodDelete, fmt.Sprintf("/api/v1/fonts/%d", int64(font["id"].(float64))), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodPut, "/api/v1/settings", map[string]any{"pdfFontBody": nil})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decode(t, w), "pdfFontBody")
}
