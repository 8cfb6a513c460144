package handlers_test

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayo/shopstack/internal/api/handlers"
	"github.com/dayo/shopstack/internal/api/middleware"
	"github.com/dayo/shopstack/internal/database/models"
	"github.com/dayo/shopstack/internal/orgs"
	"github.com/dayo/shopstack/internal/testutil"
)

func setupProductTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	r := chi.NewRouter()
	r.Use(middleware.Auth(tc.JWTService))

	handler := handlers.NewProductHandler(tc.DB, orgs.NewService(tc.DB, slog.Default()))
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Post("/", handler.Create)
		r.Get("/{id}", handler.Get)
		r.Put("/{id}", handler.Update)
		r.Patch("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
	})

	return r, tc
}

func TestProductHandler_Create(t *testing.T) {
	router, tc := setupProductTestRouter(t)
	defer tc.Cleanup()

	t.Run("owner creates product with price", func(t *testing.T) {
		body := map[string]interface{}{
			"name":          "Laser Printer",
			"model":         "LP-2000",
			"serial_number": "SN-LP-0001",
			"category":      "electronics",
			"quantity":      4,
			"unit_price":    129.99,
		}
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/products", body, tc.Token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp handlers.ProductResponse
		testutil.ParseJSONResponse(t, rec, &resp)
		assert.Equal(t, "Laser Printer", resp.Name)
		assert.Equal(t, "electronics", resp.Category)
		assert.Equal(t, uint(4), resp.Quantity)
		assert.Equal(t, 129.99, resp.UnitPrice)
		assert.InDelta(t, 519.96, resp.TotalValue, 0.001)
		assert.Equal(t, tc.Org.ID.String(), resp.OrganizationID)
	})

	t.Run("staff with inventory flag creates product without price", func(t *testing.T) {
		staff := testutil.CreateTestStaff(t, tc.DB, tc.Org, func(m *models.Membership) {
			m.CanManageInventory = true
		})
		token := testutil.GenerateTestToken(t, tc.JWTService, staff, models.RoleStaff)

		body := map[string]interface{}{
			"name":          "Barcode Scanner",
			"serial_number": "SN-BC-0001",
			"quantity":      2,
		}
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/products", body, token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp handlers.ProductResponse
		testutil.ParseJSONResponse(t, rec, &resp)
		assert.Equal(t, float64(0), resp.UnitPrice)
		assert.Equal(t, models.CategoryOther, resp.Category)
	})

	t.Run("staff providing a price is forbidden", func(t *testing.T) {
		staff := testutil.CreateTestStaff(t, tc.DB, tc.Org, func(m *models.Membership) {
			m.CanManageInventory = true
		})
		token := testutil.GenerateTestToken(t, tc.JWTService, staff, models.RoleStaff)

		body := map[string]interface{}{
			"name":          "Cash Register",
			"serial_number": "SN-CR-0001",
			"quantity":      1,
			"unit_price":    49.50,
		}
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/products", body, token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "owner may set prices")
	})

	t.Run("staff without inventory flag is forbidden", func(t *testing.T) {
		staff := testutil.CreateTestStaff(t, tc.DB, tc.Org, nil)
		token := testutil.GenerateTestToken(t, tc.JWTService, staff, models.RoleStaff)

		body := map[string]interface{}{
			"name":          "Mop",
			"serial_number": "SN-MOP-0001",
			"quantity":      1,
		}
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/products", body, token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("duplicate serial number", func(t *testing.T) {
		existing := testutil.CreateTestProduct(t, tc.DB, tc.Org.ID, "Existing", 1, 0)

		body := map[string]interface{}{
			"name":          "Clone",
			"serial_number": existing.SerialNumber,
			"quantity":      1,
		}
		req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/products", body, tc.Token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "serial_number")
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name string
			body map[string]interface{}
		}{
			{"missing name", map[string]interface{}{"serial_number": "SN-X-1"}},
			{"missing serial", map[string]interface{}{"name": "Nameless"}},
			{"bad category", map[string]interface{}{"name": "X", "serial_number": "SN-X-2", "category": "weapons"}},
			{"negative price", map[string]interface{}{"name": "X", "serial_number": "SN-X-3", "unit_price": -1}},
			{"bad date", map[string]interface{}{"name": "X", "serial_number": "SN-X-4", "date_supplied": "31/12/2025"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/products", tt.body, tc.Token)
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			})
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/products", map[string]interface{}{})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestProductHandler_List(t *testing.T) {
	router, tc := setupProductTestRouter(t)
	defer tc.Cleanup()

	testutil.CreateTestProduct(t, tc.DB, tc.Org.ID, "Alpha", 2, 10)
	testutil.CreateTestProduct(t, tc.DB, tc.Org.ID, "Beta", 5, 3.5)

	t.Run("lists own organization's products", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/products", nil, tc.Token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data  []handlers.ProductResponse `json:"data"`
			Total int64                      `json:"total"`
		}
		testutil.ParseJSONResponse(t, rec, &resp)
		assert.Equal(t, int64(2), resp.Total)
		assert.Len(t, resp.Data, 2)
	})

	t.Run("does not leak other tenants", func(t *testing.T) {
		otherOwner, otherOrg := testutil.CreateTestOwner(t, tc.DB)
		testutil.CreateTestProduct(t, tc.DB, otherOrg.ID, "Foreign", 1, 99)
		otherToken := testutil.GenerateTestToken(t, tc.JWTService, otherOwner, models.RoleOwner)

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/products", nil, otherToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data []handlers.ProductResponse `json:"data"`
		}
		testutil.ParseJSONResponse(t, rec, &resp)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Foreign", resp.Data[0].Name)
	})

	t.Run("category filter", func(t *testing.T) {
		electronics := testutil.CreateTestProduct(t, tc.DB, tc.Org.ID, "Router", 1, 0)
		require.NoError(t, tc.DB.Model(electronics).Update("category", models.CategoryElectronics).Error)

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/products?category=electronics", nil, tc.Token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data []handlers.ProductResponse `json:"data"`
		}
		testutil.ParseJSONResponse(t, rec, &resp)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Router", resp.Data[0].Name)
	})

	t.Run("caller without organization gets empty page", func(t *testing.T) {
		orphan := &models.User{Username: "orphan", Email: "orphan@example.com", PasswordHash: "x"}
		require.NoError(t, tc.DB.Create(orphan).Error)
		token := testutil.GenerateTestToken(t, tc.JWTService, orphan, models.RoleViewer)

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/products", nil, token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data  []handlers.ProductResponse `json:"data"`
			Total int64                      `json:"total"`
		}
		testutil.ParseJSONResponse(t, rec, &resp)
		assert.Empty(t, resp.Data)
		assert.Equal(t, int64(0), resp.Total)
	})
}

func TestProductHandler_Get(t *testing.T) {
	router, tc := setupProductTestRouter(t)
	defer tc.Cleanup()

	product := testutil.CreateTestProduct(t, tc.DB, tc.Org.ID, "Widget", 3, 12.5)

	t.Run("returns scoped product with total value", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/products/"+product.ID.String(), nil, tc.Token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp handlers.ProductResponse
		testutil.ParseJSONResponse(t, rec, &resp)
		assert.Equal(t, "Widget", resp.Name)
		assert.InDelta(t, 37.5, resp.TotalValue, 0.001)
	})

	t.Run("cross-tenant id reads as not found", func(t *testing.T) {
		otherOwner, _ := testutil.CreateTestOwner(t, tc.DB)
		otherToken := testutil.GenerateTestToken(t, tc.JWTService, otherOwner, models.RoleOwner)

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/products/"+product.ID.String(), nil, otherToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/products/not-a-uuid", nil, tc.Token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProductHandler_Update(t *testing.T) {
	router, tc := setupProductTestRouter(t)
	defer tc.Cleanup()

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		product := testutil.CreateTestProduct(t, tc.DB, tc.Org.ID, "Original", 7, 20)

		body := map[string]interface{}{"quantity": 9}
		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/products/"+product.ID.String(), body, tc.Token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp handlers.ProductResponse
		testutil.ParseJSONResponse(t, rec, &resp)
		assert.Equal(t, "Original", resp.Name)
		assert.Equal(t, uint(9), resp.Quantity)
		assert.Equal(t, float64(20), resp.UnitPrice)
		assert.InDelta(t, 180, resp.TotalValue, 0.001)
	})

	t.Run("staff touching unit price is forbidden", func(t *testing.T) {
		product := testutil.CreateTestProduct(t, tc.DB, tc.Org.ID, "Priced", 1, 10)
		staff := testutil.CreateTestStaff(t, tc.DB, tc.Org, func(m *models.Membership) {
			m.CanManageInventory = true
		})
		token := testutil.GenerateTestToken(t, tc.JWTService, staff, models.RoleStaff)

		body := map[string]interface{}{"unit_price": 999.0}
		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/products/"+product.ID.String(), body, token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("staff may update other fields", func(t *testing.T) {
		product := testutil.CreateTestProduct(t, tc.DB, tc.Org.ID, "Restockable", 1, 10)
		staff := testutil.CreateTestStaff(t, tc.DB, tc.Org, func(m *models.Membership) {
			m.CanManageInventory = true
		})
		token := testutil.GenerateTestToken(t, tc.JWTService, staff, models.RoleStaff)

		body := map[string]interface{}{"quantity": 50, "footnote": "restocked"}
		req := testutil.AuthenticatedRequest(t, "PATCH", "/api/v1/products/"+product.ID.String(), body, token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp handlers.ProductResponse
		testutil.ParseJSONResponse(t, rec, &resp)
		assert.Equal(t, uint(50), resp.Quantity)
		assert.Equal(t, "restocked", resp.Footnote)
	})

	t.Run("cross-tenant update is not found", func(t *testing.T) {
		product := testutil.CreateTestProduct(t, tc.DB, tc.Org.ID, "Mine", 1, 0)
		otherOwner, _ := testutil.CreateTestOwner(t, tc.DB)
		otherToken := testutil.GenerateTestToken(t, tc.JWTService, otherOwner, models.RoleOwner)

		body := map[string]interface{}{"name": "Stolen"}
		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/products/"+product.ID.String(), body, otherToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var unchanged models.Product
		require.NoError(t, tc.DB.First(&unchanged, "id = ?", product.ID).Error)
		assert.Equal(t, "Mine", unchanged.Name)
	})
}

func TestProductHandler_Delete(t *testing.T) {
	router, tc := setupProductTestRouter(t)
	defer tc.Cleanup()

	t.Run("deletes own product", func(t *testing.T) {
		product := testutil.CreateTestProduct(t, tc.DB, tc.Org.ID, "Doomed", 1, 0)

		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/products/"+product.ID.String(), nil, tc.Token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var count int64
		tc.DB.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("cross-tenant delete is not found", func(t *testing.T) {
		product := testutil.CreateTestProduct(t, tc.DB, tc.Org.ID, "Protected", 1, 0)
		otherOwner, _ := testutil.CreateTestOwner(t, tc.DB)
		otherToken := testutil.GenerateTestToken(t, tc.JWTService, otherOwner, models.RoleOwner)

		req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/products/"+product.ID.String(), nil, otherToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var count int64
		tc.DB.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("missing product", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(t, "DELETE", fmt.Sprintf("/api/v1/products/%s", "00000000-0000-0000-0000-000000000001"), nil, tc.Token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
