package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/edulabs/promo-service/internal/models"
	"github.com/edulabs/promo-service/internal/repository"
	"github.com/edulabs/promo-service/internal/service"
	"github.com/edulabs/promo-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

func newCatalogRouter() *chi.Mux {
	svc := service.NewCatalogService(repository.NewInMemoryProductRepository())
	log := logger.New("error")
	h := NewCatalogHandler(svc, log)

	r := chi.NewRouter()
	r.Get("/api/catalog", h.Snapshot)
	r.Get("/api/catalog/{productType}", h.ListByType)
	return r
}

func TestCatalogSnapshot(t *testing.T) {
	r := newCatalogRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var catalog map[string][]models.Product
	if err := json.NewDecoder(w.Body).Decode(&catalog); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	for _, typ := range []string{"course", "bootcamp", "webinar"} {
		if len(catalog[typ]) == 0 {
			t.Errorf("expected seeded products for type %s", typ)
		}
	}
}

func TestCatalogListByType(t *testing.T) {
	r := newCatalogRouter()

	t.Run("known type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/catalog/course", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var products []models.Product
		if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(products) == 0 {
			t.Error("expected seeded courses")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/catalog/ebook", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}
