package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edulabs/promo-service/internal/models"
	"github.com/edulabs/promo-service/internal/repository"
	"github.com/edulabs/promo-service/internal/service"
	"github.com/edulabs/promo-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

var handlerNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func newBundleRouter() (*chi.Mux, *service.BundleService) {
	svc := service.NewBundleService(repository.NewInMemoryBundleRepository(), func() time.Time { return handlerNow })
	log := logger.New("error")
	h := NewBundleHandler(svc, log)

	r := chi.NewRouter()
	r.Post("/api/bundle/validate", h.Validate)
	r.Post("/api/bundle", h.Create)
	r.Get("/api/bundle", h.List)
	r.Get("/api/bundle/{bundleId}", h.Get)
	r.Put("/api/bundle/{bundleId}", h.Update)
	r.Delete("/api/bundle/{bundleId}", h.Delete)
	return r, svc
}

func bundleBody(t *testing.T, b models.Bundle) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(b); err != nil {
		t.Fatalf("failed to encode bundle: %v", err)
	}
	return buf
}

func testBundle() models.Bundle {
	return models.Bundle{
		Title: "Starter Pack",
		Price: 120000,
		Items: []models.BundleItem{
			{Type: models.TypeCourse, ProductID: "crs-1", Title: "Intro", Price: 100000},
			{Type: models.TypeWebinar, ProductID: "web-1", Title: "Q&A", Price: 50000},
		},
	}
}

func TestBundleValidate(t *testing.T) {
	r, _ := newBundleRouter()

	t.Run("valid draft", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/bundle/validate", bundleBody(t, testBundle()))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var resp struct {
			Valid      bool              `json:"valid"`
			Violations map[string]string `json:"violations"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !resp.Valid {
			t.Errorf("expected valid draft, got violations %v", resp.Violations)
		}
	})

	t.Run("draft with single item reports items violation", func(t *testing.T) {
		b := testBundle()
		b.Items = b.Items[:1]
		b.Price = 50000

		req := httptest.NewRequest(http.MethodPost, "/api/bundle/validate", bundleBody(t, b))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}

		var resp struct {
			Valid      bool              `json:"valid"`
			Violations map[string]string `json:"violations"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Valid {
			t.Error("expected invalid draft")
		}
		if _, ok := resp.Violations["items"]; !ok {
			t.Errorf("expected items violation, got %v", resp.Violations)
		}
	})

	t.Run("derived deadline is returned with the draft", func(t *testing.T) {
		deadline := handlerNow.Add(72 * time.Hour)
		b := testBundle()
		b.DeadlineIsAuto = true
		b.Items[1].RegistrationDeadline = &deadline

		req := httptest.NewRequest(http.MethodPost, "/api/bundle/validate", bundleBody(t, b))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		var resp struct {
			Bundle models.Bundle `json:"bundle"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Bundle.RegistrationDeadline == nil || !resp.Bundle.RegistrationDeadline.Equal(deadline) {
			t.Errorf("expected derived deadline %v, got %v", deadline, resp.Bundle.RegistrationDeadline)
		}
		if !resp.Bundle.DeadlineIsAuto {
			t.Error("expected auto flag set on the returned draft")
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/bundle/validate", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})
}

func TestBundleCreate(t *testing.T) {
	t.Run("valid bundle is created", func(t *testing.T) {
		r, _ := newBundleRouter()
		req := httptest.NewRequest(http.MethodPost, "/api/bundle", bundleBody(t, testBundle()))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
		}

		var created models.Bundle
		if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if created.ID == "" {
			t.Error("expected an assigned bundle ID")
		}
	})

	t.Run("invalid bundle yields 422 with report", func(t *testing.T) {
		r, _ := newBundleRouter()
		b := testBundle()
		b.Price = 999999999

		req := httptest.NewRequest(http.MethodPost, "/api/bundle", bundleBody(t, b))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d", w.Code)
		}

		var resp struct {
			Valid      bool              `json:"valid"`
			Violations map[string]string `json:"violations"`
		}
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if _, ok := resp.Violations["price"]; !ok {
			t.Errorf("expected price violation, got %v", resp.Violations)
		}
	})
}

func TestBundleGetUpdateDelete(t *testing.T) {
	r, svc := newBundleRouter()

	seed := testBundle()
	if _, err := svc.Create(context.Background(), &seed); err != nil {
		t.Fatalf("failed to seed bundle: %v", err)
	}

	t.Run("get existing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/bundle/"+seed.ID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/bundle/nope", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
	})

	t.Run("update existing", func(t *testing.T) {
		b := testBundle()
		b.Title = "Renamed"

		req := httptest.NewRequest(http.MethodPut, "/api/bundle/"+seed.ID, bundleBody(t, b))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("update missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/bundle/nope", bundleBody(t, testBundle()))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
	})

	t.Run("delete then list is empty", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/bundle/"+seed.ID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", w.Code)
		}

		req = httptest.NewRequest(http.MethodGet, "/api/bundle", nil)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)

		var bundles []models.Bundle
		if err := json.NewDecoder(w.Body).Decode(&bundles); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(bundles) != 0 {
			t.Errorf("expected no bundles, got %d", len(bundles))
		}
	})
}
