package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCheckWithoutDependencies(t *testing.T) {
	checker := NewChecker(nil, "test-version")

	status := checker.Check(context.Background())

	if status.Status != StatusHealthy {
		t.Errorf("expected healthy status with no dependencies, got %s", status.Status)
	}
	if status.Version != "test-version" {
		t.Errorf("expected version test-version, got %s", status.Version)
	}
	if len(status.Checks) != 0 {
		t.Errorf("expected no checks, got %d", len(status.Checks))
	}
}

func TestLiveHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	checker := NewChecker(nil, "test-version")

	router := gin.New()
	router.GET("/health/live", checker.LiveHandler())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestHandlerReportsVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)

	checker := NewChecker(nil, "1.2.3")

	router := gin.New()
	router.GET("/health", checker.Handler())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var status HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", status.Version)
	}
}
