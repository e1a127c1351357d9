package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/private", AuthMiddleware(testSecret), func(c *gin.Context) {
		id, _ := GetOperatorID(c)
		c.JSON(http.StatusOK, gin.H{"operator": id})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	valid, err := SignToken(testSecret, Claims{
		OperatorID: "op-1",
		Role:       "branch",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if err != nil {
		t.Fatalf("SignToken() error = %v", err)
	}
	expired, _ := SignToken(testSecret, Claims{
		OperatorID: "op-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	wrongKey, _ := SignToken([]byte("other"), Claims{OperatorID: "op-1"})
	noOperator, _ := SignToken(testSecret, Claims{Role: "branch"})

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong signing key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"missing operator", "Bearer " + noOperator, http.StatusUnauthorized},
	}

	router := newAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestLoggingMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(LoggingMiddleware(logger))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(RequestIDHeader)
	if id == "" || w.Body.String() != id {
		t.Fatalf("request id header %q, body %q", id, w.Body.String())
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["request_id"] != id || entry["route"] != "/ping" {
		t.Errorf("unexpected log entry %v", entry)
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "given-id" {
		t.Errorf("expected incoming request id to be kept, got %q", got)
	}
}

func TestValidateRequest(t *testing.T) {
	type page struct {
		Skip  int `form:"skip" validate:"gte=0"`
		Limit int `form:"limit" validate:"gte=1,lte=100"`
	}

	if errs := ValidateRequest(page{Skip: 0, Limit: 10}); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := ValidateRequest(page{Skip: -1, Limit: 101})
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Field != "skip" || errs[0].Type != "gte" {
		t.Errorf("unexpected first error %+v", errs[0])
	}
	if errs[1].Field != "limit" || errs[1].Message != "Value must be less than or equal to 100" {
		t.Errorf("unexpected second error %+v", errs[1])
	}
}
