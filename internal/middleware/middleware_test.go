package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func testRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return r
}

func doGet(r *gin.Engine, clientID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if clientID != "" {
		req.Header.Set("X-Client-ID", clientID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_RequiresClientID(t *testing.T) {
	r := testRouter(NewRateLimiter(rate.Limit(1), 1))
	w := doGet(r, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimiter_ThrottlesPerClient(t *testing.T) {
	// burst of 1 and a tiny refill rate: the second request must be rejected
	r := testRouter(NewRateLimiter(rate.Limit(0.001), 1))

	assert.Equal(t, http.StatusOK, doGet(r, "alice").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "alice").Code)

	// an independent client has its own budget
	assert.Equal(t, http.StatusOK, doGet(r, "bob").Code)
}
