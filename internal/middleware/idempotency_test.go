package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"github.com/WEBX2024/HRMS/internal/middleware"
)

func idempotencyRouter(t *testing.T) (*gin.Engine, redismock.ClientMock, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()
	handled := 0

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id_validated", "user-1")
		c.Next()
	})
	router.Use(middleware.Idempotency(rdb))
	router.POST("/submit", func(c *gin.Context) {
		handled++
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return router, mock, &handled
}

func TestIdempotency(t *testing.T) {
	t.Run("request without key passes straight through", func(t *testing.T) {
		router, _, handled := idempotencyRouter(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 1, *handled)
	})

	t.Run("first request with key takes the lock and runs", func(t *testing.T) {
		router, mock, handled := idempotencyRouter(t)
		cacheKey := "idemp:/submit:user-1:abc-123"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set("Idempotency-Key", "abc-123")
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 1, *handled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate racing the lock gets a conflict", func(t *testing.T) {
		router, mock, handled := idempotencyRouter(t)
		cacheKey := "idemp:/submit:user-1:abc-123"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set("Idempotency-Key", "abc-123")
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, 0, *handled)
	})

	t.Run("completed request is replayed from cache", func(t *testing.T) {
		router, mock, handled := idempotencyRouter(t)
		cacheKey := "idemp:/submit:user-1:abc-123"
		mock.ExpectGet(cacheKey).SetVal(`{"ok":true}`)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set("Idempotency-Key", "abc-123")
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, *handled)
		assert.Contains(t, rec.Body.String(), "success")
	})
}
