package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gemini-multitool/internal/config"
	"gemini-multitool/internal/domain"
	"gemini-multitool/internal/logger"
	"gemini-multitool/internal/middleware"
	"gemini-multitool/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const cookieName = "multitool_session"

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.RequestLogger())
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", domain.ValidationErrors{domain.NewMissingFieldError("topic")}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid input", domain.NewInvalidInputError("topic cannot be empty"), http.StatusBadRequest, "INVALID_INPUT"},
		{"invalid state", domain.NewInvalidStateError("no quiz"), http.StatusConflict, "INVALID_STATE"},
		{"busy", domain.NewSessionBusyError(), http.StatusConflict, "SESSION_BUSY"},
		{"gateway", domain.NewGatewayFailure(errors.New("401 API key invalid")), http.StatusServiceUnavailable, "GATEWAY_FAILURE"},
		{"malformed", domain.NewMalformedResponseError("nope", errors.New("no array")), http.StatusBadGateway, "MALFORMED_RESPONSE"},
		{"empty quiz", domain.NewEmptyQuizError(), http.StatusBadGateway, "EMPTY_QUIZ"},
		{"configuration", domain.NewConfigurationError("missing key"), http.StatusInternalServerError, "CONFIGURATION_ERROR"},
		{"fiber", fiber.ErrNotFound, http.StatusNotFound, "HTTP_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp()
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decodeBody(t, resp)
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}

func TestErrorHandler_HidesCause(t *testing.T) {
	app := newApp()
	app.Get("/", func(c *fiber.Ctx) error {
		return domain.NewGatewayFailure(errors.New("secret upstream detail"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(raw), "secret upstream detail")
}

func TestValidationMiddleware(t *testing.T) {
	vm := middleware.NewValidationMiddleware()
	app := newApp()
	app.Post("/chat", vm.ValidateChatRequest(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(middleware.ValidatedMessageKey).(string))
	})
	app.Post("/submit", vm.ValidateSubmitQuizRequest(), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals(middleware.ValidatedAnswersKey))
	})

	post := func(path, body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := post("/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post("/chat", `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post("/chat", `{"message":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post("/submit", `{"answers":{"0":"B","2":"C"}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, map[string]interface{}{"0": "B", "2": "C"}, body)

	resp = post("/submit", ``)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post("/submit", `{"answers":{"x":"B"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func newSessionMiddleware(store session.Store, guard *session.Guard) *middleware.SessionMiddleware {
	return middleware.NewSessionMiddleware(store, guard, config.SessionConfig{
		Store:      config.SessionStoreMemory,
		TTL:        time.Hour,
		CookieName: cookieName,
	})
}

func TestSessionMiddleware_LoadCreatesAndReuses(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sm := newSessionMiddleware(store, session.NewGuard())
	app := newApp()
	app.Get("/", sm.Load(), func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentSession(c).ID)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1, store.Len())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, cookie.Value, string(raw))
	assert.Equal(t, 1, store.Len())
}

// touchCountingStore records which sessions had their lifetime extended.
type touchCountingStore struct {
	*session.MemoryStore
	touched []string
}

func (s *touchCountingStore) Touch(ctx context.Context, id string) error {
	s.touched = append(s.touched, id)
	return s.MemoryStore.Touch(ctx, id)
}

func TestSessionMiddleware_LoadExtendsExistingSession(t *testing.T) {
	store := &touchCountingStore{MemoryStore: session.NewMemoryStore(time.Hour)}
	sm := newSessionMiddleware(store, session.NewGuard())
	app := newApp()
	app.Get("/", sm.Load(), func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentSession(c).ID)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, store.touched)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie.Value})
	_, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, []string{cookie.Value}, store.touched)
}

func TestSessionMiddleware_InvalidCookieGetsFreshSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sm := newSessionMiddleware(store, session.NewGuard())
	app := newApp()
	app.Get("/", sm.Load(), func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentSession(c).ID)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "forged"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.NotEqual(t, "forged", string(raw))
	assert.Len(t, string(raw), 26)
}

func TestSessionMiddleware_ExclusiveSavesEvenOnError(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sm := newSessionMiddleware(store, session.NewGuard())
	app := newApp()
	app.Post("/", sm.Exclusive(), func(c *fiber.Ctx) error {
		middleware.CurrentSession(c).Conversation.Append(domain.RoleUser, "unanswered")
		return domain.NewGatewayFailure(errors.New("down"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	saved, err := store.Load(t.Context(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Conversation.Len())
}

func TestSessionMiddleware_ExclusiveRejectsConcurrentAction(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	guard := session.NewGuard()
	sm := newSessionMiddleware(store, guard)
	app := newApp()
	app.Post("/", sm.Exclusive(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/", sm.Load(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"busy": middleware.SessionBusy(c)})
	})

	id := "01ARZ3NDEKTSV4RRFFQ69G5FAV"
	require.NoError(t, store.Save(t.Context(), session.New(id)))
	release, ok := guard.TryAcquire(id)
	require.True(t, ok)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: id})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SESSION_BUSY", decodeBody(t, resp)["code"])

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: id})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, true, decodeBody(t, resp)["busy"])

	release()

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: id})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionMiddleware_End(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	sm := newSessionMiddleware(store, session.NewGuard())
	app := newApp()
	app.Get("/", sm.Load(), func(c *fiber.Ctx) error { return c.SendString(middleware.CurrentSession(c).ID) })
	app.Delete("/", sm.Exclusive(), func(c *fiber.Ctx) error {
		if err := sm.End(c); err != nil {
			return err
		}
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: cookie.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, store.Len())
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })
	return logs
}

func requestLogStatus(t *testing.T, logs *observer.ObservedLogs) int64 {
	t.Helper()
	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0].ContextMap()["status"].(int64)
}

func TestRequestLogger_LogsPanickingRequest(t *testing.T) {
	tests := []struct {
		name string
		app  func() *fiber.App
	}{
		{name: "without recover middleware", app: newApp},
		{name: "with recover middleware", app: func() *fiber.App {
			app := newApp()
			app.Use(recover.New())
			return app
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := observeLogs(t)
			app := tt.app()
			app.Get("/", func(c *fiber.Ctx) error { panic("handler blew up") })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, "INTERNAL_ERROR", decodeBody(t, resp)["code"])
			assert.Equal(t, int64(http.StatusInternalServerError), requestLogStatus(t, logs))
		})
	}
}

func TestRequestLogger_LogsErrorStatus(t *testing.T) {
	logs := observeLogs(t)
	app := newApp()
	app.Get("/", func(c *fiber.Ctx) error { return domain.NewSessionBusyError() })

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, int64(http.StatusConflict), requestLogStatus(t, logs))
}
