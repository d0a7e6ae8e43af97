package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"buildhub-state/internal/appstate"
	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/pkg/serverutils"
	"buildhub-state/internal/service"
	"buildhub-state/internal/slice/auth"
	"buildhub-state/internal/slice/chatbot"
	"buildhub-state/internal/slice/contractor"
	"buildhub-state/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	list  []entity.Contractor
	paged *dto.Pagination
}

func (s *stubAPI) ListContractors(context.Context, dto.ListContractorsParams) (dto.ContractorListResponse, error) {
	return dto.ContractorListResponse{Contractors: s.list, Pagination: s.paged}, nil
}

func (s *stubAPI) SearchContractors(context.Context, string) ([]entity.Contractor, error) {
	return s.list[:1], nil
}

func (s *stubAPI) GetContractor(_ context.Context, id string) (*entity.Contractor, error) {
	for _, c := range s.list {
		if c.Id == id {
			return &c, nil
		}
	}
	return nil, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	return newTestAppWith(t, &stubAPI{list: []entity.Contractor{
		{Id: "c1", Name: "Ace Plumbing Co", Specialties: []string{"Plumbing"}, Location: "Austin, TX", Rating: 4.8, Verified: true},
		{Id: "c2", Name: "Bright Electric", Specialties: []string{"Electrical"}, Location: "Dallas, TX", Rating: 4.2},
		{Id: "c3", Name: "Solid Roofs", Specialties: []string{"Roofing"}, Location: "Austin, TX", Rating: 3.9, Verified: true},
	}})
}

func newTestAppWith(t *testing.T, stub *stubAPI) *fiber.App {
	t.Helper()
	tokens := auth.NewTokenIssuer("test")
	app, err := appstate.New(context.Background(), appstate.Options{
		Storage:    storage.NewMemoryStore(""),
		Auth:       auth.Options{Tokens: tokens, FailureEmail: "error@test.com"},
		Chatbot:    chatbot.Options{Fallback: true},
		Contractor: contractor.Options{API: stub},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	f := fiber.New()
	f.Use(serverutils.ErrorHandlerMiddleware())
	api := f.Group("/api")
	NewAuthController(service.NewAuthService(app), serverutils.JwtMiddleware(tokens)).RegisterRoutes(api)
	NewContractorController(service.NewContractorService(app)).RegisterRoutes(api)
	NewChatbotController(service.NewChatbotService(app)).RegisterRoutes(api)
	NewUIController(service.NewUIService(app)).RegisterRoutes(api)
	return f
}

func call(t *testing.T, f *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestAuthRoutes(t *testing.T) {
	f := newTestApp(t)

	code, env := call(t, f, http.MethodPost, "/api/auth/login", `{"email":"error@test.com","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", env.Message)

	code, env = call(t, f, http.MethodPost, "/api/auth/login", `{"email":"jo@example.com","password":"secret","rememberMe":true}`)
	require.Equal(t, http.StatusOK, code)
	var res dto.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "jo@example.com", res.User.Email)

	_, env = call(t, f, http.MethodGet, "/api/auth/status", "")
	assert.Contains(t, string(env.Data), `"isAuthenticated":true`)

	code, _ = call(t, f, http.MethodPatch, "/api/auth/user", `{"name":"Jo"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	req := httptest.NewRequest(http.MethodPatch, "/api/auth/user", strings.NewReader(`{"name":"Jo"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+res.Token)
	resp, err := f.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	code, env = call(t, f, http.MethodPost, "/api/auth/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, auth.MsgInvalidRefreshToken, env.Message)
	assert.Empty(t, env.Data)

	code, _ = call(t, f, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"guess"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	_, env = call(t, f, http.MethodGet, "/api/auth/status", "")
	assert.Contains(t, string(env.Data), `"isAuthenticated":true`)

	code, env = call(t, f, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+res.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, code)
	var refreshed dto.AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &refreshed))
	assert.NotEmpty(t, refreshed.Token)

	code, _ = call(t, f, http.MethodPost, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, code)
	_, env = call(t, f, http.MethodGet, "/api/auth/status", "")
	assert.Contains(t, string(env.Data), `"isAuthenticated":false`)
}

func TestContractorRoutes(t *testing.T) {
	f := newTestApp(t)

	code, env := call(t, f, http.MethodGet, "/api/contractors?page=1&limit=12", "")
	require.Equal(t, http.StatusOK, code)
	var page dto.ContractorPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Contractors, 3)

	_, env = call(t, f, http.MethodPut, "/api/contractors/filters", `{"specialty":"plumbing"}`)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, 1, page.TotalFiltered)
	assert.True(t, page.HasActiveFilters)

	code, _ = call(t, f, http.MethodPut, "/api/contractors/filters", `{"minRating":9}`)
	assert.Equal(t, http.StatusBadRequest, code)

	_, env = call(t, f, http.MethodGet, "/api/contractors/stats", "")
	var stats dto.ContractorStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Verified)

	code, env = call(t, f, http.MethodGet, "/api/contractors/search", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, contractor.MsgQueryRequired, env.Message)

	code, env = call(t, f, http.MethodGet, "/api/contractors/c2", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Bright Electric")
}

func TestContractorRoutesServeServerPage(t *testing.T) {
	list := make([]entity.Contractor, 12)
	for i := range list {
		list[i] = entity.Contractor{Id: fmt.Sprintf("c%d", 13+i), Name: "Crew"}
	}
	served := dto.Pagination{CurrentPage: 2, TotalPages: 3, TotalItems: 36, ItemsPerPage: 12}
	f := newTestAppWith(t, &stubAPI{list: list, paged: &served})

	code, env := call(t, f, http.MethodGet, "/api/contractors?page=2&limit=12", "")
	require.Equal(t, http.StatusOK, code)
	var page dto.ContractorPage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Contractors, 12)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	require.NotNil(t, page.ServerPagination)
	assert.Equal(t, served, *page.ServerPagination)
}

func TestChatbotRouteServesDegradedReply(t *testing.T) {
	f := newTestApp(t)

	code, env := call(t, f, http.MethodPost, "/api/chatbot/messages", `{"text":"Need a roofer"}`)
	require.Equal(t, http.StatusOK, code)
	var reply dto.BotReply
	require.NoError(t, json.Unmarshal(env.Data, &reply))
	assert.Equal(t, entity.DeliveryDegraded, reply.Delivery)
	assert.Contains(t, chatbot.FallbackReplies, reply.Text)

	code, _ = call(t, f, http.MethodPost, "/api/chatbot/messages", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUIRoutes(t *testing.T) {
	f := newTestApp(t)

	_, env := call(t, f, http.MethodPut, "/api/ui/theme", `{"theme":"dark"}`)
	assert.JSONEq(t, `{"theme":"dark"}`, string(env.Data))

	code, _ := call(t, f, http.MethodPut, "/api/ui/theme", `{"theme":"sepia"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, f, http.MethodPost, "/api/ui/notifications", `{"type":"warning","title":"Heads up"}`)
	assert.Equal(t, http.StatusCreated, code)
	_, env = call(t, f, http.MethodGet, "/api/ui/notifications?type=warning", "")
	assert.Contains(t, string(env.Data), "Heads up")

	call(t, f, http.MethodDelete, "/api/ui/notifications", "")
	code, _ = call(t, f, http.MethodDelete, "/api/ui/notifications", "")
	assert.Equal(t, http.StatusOK, code)
	_, env = call(t, f, http.MethodGet, "/api/ui/notifications", "")
	assert.Equal(t, "[]", string(env.Data))
}
