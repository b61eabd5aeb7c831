package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/classgrid-backend/internal/config"
	"github.com/stemsi/classgrid-backend/internal/handler"
	"github.com/stemsi/classgrid-backend/internal/model"
	"github.com/stemsi/classgrid-backend/internal/notify"
	"github.com/stemsi/classgrid-backend/internal/repository"
	"github.com/stemsi/classgrid-backend/internal/response"
	"github.com/stemsi/classgrid-backend/internal/service"
	"github.com/stemsi/classgrid-backend/internal/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

// staticUsers accepts "<name>"/"secret" for the listed users.
type staticUsers map[string]model.RoleName

func (u staticUsers) Authenticate(_ context.Context, username, password string) (service.Principal, service.Outcome, error) {
	role, ok := u[username]
	if !ok || password != "secret" {
		return service.Principal{}, service.OutcomeRejected, nil
	}
	return service.Principal{Username: username, Name: username, Role: role}, service.OutcomeAuthenticated, nil
}

type envelope struct {
	Data       json.RawMessage      `json:"data"`
	Error      *response.ErrorBody  `json:"error"`
	Pagination *response.Pagination `json:"pagination"`
}

type testApp struct {
	t      *testing.T
	router *gin.Engine
	hub    *notify.Hub
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := zerolog.Nop()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cat := service.NewMemoryCatalog()
	_, err := service.SeedDemo(ctx, cat)
	require.NoError(t, err)

	hub := notify.NewHub(16)
	sink := notify.Fanout{hub}

	users := staticUsers{"root": model.RoleAdministrator, "guest": model.RoleViewer}
	authService := service.NewAuthService(users, service.NewMemorySessionStore(), "test-secret", time.Hour, sink, log)
	settingService := service.NewSettingService(repository.NewMemorySettingRepository(), sink, log)
	sectionService := service.NewSectionService(cat, sink, log)
	scheduleService := service.NewScheduleService(cat, sink, log)

	cfg := &config.Config{GinMode: gin.TestMode, LoginRateLimit: 100}
	handlers := &Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(cat, settingService, nil, log)),
		Teacher:   handler.NewTeacherHandler(service.NewTeacherService(cat, sink, log)),
		Subject:   handler.NewSubjectHandler(service.NewSubjectService(cat, sink, log)),
		Section:   handler.NewSectionHandler(sectionService),
		Schedule: handler.NewScheduleHandler(scheduleService,
			service.NewExportService(scheduleService, sectionService, t.TempDir(), log)),
		Setting: handler.NewSettingHandler(settingService),
		WS:      handler.NewWSHandler(hub, log, nil),
	}
	return &testApp{t: t, router: SetupRouter(ctx, authService, handlers, cfg, log), hub: hub}
}

func (a *testApp) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (a *testApp) login(username string) string {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": "secret"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
		Path  string `json:"path"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	assert.Equal(a.t, "/dashboard", data.Path)
	return data.Token
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w, _ := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRoutes(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "root", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrInvalidCredentials, env.Error.Code)
	assert.Equal(t, "Invalid username or password", env.Error.Message)

	w, env = app.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "root"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Fields, "password")

	w, env = app.do(http.MethodPost, "/api/v1/auth/signup", "", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Equal(t, response.ErrNotImplemented, env.Error.Code)

	first := app.login("root")
	w, _ = app.do(http.MethodGet, "/api/v1/auth/me", first, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// A second login ends the first session.
	second := app.login("root")
	w, env = app.do(http.MethodGet, "/api/v1/admin/dashboard", first, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrSessionInvalidated, env.Error.Code)

	w, _ = app.do(http.MethodPost, "/api/v1/auth/logout", second, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(http.MethodGet, "/api/v1/admin/dashboard", second, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutes_RequireTokenAndPermission(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(http.MethodGet, "/api/v1/admin/teachers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrTokenRequired, env.Error.Code)

	w, env = app.do(http.MethodGet, "/api/v1/admin/teachers", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrTokenInvalid, env.Error.Code)

	guest := app.login("guest")
	w, _ = app.do(http.MethodGet, "/api/v1/admin/teachers", guest, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = app.do(http.MethodPost, "/api/v1/admin/teachers", guest, gin.H{"name": "Mr. Lee"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrPermissionDenied, env.Error.Code)

	w, env = app.do(http.MethodGet, "/api/v1/admin/dashboard", guest, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash service.DashboardData
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Len(t, dash.Menu, 3)
	assert.Equal(t, 3, dash.Counts.Teachers)
}

func TestTeacherRoutes(t *testing.T) {
	app := newTestApp(t)
	token := app.login("root")

	w, env := app.do(http.MethodGet, "/api/v1/admin/teachers?grade=7", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Teachers []model.Teacher `json:"teachers"`
		Count    int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Ms. Davis", list.Teachers[0].Name)

	w, env = app.do(http.MethodGet, "/api/v1/admin/teachers?grade=13", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidGrade, env.Error.Code)

	w, env = app.do(http.MethodPost, "/api/v1/admin/teachers", token, gin.H{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrEmptyName, env.Error.Code)
	assert.Equal(t, "Please enter a teacher name", env.Error.Message)

	w, env = app.do(http.MethodPost, "/api/v1/admin/teachers", token,
		gin.H{"name": "Mr. Lee", "subjects": []string{"Chemistry"}, "grade_levels": []string{"11"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Teacher model.Teacher `json:"teacher"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, 4, created.Teacher.ID)

	w, _ = app.do(http.MethodPut, "/api/v1/admin/teachers/4", token, gin.H{"name": "Mr. Lee Jr."})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = app.do(http.MethodDelete, "/api/v1/admin/teachers/1", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrDependencyExists, env.Error.Code)

	w, _ = app.do(http.MethodDelete, "/api/v1/admin/teachers/4", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = app.do(http.MethodGet, "/api/v1/admin/teachers/4", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Teacher not found", env.Error.Message)

	w, env = app.do(http.MethodGet, "/api/v1/admin/teachers/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidID, env.Error.Code)
}

func TestScheduleRoutes(t *testing.T) {
	app := newTestApp(t)
	token := app.login("root")

	w, _ := app.do(http.MethodGet, "/api/v1/admin/schedule/meta", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "private, max-age=3600", w.Header().Get("Cache-Control"))

	w, env := app.do(http.MethodGet, "/api/v1/admin/schedule/sections/1/at?day=Monday&slot=8:00", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var at struct {
		Class *model.ScheduledClassView `json:"class"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &at))
	require.NotNil(t, at.Class)
	assert.Equal(t, "Mathematics", at.Class.SubjectName)

	w, env = app.do(http.MethodGet, "/api/v1/admin/schedule/sections/1/at?day=Sunday&slot=8:15", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Fields, "day")
	assert.Contains(t, env.Error.Fields, "slot")

	clash := gin.H{
		"section_id": 1, "day": "Monday", "start_time": "8:30", "duration_minutes": 30,
		"subject_id": 4, "teacher_id": 3, "room": "Room 110",
	}
	w, env = app.do(http.MethodPost, "/api/v1/admin/schedule/classes", token, clash)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrSlotConflict, env.Error.Code)
	assert.Equal(t, "Time slot already taken by Mathematics (8:00-9:30)", env.Error.Message)

	clash["start_time"] = "9:30"
	w, _ = app.do(http.MethodPost, "/api/v1/admin/schedule/classes", token, clash)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = app.do(http.MethodGet, "/api/v1/admin/schedule/sections/1/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.XLSXContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedule-g7-section-a.xlsx")
}

func TestActivity_EmptyWithoutAuditLog(t *testing.T) {
	app := newTestApp(t)
	token := app.login("root")

	w, env := app.do(http.MethodGet, "/api/v1/admin/activity?page=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Page)
	assert.Equal(t, 0, env.Pagination.TotalItems)
}

func TestNotificationStream(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()
	token := app.login("root")

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/v1/notifications?token=" + token
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var ready map[string]string
	require.NoError(t, conn.ReadJSON(&ready))
	assert.Equal(t, "ready", ready["event"])
	assert.Equal(t, "own", ready["scope"])

	// Another admin's login is not part of the caller's own stream.
	app.login("guest")

	w, _ := app.do(http.MethodPost, "/api/v1/admin/sections", token, gin.H{"name": "Section C", "grade_level": "9"})
	require.Equal(t, http.StatusCreated, w.Code)

	var ev struct {
		Event        string              `json:"event"`
		Notification notify.Notification `json:"notification"`
	}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "notification", ev.Event)
	assert.Equal(t, "root", ev.Notification.Actor)
	assert.Equal(t, notify.KindSuccess, ev.Notification.Kind)

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "ping"}))
	var pong map[string]string
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, "pong", pong["event"])
}

func TestNotificationStream_RequiresToken(t *testing.T) {
	app := newTestApp(t)
	w, env := app.do(http.MethodGet, "/ws/v1/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrTokenRequired, env.Error.Code)
}

func TestSettingRoutes(t *testing.T) {
	app := newTestApp(t)
	token := app.login("root")

	w, env := app.do(http.MethodPut, "/api/v1/admin/settings", token,
		gin.H{"settings": gin.H{model.SettingSchoolName: "  Northside High "}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Settings map[string]string `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, "Northside High", body.Settings[model.SettingSchoolName])

	w, env = app.do(http.MethodPut, "/api/v1/admin/settings", token, gin.H{"settings": gin.H{"theme": "dark"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error.Fields["settings"], "theme")

	w, env = app.do(http.MethodGet, "/api/v1/public/settings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var public map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &public))
	assert.Equal(t, "Northside High", public[model.SettingSchoolName])

	guest := app.login("guest")
	w, _ = app.do(http.MethodGet, "/api/v1/admin/settings", guest, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
