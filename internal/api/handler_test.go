package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"reprasp/internal/config"
	"reprasp/internal/service"
	"reprasp/internal/storage/storagetest"
)

const adminID int64 = 1

type testEnv struct {
	router *gin.Engine
	wf     *service.Workflow
}

func newTestEnv(t *testing.T, cfg config.ServerConfig) *testEnv {
	t.Helper()
	repos := storagetest.NewRepositories(t)
	wf := service.NewWorkflow(repos, time.UTC)
	_, err := wf.Bootstrap(context.Background(), adminID)
	require.NoError(t, err)

	h := NewHandler(wf, service.NewExporter(wf))
	return &testEnv{router: NewRouter(cfg, h, zap.NewNop()), wf: wf}
}

func (e *testEnv) do(method, path string, userID string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestListScheduleEmpty(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	w := env.do(http.MethodGet, "/api/schedule/list", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestAdminAddCommits(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	w := env.do(http.MethodPost, "/api/schedule/add", "1", gin.H{
		"group_name": "BandX", "datetime": "01.01.2026 18:00", "action": "add",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"status":"committed"}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/schedule/list", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	entry := data[0].(map[string]interface{})
	assert.Equal(t, "BandX", entry["group_name"])
	assert.Equal(t, "01.01.2026 18:00", entry["date_time"])
}

func TestUserAddQueues(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	w := env.do(http.MethodPost, "/api/schedule/add", "42", gin.H{
		"group_name": "BandX", "datetime": "02.01.2026 19:00", "action": "add",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "queued", body["status"])
	assert.NotZero(t, body["request_id"])

	w = env.do(http.MethodGet, "/api/requests/list", "1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	req := data[0].(map[string]interface{})
	assert.Equal(t, "add", req["action"])
	assert.Equal(t, "02.01.2026 19:00", req["date_time"])
	assert.Equal(t, "api", req["source"])
	assert.Equal(t, float64(42), req["requested_by"])

	w = env.do(http.MethodGet, "/api/schedule/list", "", nil)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	cases := []struct {
		name string
		path string
		user string
		body interface{}
	}{
		{"bad date", "/api/schedule/add", "42", gin.H{"group_name": "BandX", "datetime": "2026-01-01", "action": "add"}},
		{"empty group", "/api/schedule/add", "42", gin.H{"group_name": " ", "datetime": "01.01.2026 18:00"}},
		{"bad action", "/api/schedule/add", "42", gin.H{"group_name": "BandX", "datetime": "01.01.2026 18:00", "action": "move"}},
		{"mismatched alias", "/api/schedule/delete", "42", gin.H{"group_name": "BandX", "datetime": "01.01.2026 18:00", "action": "add"}},
		{"bad user id", "/api/schedule/add", "abc", gin.H{"group_name": "BandX", "datetime": "01.01.2026 18:00"}},
		{"not json", "/api/schedule/add", "42", "just text"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(http.MethodPost, tc.path, tc.user, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, CodeInvalidFormat, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}

	pending, err := env.wf.ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDeleteAliasDefaultsToDelete(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	w := env.do(http.MethodPost, "/api/schedule/delete", "42", gin.H{
		"group_name": "BandX", "datetime": "02.01.2026 19:00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	pending, err := env.wf.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "delete", string(pending[0].Action))
}

func TestCheckAdmin(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})

	w := env.do(http.MethodGet, "/api/admin/check", "", nil)
	assert.JSONEq(t, `{"is_admin":false}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/admin/check", "1", nil)
	assert.JSONEq(t, `{"is_admin":true}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/admin/check", "42", nil)
	assert.JSONEq(t, `{"is_admin":false}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/admin/check", "one", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecideEndpoints(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})
	ctx := context.Background()

	res, err := env.wf.SubmitChange(ctx, 42, "BandX", "02.01.2026 19:00", "add", "api")
	require.NoError(t, err)
	id := strconv.FormatUint(uint64(res.Request.ID), 10)

	w := env.do(http.MethodPost, "/api/requests/"+id+"/approve", "42", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, CodeForbidden, decode(t, w)["code"])

	w = env.do(http.MethodPost, "/api/requests/"+id+"/approve", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/requests/"+id+"/approve", "1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/requests/"+id+"/reject", "1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, decode(t, w)["code"])

	w = env.do(http.MethodPost, "/api/requests/abc/approve", "1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	entries, err := env.wf.ListSchedule(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRejectEndpoint(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})
	ctx := context.Background()

	res, err := env.wf.SubmitChange(ctx, 42, "BandX", "02.01.2026 19:00", "add", "api")
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/api/requests/"+strconv.Itoa(int(res.Request.ID))+"/reject", "1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	entries, err := env.wf.ListSchedule(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	pending, err := env.wf.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestExportEndpoint(t *testing.T) {
	env := newTestEnv(t, config.ServerConfig{})
	_, err := env.wf.SubmitChange(context.Background(), adminID, "BandX", "01.01.2026 18:00", "add", "api")
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/api/schedule/export", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedule_")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(service.ExportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"01.01.2026", "18:00", "BandX"}, rows[1])
}
