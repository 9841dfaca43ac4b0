package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodorder/internal/config"
	"foodorder/internal/domain/model"
	"foodorder/internal/logger"
	repo "foodorder/internal/repository"
	"foodorder/internal/usecase"
	auth "foodorder/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, user *model.User) error {
	panic("not used in handler tests")
}

func (m *userRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	panic("not used in handler tests")
}

func (m *userRepoMock) Update(ctx context.Context, user *model.User) error {
	panic("not used in handler tests")
}

func (m *userRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	panic("not used in handler tests")
}

type auditLogRepoMock struct{ mock.Mock }

func (m *auditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	panic("not used in handler tests")
}

func (m *auditLogRepoMock) List(ctx context.Context, f repo.AuditLogListFilter) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, f)
	logs, _ := args.Get(0).([]model.AuditLog)
	total, _ := args.Get(1).(int64)
	return logs, total, args.Error(2)
}

var auditCfg = config.Config{JWTSecret: "test-secret-123", AccessTTL: 15 * time.Minute}

func newAuditEcho(logs *auditLogRepoMock, users *userRepoMock) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(logger.Nop())
	NewAdminAuditLogHandler(usecase.NewAuditLogUsecase(logs)).RegisterRoutes(e.Group("/api"), auditCfg, users)
	return e
}

func getAuditLogs(t *testing.T, e *echo.Echo, target string, userID int64, role model.Role) (*httptest.ResponseRecorder, envelopeBody) {
	t.Helper()
	token, _, err := auth.NewJWTIssuer(auditCfg.JWTSecret, time.Hour).Issue(userID, role, 0, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body envelopeBody
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestAuditLogs_AdminFilters(t *testing.T) {
	logs := new(auditLogRepoMock)
	users := new(userRepoMock)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, Role: model.RoleAdmin, IsActive: true}, nil)

	actorID := int64(2)
	orderID := int64(55)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	logs.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogListFilter) bool {
		return f.Page == 2 && f.Limit == 10 &&
			*f.ActorUserID == actorID &&
			f.Action == model.AuditActionUpdateOrderStat &&
			f.ResourceType == model.AuditResourceOrder &&
			*f.ResourceID == orderID &&
			f.From.Equal(from) && f.To == nil
	})).Return([]model.AuditLog{{ID: 9, ActorUserID: 2, Action: model.AuditActionUpdateOrderStat, ResourceType: model.AuditResourceOrder, ResourceID: 55}}, int64(11), nil)

	e := newAuditEcho(logs, users)
	rec, body := getAuditLogs(t, e,
		"/api/audit-logs?page=2&limit=10&actor_user_id=2&action=UPDATE_ORDER_STATUS&resource_type=order&resource_id=55&from=2026-03-01T00:00:00Z",
		1, model.RoleAdmin)
	require.Equal(t, http.StatusOK, rec.Code)

	var data usecase.AuditLogListOutput
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, int64(11), data.Total)
	assert.Equal(t, 2, data.Page)
	require.Len(t, data.Items, 1)
	assert.Equal(t, int64(9), data.Items[0].ID)
	logs.AssertExpectations(t)
}

func TestAuditLogs_ManagerIsForbidden(t *testing.T) {
	logs := new(auditLogRepoMock)
	users := new(userRepoMock)
	users.On("FindByID", mock.Anything, int64(2)).Return(&model.User{ID: 2, Role: model.RoleManager, IsActive: true}, nil)

	rec, body := getAuditLogs(t, newAuditEcho(logs, users), "/api/audit-logs", 2, model.RoleManager)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"code":"FORBIDDEN"}`, string(body.Data))
	logs.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAuditLogs_BadQuery(t *testing.T) {
	users := new(userRepoMock)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, Role: model.RoleAdmin, IsActive: true}, nil)
	e := newAuditEcho(new(auditLogRepoMock), users)

	for _, target := range []string{
		"/api/audit-logs?actor_user_id=abc",
		"/api/audit-logs?resource_id=-1",
		"/api/audit-logs?from=yesterday",
		"/api/audit-logs?action=DROP_TABLE",
		"/api/audit-logs?resource_id=55",
	} {
		rec, _ := getAuditLogs(t, e, target, 1, model.RoleAdmin)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}
