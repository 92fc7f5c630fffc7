package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/pm-assistant-api/internal/database"
	"github.com/yukikurage/pm-assistant-api/internal/dto"
	"github.com/yukikurage/pm-assistant-api/internal/models"
	"github.com/yukikurage/pm-assistant-api/internal/repository"
	"github.com/yukikurage/pm-assistant-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// HandlerTestSuite drives the full router against a SQLite-backed store
type HandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	store  repository.Store
	router *gin.Engine
	token  string
}

func (suite *HandlerTestSuite) SetupTest() {
	var err error
	path := filepath.Join(suite.T().TempDir(), "handlers.db")
	suite.db, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(suite.db))

	suite.store = repository.NewGormStore(suite.db)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	suite.router = NewRouter(RouterConfig{
		Members:        services.NewMemberService(suite.store.Members),
		Projects:       services.NewProjectService(suite.store.Projects, suite.store.Members),
		Tasks:          services.NewTaskService(suite.store.Tasks, suite.store.Projects, suite.store.Members, nil),
		TimeLogs:       services.NewTimeLogService(suite.store.TimeLogs, suite.store.Tasks, suite.store.Members),
		Auth:           services.NewAuthService(suite.store.Users),
		Tokens:         services.NewTokenService("test-secret", time.Hour),
		Analytics:      services.NewAnalyticsService(repository.NewAnalyticsGateway(suite.store)),
		SessionStore:   cookie.NewStore([]byte("secret")),
		Logger:         quiet,
		RequestTimeout: 5 * time.Second,
	})

	w := suite.request(http.MethodPost, "/api/auth/register", map[string]any{
		"username":  "manager",
		"email":     "manager@example.com",
		"password":  "supersecret",
		"full_name": "Project Manager",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var auth dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &auth))
	suite.token = auth.AccessToken
}

func (suite *HandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *HandlerTestSuite) request(method, path string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if suite.token != "" {
		req.Header.Set("Authorization", "Bearer "+suite.token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (suite *HandlerTestSuite) createMember(name string, availability float64) models.Member {
	w := suite.request(http.MethodPost, "/api/members", map[string]any{
		"name":                 name,
		"email":                name + "@example.com",
		"role":                 "Developer",
		"skills":               []string{"go"},
		"availability_percent": availability,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var member models.Member
	suite.decode(w, &member)
	return member
}

func (suite *HandlerTestSuite) createProject(name string) models.Project {
	w := suite.request(http.MethodPost, "/api/projects", map[string]any{"name": name})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var project models.Project
	suite.decode(w, &project)
	return project
}

func (suite *HandlerTestSuite) createTask(projectID, name string, hours float64, assigned ...string) models.Task {
	w := suite.request(http.MethodPost, "/api/tasks", map[string]any{
		"project_id":               projectID,
		"name":                     name,
		"estimated_duration_hours": hours,
		"assigned_to_ids":          assigned,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task models.Task
	suite.decode(w, &task)
	return task
}

func (suite *HandlerTestSuite) logTime(taskID, memberID string, hours float64) {
	w := suite.request(http.MethodPost, "/api/time-logs", map[string]any{
		"task_id":     taskID,
		"member_id":   memberID,
		"hours_spent": hours,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.request(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestRequiresAuth() {
	suite.token = ""

	w := suite.request(http.MethodGet, "/api/members", nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestLoginAndMe() {
	suite.token = ""
	w := suite.request(http.MethodPost, "/api/auth/login", map[string]any{"username": "manager", "password": "supersecret"})
	suite.Require().Equal(http.StatusOK, w.Code)

	var auth dto.AuthResponse
	suite.decode(w, &auth)
	suite.Equal("bearer", auth.TokenType)
	suite.Equal("manager", auth.User.Username)
	suite.NotEmpty(w.Header().Get("Set-Cookie"))

	suite.token = auth.AccessToken
	w = suite.request(http.MethodGet, "/api/auth/me", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var me dto.UserDTO
	suite.decode(w, &me)
	suite.Equal("manager@example.com", me.Email)
	suite.NotContains(w.Body.String(), "password")
}

func (suite *HandlerTestSuite) TestLogin_WrongPassword() {
	w := suite.request(http.MethodPost, "/api/auth/login", map[string]any{"username": "manager", "password": "nope-nope"})

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestRegister_Duplicate() {
	w := suite.request(http.MethodPost, "/api/auth/register", map[string]any{
		"username": "manager",
		"email":    "someone@example.com",
		"password": "supersecret",
	})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestInactiveUserForbidden() {
	suite.Require().NoError(suite.db.Model(&models.User{}).Where("username = ?", "manager").Update("is_active", false).Error)

	w := suite.request(http.MethodGet, "/api/members", nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestMemberCRUD() {
	member := suite.createMember("alice", 80)

	w := suite.request(http.MethodGet, "/api/members/"+member.ID, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodPut, "/api/members/"+member.ID, map[string]any{"role": "Lead"})
	suite.Require().Equal(http.StatusOK, w.Code)
	var updated models.Member
	suite.decode(w, &updated)
	suite.Equal("Lead", updated.Role)
	suite.Equal(80.0, updated.AvailabilityPercent)

	w = suite.request(http.MethodGet, "/api/members", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListResponse[models.Member]
	suite.decode(w, &list)
	suite.Equal(int64(1), list.Pagination.Total)

	w = suite.request(http.MethodDelete, "/api/members/"+member.ID, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.request(http.MethodGet, "/api/members/"+member.ID, nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), member.ID)
}

func (suite *HandlerTestSuite) TestCreateMember_ValidationDetails() {
	w := suite.request(http.MethodPost, "/api/members", map[string]any{
		"name":                 "bob",
		"email":                "bob",
		"role":                 "QA",
		"availability_percent": 150,
	})

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	var body struct {
		Code    string `json:"code"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	suite.decode(w, &body)
	suite.Equal("INVALID_INPUT", body.Code)
	suite.Len(body.Details, 2)
}

func (suite *HandlerTestSuite) TestInvalidIDIsBadRequest() {
	for _, path := range []string{"/api/tasks/123/time-summary", "/api/members/xyz/workload", "/api/projects/nope/summary"} {
		w := suite.request(http.MethodGet, path, nil)
		suite.Equal(http.StatusBadRequest, w.Code, path)
	}
}

func (suite *HandlerTestSuite) TestTaskTimeSummary() {
	alice := suite.createMember("alice", 100)
	project := suite.createProject("Launch")
	task := suite.createTask(project.ID, "Build API", 10, alice.ID)
	for _, h := range []float64{3, 4, 5} {
		suite.logTime(task.ID, alice.ID, h)
	}

	w := suite.request(http.MethodGet, "/api/tasks/"+task.ID+"/time-summary", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var summary services.TaskTimeSummary
	suite.decode(w, &summary)
	suite.InDelta(12.0, summary.TotalHoursSpent, 1e-9)
	suite.InDelta(2.0, summary.Difference, 1e-9)
	suite.InDelta(120.0, summary.PercentageUsed, 1e-9)
	suite.Equal(services.BudgetOver, summary.Status)

	w = suite.request(http.MethodGet, "/api/tasks/"+models.NewID()+"/time-summary", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestMemberWorkload() {
	alice := suite.createMember("alice", 100)
	project := suite.createProject("Launch")
	suite.createTask(project.ID, "A", 15, alice.ID)
	suite.createTask(project.ID, "B", 10, alice.ID)
	done := suite.createTask(project.ID, "C", 8, alice.ID)

	w := suite.request(http.MethodPut, "/api/tasks/"+done.ID, map[string]any{"status": "Done"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.request(http.MethodGet, "/api/members/"+alice.ID+"/workload", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var workload services.MemberWorkload
	suite.decode(w, &workload)
	suite.Equal(2, workload.ActiveTasksCount)
	suite.InDelta(25.0, workload.TotalEstimatedHoursAssigned, 1e-9)
	suite.InDelta(40.0, workload.WeeklyCapacityHours, 1e-9)
	suite.InDelta(62.5, workload.UtilizationPercent, 1e-9)

	w = suite.request(http.MethodGet, "/api/analytics/workload", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var team struct {
		Workloads []services.MemberWorkload `json:"workloads"`
	}
	suite.decode(w, &team)
	suite.Len(team.Workloads, 1)
}

func (suite *HandlerTestSuite) TestAssignAndUnassign() {
	alice := suite.createMember("alice", 100)
	project := suite.createProject("Launch")
	task := suite.createTask(project.ID, "Build", 4)

	w := suite.request(http.MethodPost, "/api/tasks/"+task.ID+"/assign", map[string]any{"member_ids": []string{alice.ID}})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Contains(w.Body.String(), alice.ID)

	w = suite.request(http.MethodPost, "/api/tasks/"+task.ID+"/assign", map[string]any{"member_ids": []string{}})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/tasks/"+task.ID+"/unassign", map[string]any{"member_ids": []string{alice.ID}})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), alice.ID)
}

func (suite *HandlerTestSuite) TestListTasksByProject() {
	launch := suite.createProject("Launch")
	other := suite.createProject("Other")
	suite.createTask(launch.ID, "A", 1)
	suite.createTask(other.ID, "B", 1)

	w := suite.request(http.MethodGet, "/api/tasks?project_id="+launch.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var list dto.ListResponse[models.Task]
	suite.decode(w, &list)
	suite.Require().Len(list.Items, 1)
	suite.Equal("A", list.Items[0].Name)
}

func (suite *HandlerTestSuite) TestProjectSummaryAndDelete() {
	alice := suite.createMember("alice", 100)
	project := suite.createProject("Launch")
	task := suite.createTask(project.ID, "A", 6)
	suite.logTime(task.ID, alice.ID, 2)

	w := suite.request(http.MethodGet, "/api/projects/"+project.ID+"/summary", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var summary services.ProjectSummary
	suite.decode(w, &summary)
	suite.Equal(1, summary.TotalTasks)
	suite.InDelta(2.0, summary.TotalHoursLogged, 1e-9)

	w = suite.request(http.MethodDelete, "/api/projects/"+project.ID, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.request(http.MethodGet, "/api/tasks/"+task.ID, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestDeleteMemberWithTimeLogsConflicts() {
	alice := suite.createMember("alice", 100)
	project := suite.createProject("Launch")
	task := suite.createTask(project.ID, "A", 6)
	suite.logTime(task.ID, alice.ID, 2)

	w := suite.request(http.MethodDelete, "/api/members/"+alice.ID, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestGenerateTasksWithoutAI() {
	project := suite.createProject("Launch")

	w := suite.request(http.MethodPost, "/api/projects/"+project.ID+"/tasks/generate", nil)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
