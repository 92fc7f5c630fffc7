package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/pm-assistant-api/internal/database"
	"github.com/yukikurage/pm-assistant-api/internal/models"
	"github.com/yukikurage/pm-assistant-api/internal/repository"
	"github.com/yukikurage/pm-assistant-api/internal/validation"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubDrafter returns canned drafts
type stubDrafter struct {
	drafts []DraftedTask
	err    error
}

func (s *stubDrafter) DraftTasks(ctx context.Context, project *models.Project) ([]DraftedTask, error) {
	return s.drafts, s.err
}

// ServiceTestSuite exercises the services against a SQLite-backed store
type ServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	store    repository.Store
	ctx      context.Context
	members  *MemberService
	projects *ProjectService
	tasks    *TaskService
	timeLogs *TimeLogService
	auth     *AuthService
	analysis *AnalyticsService
	drafter  *stubDrafter
}

func (suite *ServiceTestSuite) SetupTest() {
	var err error
	path := filepath.Join(suite.T().TempDir(), "services.db")
	suite.db, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(database.Migrate(suite.db))

	suite.store = repository.NewGormStore(suite.db)
	suite.ctx = context.Background()
	suite.drafter = &stubDrafter{}

	suite.members = NewMemberService(suite.store.Members)
	suite.projects = NewProjectService(suite.store.Projects, suite.store.Members)
	suite.tasks = NewTaskService(suite.store.Tasks, suite.store.Projects, suite.store.Members, suite.drafter)
	suite.timeLogs = NewTimeLogService(suite.store.TimeLogs, suite.store.Tasks, suite.store.Members)
	suite.auth = NewAuthService(suite.store.Users)
	suite.analysis = NewAnalyticsService(repository.NewAnalyticsGateway(suite.store))
}

func (suite *ServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ServiceTestSuite) createMember(name string) *models.Member {
	member, err := suite.members.Create(suite.ctx, CreateMemberInput{
		Name:  name,
		Email: name + "@example.com",
		Role:  "Developer",
	})
	suite.Require().NoError(err)
	return member
}

func (suite *ServiceTestSuite) createProject(name string, team ...string) *models.Project {
	project, err := suite.projects.Create(suite.ctx, CreateProjectInput{Name: name, TeamMemberIDs: team})
	suite.Require().NoError(err)
	return project
}

func (suite *ServiceTestSuite) createTask(projectID, name string, hours float64, assigned ...string) *models.Task {
	task, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{
		ProjectID:              projectID,
		Name:                   name,
		EstimatedDurationHours: hours,
		AssignedToIDs:          assigned,
	})
	suite.Require().NoError(err)
	return task
}

func (suite *ServiceTestSuite) logTime(taskID, memberID string, hours float64) *models.TimeLog {
	log, err := suite.timeLogs.Create(suite.ctx, CreateTimeLogInput{TaskID: taskID, MemberID: memberID, HoursSpent: hours})
	suite.Require().NoError(err)
	return log
}

func (suite *ServiceTestSuite) TestCreateMember_Defaults() {
	member := suite.createMember("alice")

	suite.Len(member.ID, 24)
	suite.Equal(models.DefaultAvailabilityPercent, member.AvailabilityPercent)
	suite.Equal([]string{}, member.Skills)
}

func (suite *ServiceTestSuite) TestCreateMember_Validation() {
	_, err := suite.members.Create(suite.ctx, CreateMemberInput{Name: "", Email: "not-an-email", Role: "Dev"})

	var verr *validation.Error
	suite.Require().True(errors.As(err, &verr))
	fields := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		fields[i] = f.Field
	}
	suite.Contains(fields, "name")
	suite.Contains(fields, "email")
}

func (suite *ServiceTestSuite) TestCreateMember_DuplicateEmail() {
	suite.createMember("alice")

	_, err := suite.members.Create(suite.ctx, CreateMemberInput{Name: "Other", Email: "ALICE@example.com", Role: "QA"})

	suite.ErrorIs(err, ErrMemberEmailTaken)
}

func (suite *ServiceTestSuite) TestUpdateMember_Partial() {
	member := suite.createMember("alice")
	availability := 50.0

	updated, err := suite.members.Update(suite.ctx, member.ID, UpdateMemberInput{AvailabilityPercent: &availability})

	suite.Require().NoError(err)
	suite.Equal(50.0, updated.AvailabilityPercent)
	suite.Equal("alice", updated.Name)
}

func (suite *ServiceTestSuite) TestUpdate_BlankNamesRejected() {
	member := suite.createMember("alice")
	project := suite.createProject("Launch")
	task := suite.createTask(project.ID, "Build", 5)
	blank := "   "

	_, err := suite.members.Update(suite.ctx, member.ID, UpdateMemberInput{Name: &blank})
	var verr *validation.Error
	suite.True(errors.As(err, &verr), "member: %v", err)

	_, err = suite.projects.Update(suite.ctx, project.ID, UpdateProjectInput{Name: &blank})
	suite.True(errors.As(err, &verr), "project: %v", err)

	_, err = suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{Name: &blank})
	suite.True(errors.As(err, &verr), "task: %v", err)

	reloaded, err := suite.members.Get(suite.ctx, member.ID)
	suite.Require().NoError(err)
	suite.Equal("alice", reloaded.Name)
}

func (suite *ServiceTestSuite) TestUpdateMember_TrimsFields() {
	member := suite.createMember("alice")
	name := "  Alice Smith  "
	email := " Alice.Smith@Example.com "

	updated, err := suite.members.Update(suite.ctx, member.ID, UpdateMemberInput{Name: &name, Email: &email})

	suite.Require().NoError(err)
	suite.Equal("Alice Smith", updated.Name)
	suite.Equal("alice.smith@example.com", updated.Email)
}

func (suite *ServiceTestSuite) TestDeleteMember_RefusedWithTimeLogs() {
	member := suite.createMember("alice")
	project := suite.createProject("Launch")
	task := suite.createTask(project.ID, "Build", 5)
	suite.logTime(task.ID, member.ID, 1)

	err := suite.members.Delete(suite.ctx, member.ID)

	suite.ErrorIs(err, ErrMemberHasTimeLogs)
	_, err = suite.members.Get(suite.ctx, member.ID)
	suite.NoError(err)
}

func (suite *ServiceTestSuite) TestGetMember_NotFound() {
	id := models.NewID()

	_, err := suite.members.Get(suite.ctx, id)

	suite.ErrorIs(err, ErrMemberNotFound)
	suite.Contains(err.Error(), id)
}

func (suite *ServiceTestSuite) TestCreateProject_UnknownTeamMember() {
	_, err := suite.projects.Create(suite.ctx, CreateProjectInput{Name: "Launch", TeamMemberIDs: []string{models.NewID()}})

	suite.ErrorIs(err, ErrInvalidTeamMember)
}

func (suite *ServiceTestSuite) TestCreateTask_Defaults() {
	project := suite.createProject("Launch")

	task := suite.createTask(project.ID, "  Build  ", 5)

	suite.Equal("Build", task.Name)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal(models.PriorityMedium, task.Priority)
	suite.Equal([]string{}, task.AssignedToIDs)
}

func (suite *ServiceTestSuite) TestCreateTask_ReferenceChecks() {
	project := suite.createProject("Launch")

	_, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{ProjectID: models.NewID(), Name: "x", EstimatedDurationHours: 1})
	suite.ErrorIs(err, ErrProjectNotFound)

	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{ProjectID: project.ID, Name: "x", EstimatedDurationHours: 1, AssignedToIDs: []string{models.NewID()}})
	suite.ErrorIs(err, ErrInvalidTaskAssignee)

	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{ProjectID: project.ID, Name: "x", EstimatedDurationHours: 1, DependencyIDs: []string{models.NewID()}})
	suite.ErrorIs(err, ErrInvalidTaskDependency)

	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{ProjectID: project.ID, Name: "x", EstimatedDurationHours: 0})
	var verr *validation.Error
	suite.True(errors.As(err, &verr))
}

func (suite *ServiceTestSuite) TestUpdateTask_SelfDependency() {
	project := suite.createProject("Launch")
	task := suite.createTask(project.ID, "Build", 5)
	deps := []string{task.ID}

	_, err := suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{DependencyIDs: &deps})

	suite.ErrorIs(err, ErrSelfDependency)
}

func (suite *ServiceTestSuite) TestUpdateTask_ClearDueDate() {
	project := suite.createProject("Launch")
	due := time.Now().Add(48 * time.Hour).UTC()
	task, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{ProjectID: project.ID, Name: "Build", EstimatedDurationHours: 5, DueDate: &due})
	suite.Require().NoError(err)
	suite.Require().NotNil(task.DueDate)

	status := string(models.TaskStatusInProgress)
	updated, err := suite.tasks.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{Status: &status, ClearDueDate: true})

	suite.Require().NoError(err)
	suite.Nil(updated.DueDate)
	suite.Equal(models.TaskStatusInProgress, updated.Status)

	reloaded, err := suite.tasks.GetTask(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Nil(reloaded.DueDate)
}

func (suite *ServiceTestSuite) TestAssignAndUnassignMembers() {
	alice := suite.createMember("alice")
	bob := suite.createMember("bob")
	project := suite.createProject("Launch")
	task := suite.createTask(project.ID, "Build", 5)

	assigned, err := suite.tasks.AssignMembers(suite.ctx, task.ID, []string{alice.ID, bob.ID, alice.ID})
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{alice.ID, bob.ID}, assigned.AssignedToIDs)

	remaining, err := suite.tasks.UnassignMembers(suite.ctx, task.ID, []string{alice.ID})
	suite.Require().NoError(err)
	suite.Equal([]string{bob.ID}, remaining.AssignedToIDs)

	_, err = suite.tasks.AssignMembers(suite.ctx, task.ID, nil)
	suite.ErrorIs(err, ErrNoMemberIDsProvided)

	_, err = suite.tasks.AssignMembers(suite.ctx, task.ID, []string{models.NewID()})
	suite.ErrorIs(err, ErrInvalidTaskAssignee)

	_, err = suite.tasks.AssignMembers(suite.ctx, task.ID, []string{"bad"})
	suite.ErrorIs(err, ErrInvalidID)
}

func (suite *ServiceTestSuite) TestListTasks_Filters() {
	alice := suite.createMember("alice")
	launch := suite.createProject("Launch")
	other := suite.createProject("Other")
	suite.createTask(launch.ID, "A", 1, alice.ID)
	suite.createTask(launch.ID, "B", 1)
	suite.createTask(other.ID, "C", 1, alice.ID)

	tasks, total, err := suite.tasks.ListTasks(suite.ctx, ListTasksInput{ProjectID: launch.ID})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(tasks, 2)

	_, total, err = suite.tasks.ListTasks(suite.ctx, ListTasksInput{AssignedTo: alice.ID})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)

	_, _, err = suite.tasks.ListTasks(suite.ctx, ListTasksInput{Status: "Blocked"})
	var verr *validation.Error
	suite.True(errors.As(err, &verr))
}

func (suite *ServiceTestSuite) TestDeleteTask_RemovesTimeLogs() {
	alice := suite.createMember("alice")
	project := suite.createProject("Launch")
	task := suite.createTask(project.ID, "Build", 5)
	log := suite.logTime(task.ID, alice.ID, 2)

	suite.Require().NoError(suite.tasks.DeleteTask(suite.ctx, task.ID))

	_, err := suite.timeLogs.Get(suite.ctx, log.ID)
	suite.ErrorIs(err, ErrTimeLogNotFound)
	suite.ErrorIs(suite.tasks.DeleteTask(suite.ctx, task.ID), ErrTaskNotFound)
}

func (suite *ServiceTestSuite) TestDraftTasks() {
	project := suite.createProject("Launch")
	suite.drafter.drafts = []DraftedTask{
		{Name: "Design schema", Priority: models.PriorityHigh, EstimatedDurationHours: 4},
		{Name: "", EstimatedDurationHours: 2},
		{Name: "Write docs", Priority: "Urgent", EstimatedDurationHours: 3},
		{Name: "Unestimated"},
	}

	drafts, err := suite.tasks.DraftTasks(suite.ctx, project.ID)

	suite.Require().NoError(err)
	suite.Require().Len(drafts, 2)
	suite.Equal(models.PriorityMedium, drafts[1].Priority)

	suite.drafter.drafts = []DraftedTask{{Name: ""}}
	_, err = suite.tasks.DraftTasks(suite.ctx, project.ID)
	suite.ErrorIs(err, ErrAINoValidTasks)

	_, err = suite.tasks.DraftTasks(suite.ctx, models.NewID())
	suite.ErrorIs(err, ErrProjectNotFound)

	unconfigured := NewTaskService(suite.store.Tasks, suite.store.Projects, suite.store.Members, nil)
	_, err = unconfigured.DraftTasks(suite.ctx, project.ID)
	suite.ErrorIs(err, ErrAIServiceNotConfigured)
}

func (suite *ServiceTestSuite) TestTimeLog_CRUD() {
	alice := suite.createMember("alice")
	project := suite.createProject("Launch")
	task := suite.createTask(project.ID, "Build", 5)

	_, err := suite.timeLogs.Create(suite.ctx, CreateTimeLogInput{TaskID: task.ID, MemberID: models.NewID(), HoursSpent: 1})
	suite.ErrorIs(err, ErrMemberNotFound)

	_, err = suite.timeLogs.Create(suite.ctx, CreateTimeLogInput{TaskID: task.ID, MemberID: alice.ID, HoursSpent: -1})
	var verr *validation.Error
	suite.True(errors.As(err, &verr))

	log := suite.logTime(task.ID, alice.ID, 2)
	suite.False(log.LogDate.IsZero())

	hours := 3.5
	updated, err := suite.timeLogs.Update(suite.ctx, log.ID, UpdateTimeLogInput{HoursSpent: &hours})
	suite.Require().NoError(err)
	suite.Equal(3.5, updated.HoursSpent)

	logs, total, err := suite.timeLogs.List(suite.ctx, ListTimeLogsInput{TaskID: task.ID})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Len(logs, 1)

	suite.Require().NoError(suite.timeLogs.Delete(suite.ctx, log.ID))
	suite.ErrorIs(suite.timeLogs.Delete(suite.ctx, log.ID), ErrTimeLogNotFound)
}

func (suite *ServiceTestSuite) TestAnalyticsOverStore() {
	alice := suite.createMember("alice")
	project := suite.createProject("Launch", alice.ID)
	build := suite.createTask(project.ID, "Build", 10, alice.ID)
	review := suite.createTask(project.ID, "Review", 15, alice.ID)
	for _, h := range []float64{3, 4, 5} {
		suite.logTime(build.ID, alice.ID, h)
	}
	done := string(models.TaskStatusDone)
	_, err := suite.tasks.UpdateTask(suite.ctx, review.ID, UpdateTaskInput{Status: &done})
	suite.Require().NoError(err)

	summary, err := suite.analysis.TaskTimeSummary(suite.ctx, build.ID)
	suite.Require().NoError(err)
	suite.Equal(BudgetOver, summary.Status)
	suite.InDelta(12.0, summary.TotalHoursSpent, 1e-9)

	workload, err := suite.analysis.MemberWorkload(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.Equal(1, workload.ActiveTasksCount)
	suite.InDelta(25.0, workload.UtilizationPercent, 1e-9)

	projectSummary, err := suite.analysis.ProjectSummary(suite.ctx, project.ID)
	suite.Require().NoError(err)
	suite.Equal(2, projectSummary.TotalTasks)
	suite.InDelta(50.0, projectSummary.CompletionPercent, 1e-9)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
