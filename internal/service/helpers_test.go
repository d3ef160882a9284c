package service_test

import (
	"context"
	"testing"

	"github.com/phrazzld/task-manager-api/internal/domain"
	"github.com/phrazzld/task-manager-api/internal/mocks"
	"github.com/phrazzld/task-manager-api/internal/platform/logger"
	"github.com/phrazzld/task-manager-api/internal/service"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	jpegBytes = append([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), make([]byte, 64)...)
)

type userFixture struct {
	users   *mocks.MockUserStore
	tasks   *mocks.MockTaskStore
	tx      *mocks.MockTxManager
	jwt     *mocks.MockJWTService
	hasher  *mocks.MockPasswordHasher
	emitter *mocks.RecordingEmitter
	logs    *logger.TestLogBuffer
	svc     service.UserService
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	log, buf := logger.GetTestLogger(t)
	f := &userFixture{
		users:   mocks.NewMockUserStore(),
		tasks:   mocks.NewMockTaskStore(),
		tx:      &mocks.MockTxManager{},
		jwt:     &mocks.MockJWTService{},
		hasher:  &mocks.MockPasswordHasher{},
		emitter: &mocks.RecordingEmitter{},
		logs:    buf,
	}

	svc, err := service.NewUserService(f.users, f.tasks, f.tx, f.jwt, f.hasher, f.emitter, log)
	require.NoError(t, err)
	f.svc = svc
	return f
}

// signup registers Tony Stark and returns the result.
func (f *userFixture) signup(t *testing.T) *service.AuthResult {
	t.Helper()

	res, err := f.svc.Signup(context.Background(), service.SignupInput{
		Name:     "Tony Stark",
		Email:    "tony@starkindustries.us",
		Password: "ilovepepper",
	})
	require.NoError(t, err)
	return res
}

func newTaskService(t *testing.T) (service.TaskService, *mocks.MockTaskStore) {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	tasks := mocks.NewMockTaskStore()
	svc, err := service.NewTaskService(tasks, &mocks.MockTxManager{}, log)
	require.NoError(t, err)
	return svc, tasks
}

func mustTask(t *testing.T, owner *domain.User, description string, completed bool) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(owner.ID, description, completed)
	require.NoError(t, err)
	return task
}
