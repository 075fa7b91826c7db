package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/haatos/resource-hub/internal/security"
	"github.com/haatos/resource-hub/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

const testUserPassword string = "testpassword"
const testSessionID string = "2b1d6f0e-5a7c-4c57-9a59-0d8c1d0b9f11"

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(
	ctx context.Context,
	u *store.User,
	defaultPinName string,
) (*store.User, error) {
	args := m.Called(ctx, u, defaultPinName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserStore) ReadUserByID(ctx context.Context, userID int64) (*store.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserStore) ReadUserByUsername(
	ctx context.Context,
	username string,
) (*store.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.User), args.Error(1)
}

func (m *MockUserStore) UpdateUserProfile(
	ctx context.Context,
	userID int64,
	email, phone string,
) error {
	args := m.Called(ctx, userID, email, phone)
	return args.Error(0)
}

func (m *MockUserStore) UpdateUserRole(
	ctx context.Context,
	userID int64,
	level store.Level,
	roleID *int64,
) error {
	args := m.Called(ctx, userID, level, roleID)
	return args.Error(0)
}

func (m *MockUserStore) ListUsersWithRoles(ctx context.Context) ([]*store.UserWithRole, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*store.UserWithRole), args.Error(1)
}

func (m *MockUserStore) ListRoles(ctx context.Context) ([]*store.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*store.Role), args.Error(1)
}

func (m *MockUserStore) ListManagers(ctx context.Context) ([]*store.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*store.User), args.Error(1)
}

type MockAuthSessionStore struct {
	mock.Mock
}

func (m *MockAuthSessionStore) CreateAuthSession(
	ctx context.Context,
	as *store.AuthSession,
) error {
	args := m.Called(ctx, as)
	return args.Error(0)
}

func (m *MockAuthSessionStore) ReadAuthSession(
	ctx context.Context,
	sessionID string,
) (*store.AuthSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.AuthSession), args.Error(1)
}

func (m *MockAuthSessionStore) DeleteAuthSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockAuthSessionStore) DeleteExpiredAuthSessions(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockUUIDGen struct {
	mock.Mock
}

func (m *MockUUIDGen) GenerateUUID() string {
	args := m.Called()
	return args.String(0)
}

func newTestUserService(
	userStore *MockUserStore,
	sessionStore *MockAuthSessionStore,
	uuidGen UUIDGenerator,
) *UserService {
	return NewUserService(
		userStore,
		sessionStore,
		security.NewBcryptHasher(bcrypt.MinCost),
		uuidGen,
		UserServiceConfig{
			DefaultPinName: "988 Suicide & Crisis Lifeline",
			SessionExpires: time.Hour,
		},
	)
}

func generateUser(level store.Level, roleID int64) *store.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(testUserPassword), bcrypt.MinCost)
	return &store.User{
		UserID:       42,
		Username:     "testuser",
		PasswordHash: string(hash),
		Email:        "testuser@example.com",
		Phone:        "555-0100",
		Level:        level,
		RoleID:       &roleID,
	}
}

func TestUserService_Register(t *testing.T) {
	registration := Registration{
		Username: "newuser",
		Password: testUserPassword,
		Email:    "newuser@example.com",
		Phone:    "555-0100",
		Level:    store.LevelUser,
	}

	t.Run("success - password is hashed and default pin requested", func(t *testing.T) {
		// arrange
		mockStore := new(MockUserStore)
		var stored *store.User
		mockStore.On(
			"CreateUser",
			context.Background(),
			mock.MatchedBy(func(u *store.User) bool {
				stored = u
				return u.Username == registration.Username && u.Level == store.LevelUser
			}),
			"988 Suicide & Crisis Lifeline",
		).Return(&store.User{UserID: 7, Username: registration.Username}, nil)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		u, err := userService.Register(context.Background(), registration)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, int64(7), u.UserID)
		assert.NotEqual(t, testUserPassword, stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(stored.PasswordHash),
			[]byte(testUserPassword),
		))
		mockStore.AssertExpectations(t)
	})
	t.Run("failure - missing field", func(t *testing.T) {
		// arrange
		mockStore := new(MockUserStore)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())
		missingPhone := registration
		missingPhone.Phone = ""

		// act
		u, err := userService.Register(context.Background(), missingPhone)

		// assert
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "Please fill in all required fields.", ve.Message)
		assert.Nil(t, u)
		mockStore.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("failure - invalid level", func(t *testing.T) {
		// arrange
		userService := newTestUserService(new(MockUserStore), new(MockAuthSessionStore), NewUUIDGen())
		badLevel := registration
		badLevel.Level = store.Level("X")

		// act
		_, err := userService.Register(context.Background(), badLevel)

		// assert
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})
	t.Run("failure - username taken", func(t *testing.T) {
		// arrange
		mockStore := new(MockUserStore)
		mockStore.On("CreateUser", context.Background(), mock.Anything, mock.Anything).
			Return(nil, &pgconn.PgError{Code: "23505"})
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		u, err := userService.Register(context.Background(), registration)

		// assert
		assert.ErrorIs(t, err, ErrConflict)
		assert.Nil(t, u)
	})
	t.Run("failure - database error", func(t *testing.T) {
		// arrange
		dbErr := errors.New("connection refused")
		mockStore := new(MockUserStore)
		mockStore.On("CreateUser", context.Background(), mock.Anything, mock.Anything).
			Return(nil, dbErr)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		_, err := userService.Register(context.Background(), registration)

		// assert
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, ErrConflict)
	})
}

func TestUserService_Login(t *testing.T) {
	t.Run("success - session snapshot is stored", func(t *testing.T) {
		// arrange
		expectedUser := generateUser(store.LevelManager, store.RoleManager)
		mockStore := new(MockUserStore)
		mockStore.On("ReadUserByUsername", context.Background(), expectedUser.Username).
			Return(expectedUser, nil)
		mockSessions := new(MockAuthSessionStore)
		mockSessions.On(
			"CreateAuthSession",
			context.Background(),
			mock.MatchedBy(func(as *store.AuthSession) bool {
				return as.AuthSessionID == testSessionID &&
					as.AuthSessionUserID == expectedUser.UserID &&
					as.Username == expectedUser.Username &&
					as.Level == store.LevelManager &&
					*as.RoleID == store.RoleManager
			}),
		).Return(nil)
		mockUUID := new(MockUUIDGen)
		mockUUID.On("GenerateUUID").Return(testSessionID)
		userService := newTestUserService(mockStore, mockSessions, mockUUID)

		// act
		as, err := userService.Login(context.Background(), expectedUser.Username, testUserPassword)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, testSessionID, as.AuthSessionID)
		assert.True(t, as.IsManagerOnly())
		assert.True(t, as.AuthSessionExpires.After(time.Now().UTC()))
		mockSessions.AssertExpectations(t)
	})
	t.Run("failure - unknown username", func(t *testing.T) {
		// arrange
		mockStore := new(MockUserStore)
		mockStore.On("ReadUserByUsername", context.Background(), "ghost").
			Return(nil, sql.ErrNoRows)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		as, err := userService.Login(context.Background(), "ghost", testUserPassword)

		// assert
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, as)
	})
	t.Run("failure - wrong password", func(t *testing.T) {
		// arrange
		expectedUser := generateUser(store.LevelUser, store.RoleUser)
		mockStore := new(MockUserStore)
		mockStore.On("ReadUserByUsername", context.Background(), expectedUser.Username).
			Return(expectedUser, nil)
		mockSessions := new(MockAuthSessionStore)
		userService := newTestUserService(mockStore, mockSessions, NewUUIDGen())

		// act
		as, err := userService.Login(context.Background(), expectedUser.Username, "wrongpassword")

		// assert
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, as)
		mockSessions.AssertNotCalled(t, "CreateAuthSession", mock.Anything, mock.Anything)
	})
	t.Run("failure - malformed stored hash", func(t *testing.T) {
		// arrange
		expectedUser := generateUser(store.LevelUser, store.RoleUser)
		expectedUser.PasswordHash = "not-a-bcrypt-hash"
		mockStore := new(MockUserStore)
		mockStore.On("ReadUserByUsername", context.Background(), expectedUser.Username).
			Return(expectedUser, nil)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		as, err := userService.Login(context.Background(), expectedUser.Username, testUserPassword)

		// assert
		assert.ErrorIs(t, err, ErrHashFailure)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, as)
	})
	t.Run("failure - database error", func(t *testing.T) {
		// arrange
		dbErr := errors.New("connection reset")
		mockStore := new(MockUserStore)
		mockStore.On("ReadUserByUsername", context.Background(), "someone").Return(nil, dbErr)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		_, err := userService.Login(context.Background(), "someone", testUserPassword)

		// assert
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_GetSession(t *testing.T) {
	t.Run("success - active session", func(t *testing.T) {
		// arrange
		mockSessions := new(MockAuthSessionStore)
		mockSessions.On("ReadAuthSession", context.Background(), testSessionID).
			Return(&store.AuthSession{
				AuthSessionID:      testSessionID,
				AuthSessionExpires: time.Now().UTC().Add(time.Minute),
			}, nil)
		userService := newTestUserService(new(MockUserStore), mockSessions, NewUUIDGen())

		// act
		as, err := userService.GetSession(context.Background(), testSessionID)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, testSessionID, as.AuthSessionID)
	})
	t.Run("failure - expired session", func(t *testing.T) {
		// arrange
		mockSessions := new(MockAuthSessionStore)
		mockSessions.On("ReadAuthSession", context.Background(), testSessionID).
			Return(&store.AuthSession{
				AuthSessionID:      testSessionID,
				AuthSessionExpires: time.Now().UTC().Add(-time.Minute),
			}, nil)
		userService := newTestUserService(new(MockUserStore), mockSessions, NewUUIDGen())

		// act
		as, err := userService.GetSession(context.Background(), testSessionID)

		// assert
		assert.ErrorIs(t, err, ErrSessionExpired)
		assert.Nil(t, as)
	})
	t.Run("failure - session not found", func(t *testing.T) {
		// arrange
		mockSessions := new(MockAuthSessionStore)
		mockSessions.On("ReadAuthSession", context.Background(), testSessionID).
			Return(nil, sql.ErrNoRows)
		userService := newTestUserService(new(MockUserStore), mockSessions, NewUUIDGen())

		// act
		_, err := userService.GetSession(context.Background(), testSessionID)

		// assert
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestUserService_Logout(t *testing.T) {
	t.Run("success - session is deleted", func(t *testing.T) {
		// arrange
		mockSessions := new(MockAuthSessionStore)
		mockSessions.On("DeleteAuthSession", context.Background(), testSessionID).Return(nil)
		userService := newTestUserService(new(MockUserStore), mockSessions, NewUUIDGen())

		// act
		err := userService.Logout(context.Background(), testSessionID)

		// assert
		assert.NoError(t, err)
		mockSessions.AssertExpectations(t)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	t.Run("success - user is found", func(t *testing.T) {
		// arrange
		expectedUser := generateUser(store.LevelUser, store.RoleUser)
		mockStore := new(MockUserStore)
		mockStore.On("ReadUserByID", context.Background(), expectedUser.UserID).
			Return(expectedUser, nil)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		u, err := userService.GetUserByID(context.Background(), expectedUser.UserID)

		// assert
		assert.NoError(t, err)
		assert.Equal(t, expectedUser.Username, u.Username)
	})
	t.Run("failure - user vanished", func(t *testing.T) {
		// arrange
		mockStore := new(MockUserStore)
		mockStore.On("ReadUserByID", context.Background(), int64(99)).Return(nil, sql.ErrNoRows)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		u, err := userService.GetUserByID(context.Background(), 99)

		// assert
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, u)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("success - profile is updated", func(t *testing.T) {
		// arrange
		expectedUser := generateUser(store.LevelUser, store.RoleUser)
		mockStore := new(MockUserStore)
		mockStore.On(
			"UpdateUserProfile",
			context.Background(),
			expectedUser.UserID,
			"new@example.com",
			"555-0199",
		).Return(nil)
		mockStore.On("ReadUserByID", context.Background(), expectedUser.UserID).
			Return(expectedUser, nil)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		u, err := userService.UpdateProfile(
			context.Background(),
			expectedUser.UserID,
			"new@example.com",
			"555-0199",
		)

		// assert
		assert.NoError(t, err)
		assert.NotNil(t, u)
		mockStore.AssertExpectations(t)
	})
	t.Run("failure - empty field", func(t *testing.T) {
		// arrange
		mockStore := new(MockUserStore)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		_, err := userService.UpdateProfile(context.Background(), 1, "", "555-0199")

		// assert
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "Please fill in all fields.", ve.Message)
		mockStore.AssertNotCalled(
			t, "UpdateUserProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		)
	})
}

func TestUserService_UpdateUserRole(t *testing.T) {
	t.Run("success - role is updated", func(t *testing.T) {
		// arrange
		roleID := store.RoleAdmin
		mockStore := new(MockUserStore)
		mockStore.On("UpdateUserRole", context.Background(), int64(5), store.LevelManager, &roleID).
			Return(nil)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		err := userService.UpdateUserRole(context.Background(), 5, store.LevelManager, &roleID)

		// assert
		assert.NoError(t, err)
		mockStore.AssertExpectations(t)
	})
	t.Run("failure - invalid level", func(t *testing.T) {
		// arrange
		userService := newTestUserService(new(MockUserStore), new(MockAuthSessionStore), NewUUIDGen())

		// act
		err := userService.UpdateUserRole(context.Background(), 5, store.Level("Z"), nil)

		// assert
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestUserService_CreateManager(t *testing.T) {
	t.Run("success - manager level and manager role", func(t *testing.T) {
		// arrange
		roleID := store.RoleManager
		mockStore := new(MockUserStore)
		mockStore.On("CreateUser", context.Background(), mock.Anything, mock.Anything).
			Return(&store.User{UserID: 3, Username: "boss", Level: store.LevelManager}, nil)
		mockStore.On("UpdateUserRole", context.Background(), int64(3), store.LevelManager, &roleID).
			Return(nil)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		u, err := userService.CreateManager(
			context.Background(), "boss", "boss@example.com", testUserPassword,
		)

		// assert
		assert.NoError(t, err)
		assert.True(t, u.IsManagerOnly())
		mockStore.AssertExpectations(t)
	})
}

func TestUserService_DeleteExpiredSessions(t *testing.T) {
	t.Run("success - expired sessions are removed", func(t *testing.T) {
		// arrange
		mockSessions := new(MockAuthSessionStore)
		mockSessions.On("DeleteExpiredAuthSessions", context.Background(), mock.AnythingOfType("time.Time")).
			Return(int64(3), nil)
		userService := newTestUserService(new(MockUserStore), mockSessions, NewUUIDGen())

		// act
		n, err := userService.DeleteExpiredSessions(context.Background())

		// assert
		assert.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

func TestUserService_InitializeManager(t *testing.T) {
	t.Run("success - existing manager skips the prompt", func(t *testing.T) {
		// arrange
		mockStore := new(MockUserStore)
		mockStore.On("ListManagers", context.Background()).
			Return([]*store.User{{UserID: 1, Level: store.LevelManager}}, nil)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		err := userService.InitializeManager(context.Background())

		// assert
		assert.NoError(t, err)
		mockStore.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("success - no terminal leaves the database untouched", func(t *testing.T) {
		// arrange
		mockStore := new(MockUserStore)
		mockStore.On("ListManagers", context.Background()).Return([]*store.User{}, nil)
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		err := userService.InitializeManager(context.Background())

		// assert
		assert.NoError(t, err)
		mockStore.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("failure - store error", func(t *testing.T) {
		// arrange
		mockStore := new(MockUserStore)
		mockStore.On("ListManagers", context.Background()).
			Return([]*store.User{}, errors.New("db down"))
		userService := newTestUserService(mockStore, new(MockAuthSessionStore), NewUUIDGen())

		// act
		err := userService.InitializeManager(context.Background())

		// assert
		assert.Error(t, err)
	})
}
