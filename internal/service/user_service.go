package service

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/haatos/resource-hub/internal/security"
	"github.com/haatos/resource-hub/internal/store"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

type UserWriter interface {
	CreateUser(context.Context, *store.User, string) (*store.User, error)
	UpdateUserProfile(context.Context, int64, string, string) error
	UpdateUserRole(context.Context, int64, store.Level, *int64) error
}

type UserReader interface {
	ReadUserByID(context.Context, int64) (*store.User, error)
	ReadUserByUsername(context.Context, string) (*store.User, error)
	ListUsersWithRoles(context.Context) ([]*store.UserWithRole, error)
	ListRoles(context.Context) ([]*store.Role, error)
	ListManagers(context.Context) ([]*store.User, error)
}

type UserStore interface {
	UserWriter
	UserReader
}

type AuthSessionStore interface {
	CreateAuthSession(context.Context, *store.AuthSession) error
	ReadAuthSession(context.Context, string) (*store.AuthSession, error)
	DeleteAuthSession(context.Context, string) error
	DeleteExpiredAuthSessions(context.Context, time.Time) (int64, error)
}

type UserServiceConfig struct {
	// DefaultPinName names the resource pinned for every new user.
	DefaultPinName string
	SessionExpires time.Duration
}

type UserService struct {
	userStore     UserStore
	sessionStore  AuthSessionStore
	hasher        security.PasswordHasher
	uuidGenerator UUIDGenerator
	config        UserServiceConfig
}

func NewUserService(
	userStore UserStore,
	sessionStore AuthSessionStore,
	hasher security.PasswordHasher,
	uuidGenerator UUIDGenerator,
	config UserServiceConfig,
) *UserService {
	return &UserService{
		userStore:     userStore,
		sessionStore:  sessionStore,
		hasher:        hasher,
		uuidGenerator: uuidGenerator,
		config:        config,
	}
}

type Registration struct {
	Username string
	Password string
	Email    string
	Phone    string
	Level    store.Level
}

func (r Registration) validate() error {
	if r.Username == "" || r.Password == "" || r.Email == "" || r.Level == "" || r.Phone == "" {
		return NewValidationError("Please fill in all required fields.")
	}
	if !r.Level.IsValid() {
		return NewValidationError("Please select a valid account level.")
	}
	return nil
}

// Register stores a new user and pins the default resource for them.
func (s *UserService) Register(ctx context.Context, r Registration) (*store.User, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return nil, errors.Join(ErrHashFailure, err)
	}

	u, err := s.userStore.CreateUser(ctx, &store.User{
		Username:     r.Username,
		PasswordHash: hash,
		Email:        r.Email,
		Phone:        r.Phone,
		Level:        r.Level,
	}, s.config.DefaultPinName)
	if err != nil {
		if store.IsUniqueConstraintError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Int64("user_id", u.UserID).
		Str("username", u.Username).
		Msg("user registered")
	return u, nil
}

// Login verifies the credentials and persists a session snapshot of the
// user's identity and privileges.
func (s *UserService) Login(
	ctx context.Context,
	username, password string,
) (*store.AuthSession, error) {
	u, err := s.userStore.ReadUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("read user: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Join(ErrHashFailure, err)
	}

	as := &store.AuthSession{
		AuthSessionID:      s.uuidGenerator.GenerateUUID(),
		AuthSessionUserID:  u.UserID,
		Username:           u.Username,
		Level:              u.Level,
		RoleID:             u.RoleID,
		AuthSessionExpires: time.Now().UTC().Add(s.config.SessionExpires),
	}
	if err := s.sessionStore.CreateAuthSession(ctx, as); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return as, nil
}

func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionStore.DeleteAuthSession(ctx, sessionID)
}

func (s *UserService) GetSession(
	ctx context.Context,
	sessionID string,
) (*store.AuthSession, error) {
	as, err := s.sessionStore.ReadAuthSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if as.IsExpired(time.Now().UTC()) {
		return nil, ErrSessionExpired
	}
	return as, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID int64) (*store.User, error) {
	u, err := s.userStore.ReadUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) UpdateProfile(
	ctx context.Context,
	userID int64,
	email, phone string,
) (*store.User, error) {
	if email == "" || phone == "" {
		return nil, NewValidationError("Please fill in all fields.")
	}
	if err := s.userStore.UpdateUserProfile(ctx, userID, email, phone); err != nil {
		if store.IsUniqueConstraintError(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return s.GetUserByID(ctx, userID)
}

func (s *UserService) ListUsersWithRoles(ctx context.Context) ([]*store.UserWithRole, error) {
	return s.userStore.ListUsersWithRoles(ctx)
}

func (s *UserService) ListRoles(ctx context.Context) ([]*store.Role, error) {
	return s.userStore.ListRoles(ctx)
}

// UpdateUserRole overwrites the level and role of any user. The caller is
// trusted; there is no self demotion or last manager check.
func (s *UserService) UpdateUserRole(
	ctx context.Context,
	userID int64,
	level store.Level,
	roleID *int64,
) error {
	if userID <= 0 || !level.IsValid() {
		return NewValidationError("User ID and a valid level are required")
	}
	if err := s.userStore.UpdateUserRole(ctx, userID, level, roleID); err != nil {
		if store.IsForeignKeyConstraintError(err) {
			return NewValidationError("Unknown role")
		}
		return err
	}
	return nil
}

func (s *UserService) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionStore.DeleteExpiredAuthSessions(ctx, time.Now().UTC())
}

// CreateManager creates a manager level user holding the manager role.
func (s *UserService) CreateManager(
	ctx context.Context,
	username, email, password string,
) (*store.User, error) {
	u, err := s.Register(ctx, Registration{
		Username: username,
		Password: password,
		Email:    email,
		Phone:    "-",
		Level:    store.LevelManager,
	})
	if err != nil {
		return nil, err
	}
	roleID := store.RoleManager
	if err := s.userStore.UpdateUserRole(ctx, u.UserID, store.LevelManager, &roleID); err != nil {
		return nil, err
	}
	u.Level = store.LevelManager
	u.RoleID = &roleID
	return u, nil
}

// InitializeManager prompts for the first manager account when none exists
// and stdin is a terminal.
func (s *UserService) InitializeManager(ctx context.Context) error {
	managers, err := s.userStore.ListManagers(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if len(managers) > 0 {
		return nil
	}

	stdin := int(os.Stdin.Fd())
	if !term.IsTerminal(stdin) {
		zerolog.Ctx(ctx).Warn().Msg("no manager account exists and stdin is not a terminal")
		return nil
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Create a manager account")
	fmt.Print("Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(stdin)
	fmt.Println()
	if err != nil {
		return err
	}

	u, err := s.CreateManager(
		ctx,
		strings.TrimSpace(username),
		strings.TrimSpace(email),
		string(passwordBytes),
	)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("username", u.Username).Msg("manager account created")
	return nil
}
