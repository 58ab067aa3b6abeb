package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/patch"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrFingerprintMismatch  = errors.New("fingerprint mismatch")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token is expired")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrSubtaskNotFound      = errors.New("subtask not found")
	ErrForbidden            = errors.New("you do not have permission to access this resource")
	ErrInvalidInput         = errors.New("invalid input")
)

const (
	minPasswordLength = 6
	maxTextLength     = 255
)

type AuthService interface {
	// Register creates a user with the given credentials and opens
	// a session for them.
	//
	// It returns ErrUserAlreadyExists if the email is taken.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Login authenticates the user by email and password.
	//
	// It deletes all sessions of the user, creates a new one and
	// issues a fresh token pair. It returns ErrUserNotFound if no user
	// has the email or ErrUserPasswordMismatch if the password is wrong.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh rotates the refresh token of a session.
	//
	// It returns ErrSessionNotFound if no session holds the token or
	// ErrSessionExpired if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// ReissueAccessToken re-reads the user and signs a new access token
	// for the same session, so profile changes show up in the claims.
	ReissueAccessToken(ctx context.Context, identity models.Identity) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// Authenticate verifies the access token and the session behind it.
	//
	// It returns ErrTokenExpired for a well-formed but expired token so
	// that callers can try a refresh.
	Authenticate(ctx context.Context, params AuthenticateParams) (*models.Identity, error)

	// PurgeExpiredSessions deletes sessions whose refresh token expired.
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type UserService interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// UpdateProfile returns ErrUserAlreadyExists if another user owns
	// the requested email. The record is left untouched in that case.
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error)

	// DeleteAccount removes the user and everything they own.
	DeleteAccount(ctx context.Context, userID string) error
}

type CategoryService interface {
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)
	CreateCategory(ctx context.Context, params CreateCategoryParams) (*models.Category, error)
	GetCategory(ctx context.Context, userID, categoryID string) (*models.Category, error)
	UpdateCategory(ctx context.Context, params UpdateCategoryParams) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

type TaskService interface {
	ListTasks(ctx context.Context, userID string) ([]*models.Task, error)
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error

	CreateSubtask(ctx context.Context, params CreateSubtaskParams) (*models.Subtask, error)
	UpdateSubtask(ctx context.Context, params UpdateSubtaskParams) (*models.Subtask, error)
	DeleteSubtask(ctx context.Context, userID, taskID, subtaskID string) error
}

type RegisterParams struct {
	Name        string
	Email       string
	Password    string
	Fingerprint string
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	User                 *models.User
	SessionID            string
	AccessToken          string
	AccessTokenExpiresAt time.Time
	// RefreshToken is empty when the session was not rotated.
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type AuthenticateParams struct {
	AccessToken string
	Fingerprint string
}

type UpdateProfileParams struct {
	UserID string
	Name   string
	Email  string
	Image  patch.Field[string]
	// Password is left unchanged when empty.
	Password string
}

type CreateCategoryParams struct {
	UserID string
	Name   string
	Color  string
}

type UpdateCategoryParams struct {
	UserID     string
	CategoryID string
	Name       patch.Field[string]
	Color      patch.Field[string]
}

type CreateTaskParams struct {
	UserID      string
	Title       string
	Description string
	Completed   bool
	Priority    string
	DueDate     string
	CategoryID  string
}

type UpdateTaskParams struct {
	UserID      string
	TaskID      string
	Title       patch.Field[string]
	Description patch.Field[string]
	Completed   patch.Field[bool]
	Priority    patch.Field[string]
	DueDate     patch.Field[string]
	CategoryID  patch.Field[string]
}

type CreateSubtaskParams struct {
	UserID string
	TaskID string
	Title  string
}

type UpdateSubtaskParams struct {
	UserID    string
	TaskID    string
	SubtaskID string
	Title     patch.Field[string]
	Completed patch.Field[bool]
}

func now() time.Time {
	return time.Now().UTC()
}

// requiredText trims s and checks that it is neither blank nor longer
// than maxTextLength characters.
func requiredText(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	case utf8.RuneCountInString(s) > maxTextLength:
		return "", fmt.Errorf("%w: %s must be at most %d characters long",
			ErrInvalidInput, field, maxTextLength)
	}
	return s, nil
}
