package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"dossierportal-backend/auth"
	"dossierportal-backend/forms"
	"dossierportal-backend/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// dummyHash is compared against when the email is unknown so that failed
// logins take the same time either way
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3Mgd9d8dDdf6f.9uKfa2Gyu"

// UserService handles accounts, authentication and roles
type UserService struct {
	userRepo  UserRepository
	tokens    *auth.TokenManager
	directory *UserDirectory
	logger    *slog.Logger
	now       func() time.Time
}

// UserServiceOption is a functional option for UserService
type UserServiceOption func(*UserService)

// WithUserRepository sets the user repository
func WithUserRepository(repo UserRepository) UserServiceOption {
	return func(s *UserService) {
		s.userRepo = repo
	}
}

// WithTokenManager sets the session token manager
func WithTokenManager(tm *auth.TokenManager) UserServiceOption {
	return func(s *UserService) {
		s.tokens = tm
	}
}

// UserWithDirectory sets the display name cache to invalidate on profile changes
func UserWithDirectory(d *UserDirectory) UserServiceOption {
	return func(s *UserService) {
		s.directory = d
	}
}

// UserWithLogger sets the logger
func UserWithLogger(logger *slog.Logger) UserServiceOption {
	return func(s *UserService) {
		s.logger = logger
	}
}

// NewUserService creates a new user service
func NewUserService(opts ...UserServiceOption) *UserService {
	s := &UserService{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserService) ready() error {
	if s.userRepo == nil {
		return errors.New("user repository not set")
	}
	return nil
}

func (s *UserService) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func requireAdmin(actor auth.Principal) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Role != models.RoleAdmin {
		return forbidden("administrator role required")
	}
	return nil
}

// UserInput holds the profile fields of an account
type UserInput struct {
	Nom       string  `json:"nom"`
	Prenom    string  `json:"prenom"`
	Email     string  `json:"email"`
	Telephone *string `json:"telephone"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
}

func (in *UserInput) normalize() {
	in.Nom = strings.TrimSpace(in.Nom)
	in.Prenom = strings.TrimSpace(in.Prenom)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Telephone = trimOptional(in.Telephone)
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
}

func (in UserInput) validate(withPassword, withRole bool) error {
	roles := make([]interface{}, len(models.Roles))
	for i, r := range models.Roles {
		roles[i] = string(r)
	}

	return validation.ValidateStruct(&in,
		validation.Field(&in.Nom, validation.Required, validation.RuneLength(1, 120)),
		validation.Field(&in.Prenom, validation.Required, validation.RuneLength(1, 120)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat, validation.RuneLength(0, 255)),
		validation.Field(&in.Telephone, validation.Match(forms.PhonePattern).Error("must be a valid phone number")),
		validation.Field(&in.Password, validation.When(withPassword,
			validation.Required, validation.RuneLength(auth.MinPasswordLength, 128))),
		validation.Field(&in.Role, validation.When(withRole, validation.Required, validation.In(roles...))),
	)
}

// RegisterRequest represents a self-registration
type RegisterRequest struct {
	Input UserInput
}

// UserResult carries one user
type UserResult struct {
	User *models.User
}

// Register creates a PARENT account
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*UserResult, error) {
	in := req.Input
	in.Role = string(models.RoleParent)
	return s.create(ctx, in)
}

// CreateUserRequest represents an account created by an administrator
type CreateUserRequest struct {
	Actor auth.Principal
	Input UserInput
}

// CreateUser creates an account with any role
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResult, error) {
	if err := requireAdmin(req.Actor); err != nil {
		return nil, err
	}
	in := req.Input
	if strings.TrimSpace(in.Role) == "" {
		in.Role = string(models.RoleParent)
	}
	return s.create(ctx, in)
}

func (s *UserService) create(ctx context.Context, in UserInput) (*UserResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	in.normalize()
	if err := fromValidation(in.validate(true, true)); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return nil, &ConflictError{Message: "email already in use"}
	} else if err := fromRepository("get user", "user", err); !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	u := &models.User{
		ID:           uuid.New(),
		Nom:          in.Nom,
		Prenom:       in.Prenom,
		Email:        in.Email,
		PasswordHash: hash,
		Telephone:    in.Telephone,
		Role:         models.Role(in.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, emailConflict(fromRepository("create user", "user", err))
	}

	s.logger.InfoContext(ctx, "user created",
		slog.String("user_id", u.ID.String()),
		slog.String("role", string(u.Role)),
	)

	return &UserResult{User: u}, nil
}

// emailConflict rewords a unique violation on users, which can only be the email
func emailConflict(err error) error {
	if errors.Is(err, ErrConflict) {
		return &ConflictError{Message: "email already in use"}
	}
	return err
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResult carries the user and the signed session token
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Login checks the credentials and issues a session token
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if s.tokens == nil {
		return nil, errors.New("token manager not set")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, &ValidationError{
			Message: "email and password are required",
			Fields:  map[string]string{"email": "cannot be blank", "password": "cannot be blank"},
		}
	}

	failed := &UnauthorizedError{Message: "invalid email or password"}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if err := fromRepository("get user", "user", err); !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		_ = auth.CheckPassword(dummyHash, req.Password)
		return nil, failed
	}

	if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		return nil, failed
	}

	token, expires, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: u, Token: token, ExpiresAt: expires}, nil
}

// GetUser returns the account of id. Non-admins may only read their own.
func (s *UserService) GetUser(ctx context.Context, actor auth.Principal, id uuid.UUID) (*UserResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if actor.UserID != id && actor.Role != models.RoleAdmin {
		return nil, notFound("user")
	}

	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepository("get user", "user", err)
	}
	return &UserResult{User: u}, nil
}

// UpdateProfileRequest represents a profile change
type UpdateProfileRequest struct {
	Actor     auth.Principal
	UserID    uuid.UUID
	Nom       *string
	Prenom    *string
	Email     *string
	Telephone *string
}

// UpdateProfile changes the name, email or phone of an account. Callers may
// edit themselves; administrators may edit anyone.
func (s *UserService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireActor(req.Actor); err != nil {
		return nil, err
	}
	if req.Actor.UserID != req.UserID && req.Actor.Role != models.RoleAdmin {
		return nil, forbidden("you can only edit your own profile")
	}

	u, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fromRepository("get user", "user", err)
	}

	in := UserInput{Nom: u.Nom, Prenom: u.Prenom, Email: u.Email, Telephone: u.Telephone}
	if req.Nom != nil {
		in.Nom = *req.Nom
	}
	if req.Prenom != nil {
		in.Prenom = *req.Prenom
	}
	if req.Email != nil {
		in.Email = *req.Email
	}
	if req.Telephone != nil {
		in.Telephone = req.Telephone
	}
	in.normalize()
	if err := fromValidation(in.validate(false, false)); err != nil {
		return nil, err
	}

	if in.Email != u.Email {
		existing, err := s.userRepo.GetByEmail(ctx, in.Email)
		if err == nil && existing.ID != u.ID {
			return nil, &ConflictError{Message: "email already in use"}
		}
		if err != nil {
			if err := fromRepository("get user", "user", err); !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}
	}

	u.Nom, u.Prenom, u.Email, u.Telephone = in.Nom, in.Prenom, in.Email, in.Telephone
	u.UpdatedAt = s.clock()
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, emailConflict(fromRepository("update user", "user", err))
	}

	if s.directory != nil {
		s.directory.Invalidate(u.ID)
	}

	return &UserResult{User: u}, nil
}

// ChangeRoleRequest represents a role change by an administrator
type ChangeRoleRequest struct {
	Actor  auth.Principal
	UserID uuid.UUID
	Role   string
}

// ChangeRole assigns a new role. Administrators cannot change their own role.
func (s *UserService) ChangeRole(ctx context.Context, req ChangeRoleRequest) (*UserResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireAdmin(req.Actor); err != nil {
		return nil, err
	}

	role := models.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		return nil, invalid("role", "must be one of ADMIN, STAFF, PARENT, ANALYSTE")
	}
	if req.UserID == req.Actor.UserID {
		return nil, forbidden("administrators cannot change their own role")
	}

	u, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fromRepository("get user", "user", err)
	}

	previous := u.Role
	u.Role = role
	u.UpdatedAt = s.clock()
	if err := s.userRepo.UpdateRole(ctx, u); err != nil {
		return nil, fromRepository("update role", "user", err)
	}

	s.logger.InfoContext(ctx, "user role changed",
		slog.String("user_id", u.ID.String()),
		slog.String("from", string(previous)),
		slog.String("to", string(role)),
		slog.String("by", req.Actor.UserID.String()),
	)

	return &UserResult{User: u}, nil
}

// ListUsersRequest represents a user search
type ListUsersRequest struct {
	Actor  auth.Principal
	Filter models.UserFilter
}

// ListUsersResult carries matching users
type ListUsersResult struct {
	Users []*models.User
}

// ListUsers searches users by name or email and optionally by role
func (s *UserService) ListUsers(ctx context.Context, req ListUsersRequest) (*ListUsersResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireAdmin(req.Actor); err != nil {
		return nil, err
	}
	if req.Filter.Role != nil && !req.Filter.Role.Valid() {
		return nil, invalid("role", "unknown role")
	}

	users, err := s.userRepo.List(ctx, req.Filter)
	if err != nil {
		return nil, fromRepository("list users", "user", err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return &ListUsersResult{Users: users}, nil
}

// UserStatsResult holds user counts
type UserStatsResult struct {
	Total   int                 `json:"total"`
	ParRole map[models.Role]int `json:"parRole"`
}

// UserStats counts users per role. Every role is present.
func (s *UserService) UserStats(ctx context.Context, actor auth.Principal) (*UserStatsResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	counts, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, fromRepository("count users", "user", err)
	}

	res := &UserStatsResult{ParRole: make(map[models.Role]int, len(models.Roles))}
	for _, r := range models.Roles {
		res.ParRole[r] = 0
	}
	for _, c := range counts {
		res.ParRole[c.Role] = c.Count
		res.Total += c.Count
	}
	return res, nil
}
