package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/models"
	"github.com/rohits-web03/innerself/internal/utils"
	"gorm.io/gorm"
)

const (
	MinPasswordLength = 6
	// bcrypt only looks at the first 72 bytes and rejects longer input.
	MaxPasswordLength = 72
)

// Hasher hashes new passwords and checks candidates against stored hashes.
type Hasher interface {
	models.PasswordHasher
	Verify(hash, candidate string) bool
}

type UserRepository struct {
	db     *gorm.DB
	hasher Hasher
}

func NewUserRepository(db *gorm.DB, hasher Hasher) *UserRepository {
	return &UserRepository{db: db, hasher: hasher}
}

type NewUser struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfilePatch holds the profile fields a client may change; nil means unchanged.
type ProfilePatch struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Create registers a user. Username and email are unique ignoring case.
func (r *UserRepository) Create(ctx context.Context, in NewUser) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	username := normalize(in.Username)
	email := normalize(in.Email)

	if name == "" || username == "" || email == "" || strings.TrimSpace(in.Password) == "" {
		return nil, apperr.Validation("All fields are required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperr.ValidationField("password", "Password must be at least 6 characters long")
	}
	if len(in.Password) > MaxPasswordLength {
		return nil, apperr.ValidationField("password", "Password must be at most 72 bytes long")
	}
	if err := r.ensureAvailable(ctx, uuid.Nil, username, email); err != nil {
		return nil, err
	}

	user := &models.User{Name: name, Username: username, Email: email}
	if err := user.SetPassword(r.hasher, in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// ensureAvailable checks email first, then username, ignoring the user itself.
func (r *UserRepository) ensureAvailable(ctx context.Context, self uuid.UUID, username, email string) error {
	if email != "" {
		taken, err := r.taken(ctx, self, "email", email)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("email", "User with this email already exists")
		}
	}
	if username != "" {
		taken, err := r.taken(ctx, self, "username", username)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("username", "User with this username already exists")
		}
	}
	return nil
}

func (r *UserRepository) taken(ctx context.Context, self uuid.UUID, column, value string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", value)
	if self != uuid.Nil {
		q = q.Where("id <> ?", self)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check %s: %w", column, err)
	}
	return count > 0, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findBy(ctx, "id", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findBy(ctx, "username", normalize(username))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(ctx, "email", normalize(email))
}

func (r *UserRepository) findBy(ctx context.Context, column string, value any) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case isNotFound(err):
		return nil, apperr.NotFound("User not found")
	default:
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}
}

// VerifyPassword compares a candidate with the user's stored hash.
func (r *UserRepository) VerifyPassword(user *models.User, candidate string) bool {
	return r.hasher.Verify(user.PasswordHash, candidate)
}

// Authenticate resolves a login. Unknown usernames and wrong passwords fail the same way.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if normalize(username) == "" || strings.TrimSpace(password) == "" {
		return nil, apperr.Validation("Username and password are required")
	}

	user, err := r.FindByUsername(ctx, username)
	if err != nil {
		if apperr.GetCode(err) == apperr.CodeNotFound {
			return nil, apperr.Auth("Invalid username or password")
		}
		return nil, err
	}
	if !r.VerifyPassword(user, password) {
		return nil, apperr.Auth("Invalid username or password")
	}
	return user, nil
}

// UpdateProfile applies the provided fields. The password is never touched here.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*models.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	var username, email string
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperr.ValidationField("name", "Name cannot be empty")
		}
		updates["name"] = name
	}
	if patch.Username != nil {
		if username = normalize(*patch.Username); username == "" {
			return nil, apperr.ValidationField("username", "Username cannot be empty")
		}
		updates["username"] = username
	}
	if patch.Email != nil {
		if email = normalize(*patch.Email); email == "" {
			return nil, apperr.ValidationField("email", "Email cannot be empty")
		}
		updates["email"] = email
	}
	if patch.Bio != nil {
		updates["bio"] = strings.TrimSpace(*patch.Bio)
	}
	if patch.Avatar != nil && *patch.Avatar != "" {
		updates["avatar"] = *patch.Avatar
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := r.ensureAvailable(ctx, user.ID, username, email); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return r.FindByID(ctx, id)
}

// ChangePassword re-hashes only after the current password checks out.
func (r *UserRepository) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	if current == "" || next == "" {
		return apperr.Validation("Current password and new password are required")
	}
	if len(next) < MinPasswordLength {
		return apperr.ValidationField("newPassword", "New password must be at least 6 characters long")
	}
	if len(next) > MaxPasswordLength {
		return apperr.ValidationField("newPassword", "New password must be at most 72 bytes long")
	}

	user, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !r.VerifyPassword(user, current) {
		return apperr.ValidationField("currentPassword", "Current password is incorrect")
	}
	if err := user.SetPassword(r.hasher, next); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(user).Update("password", user.PasswordHash).Error; err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// FindOrCreateExternal returns the user owning email, creating one for a
// first sign-in through an external provider. The generated password is
// random and never disclosed, so such accounts log in through the provider
// until they set a password of their own.
func (r *UserRepository) FindOrCreateExternal(ctx context.Context, name, email string) (*models.User, bool, error) {
	email = normalize(email)
	if email == "" {
		return nil, false, apperr.ValidationField("email", "Email is required")
	}
	user, err := r.FindByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if apperr.GetCode(err) != apperr.CodeNotFound {
		return nil, false, err
	}

	username, err := r.freeUsername(ctx, strings.SplitN(email, "@", 2)[0])
	if err != nil {
		return nil, false, err
	}
	secret, err := utils.GeneratePassword()
	if err != nil {
		return nil, false, fmt.Errorf("generate password: %w", err)
	}
	if strings.TrimSpace(name) == "" {
		name = username
	}
	user, err = r.Create(ctx, NewUser{Name: name, Username: username, Email: email, Password: secret})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (r *UserRepository) freeUsername(ctx context.Context, base string) (string, error) {
	base = normalize(base)
	if base == "" {
		base = "user"
	}
	candidate := base
	for range 5 {
		taken, err := r.taken(ctx, uuid.Nil, "username", candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + uuid.NewString()[:6]
	}
	return "", apperr.Conflict("username", "Could not allocate a username")
}
