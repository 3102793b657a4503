package user

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/wasilisha/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
)

var AllRoles = []string{RoleStudent, RoleFaculty}

// LoginDisplayLimit caps how many login log entries are surfaced for display.
const LoginDisplayLimit = 50

type User struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password"` // stored credential; see ParseCredential
	Role     string `json:"role" db:"role"`
}

func (u *User) SetPassword(pwd string) error {
	cred, err := HashPassword(pwd)
	if err != nil {
		return err
	}
	u.Password = cred.String()
	return nil
}

func (u *User) Credential() Credential {
	return ParseCredential(u.Password)
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }

func (u *User) IsFaculty() bool { return u.Role == RoleFaculty }

// Credential is a stored password credential: either a bcrypt hash or a
// legacy plain-text password awaiting upgrade on the next successful login.
type Credential interface {
	Check(pwd string) bool
	NeedsUpgrade() bool
	String() string
}

type HashedCredential string

func (c HashedCredential) Check(pwd string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c), []byte(pwd)) == nil
}

func (c HashedCredential) NeedsUpgrade() bool { return false }

func (c HashedCredential) String() string { return string(c) }

type LegacyCredential string

func (c LegacyCredential) Check(pwd string) bool {
	return subtle.ConstantTimeCompare([]byte(c), []byte(pwd)) == 1
}

func (c LegacyCredential) NeedsUpgrade() bool { return true }

func (c LegacyCredential) String() string { return string(c) }

// ParseCredential tags a stored credential. bcrypt hashes carry the "$2"
// version prefix; anything else is a legacy plain-text row.
func ParseCredential(stored string) Credential {
	if strings.HasPrefix(stored, "$2") {
		return HashedCredential(stored)
	}
	return LegacyCredential(stored)
}

func HashPassword(pwd string) (HashedCredential, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return HashedCredential(hash), nil
}

// NewUser contains information needed to register a new student User.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (nu *NewUser) Validate() error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Password = core.CleanString(nu.Password)
	return core.Validate.Struct(nu)
}

// Login carries the credentials and claimed role supplied at login time.
type Login struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=student faculty"`
}

func (l *Login) Validate() error {
	l.Email = core.CleanString(l.Email, true /* lower */)
	l.Password = core.CleanString(l.Password)
	l.Role = core.CleanString(l.Role)
	return core.Validate.Struct(l)
}

// LoginLog is an immutable record of a successful login.
type LoginLog struct {
	ID        int    `json:"id" db:"id"`
	UserID    int    `json:"user_id" db:"user_id"`
	LoginTime string `json:"login_time" db:"login_time"`
}

// LoginEntry is a LoginLog joined with its User for display.
type LoginEntry struct {
	Name      string `json:"name" db:"name"`
	Email     string `json:"email" db:"email"`
	Role      string `json:"role" db:"role"`
	LoginTime string `json:"login_time" db:"login_time"`
}
