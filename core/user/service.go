package user

import (
	"errors"
	"fmt"
	"net/mail"

	"github.com/trezcool/wasilisha/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials or wrong role selected")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string) error
		CreateUser(usr User) (User, error)
		GetUserByID(id int) (User, error)
		GetUserByEmail(email string) (User, error)
		// GetUserByEmailAndRole treats the claimed role as part of the
		// lookup key; a wrong role misses like an unknown email.
		GetUserByEmailAndRole(email, role string) (User, error)
		UpdatePassword(id int, stored string) error
		LogLogin(userID int, loginTime string) error
		RecentLogins(limit int) ([]LoginEntry, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

// Register creates a student account. Faculty accounts are seeded via the
// admin CLI and never self-registered.
func (svc *Service) Register(nu NewUser) (User, error) {
	if err := nu.Validate(); err != nil {
		return User{}, err
	}
	if err := svc.repo.CheckEmailUniqueness(nu.Email); err != nil {
		if err == ErrEmailExists {
			return User{}, core.NewConflictError(err)
		}
		return User{}, err
	}

	usr := User{
		Name:  nu.Name,
		Email: nu.Email,
		Role:  RoleStudent,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}

	svc.sendWelcomeEmail(usr)
	return usr, nil
}

// Authenticate checks the given credentials against the (email, claimed role)
// lookup key. Legacy plain-text credentials are transparently rehashed on
// success, and a login log entry is appended.
func (svc *Service) Authenticate(lg Login) (User, error) {
	if err := lg.Validate(); err != nil {
		return User{}, err
	}

	usr, err := svc.repo.GetUserByEmailAndRole(lg.Email, lg.Role)
	if err != nil {
		if err == ErrNotFound {
			return User{}, core.NewAuthenticationError(ErrInvalidCredentials)
		}
		return User{}, err
	}

	cred := usr.Credential()
	if !cred.Check(lg.Password) {
		return User{}, core.NewAuthenticationError(ErrInvalidCredentials)
	}
	if cred.NeedsUpgrade() {
		if err := usr.SetPassword(lg.Password); err != nil {
			return User{}, err
		}
		if err := svc.repo.UpdatePassword(usr.ID, usr.Password); err != nil {
			return User{}, err
		}
	}

	if err := svc.repo.LogLogin(usr.ID, core.NowText()); err != nil {
		return User{}, err
	}
	return usr, nil
}

func (svc *Service) GetByID(id int) (User, error) {
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		if err == ErrNotFound {
			return User{}, core.NewNotFoundError(err)
		}
		return User{}, err
	}
	return usr, nil
}

// RecentLogins returns the most recent login activity, newest first.
func (svc *Service) RecentLogins() ([]LoginEntry, error) {
	return svc.repo.RecentLogins(LoginDisplayLimit)
}

// SetPassword force-sets a user's password (admin CLI).
func (svc *Service) SetPassword(usr User, pwd string) error {
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	return svc.repo.UpdatePassword(usr.ID, usr.Password)
}

func (svc *Service) sendWelcomeEmail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Welcome to the assignment portal",
		BodyStr: fmt.Sprintf("Hi %s,\n\nYour student account is ready. Log in to view assignments and submit your work.", usr.Name),
	})
}
