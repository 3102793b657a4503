package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/wasilisha/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) CheckEmailUniqueness(email string) error {
	var exists bool
	if err := repo.db.Get(&exists, "SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)", email); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(usr user.User) (user.User, error) {
	res, err := repo.db.NamedExec(
		"INSERT INTO users (name, email, password, role) VALUES (:name, :email, :password, :role)", usr)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	usr.ID = int(id)
	return usr, nil
}

func (repo userRepository) GetUserByID(id int) (user.User, error) {
	var usr user.User
	if err := repo.db.Get(&usr, "SELECT * FROM users WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by id")
	}
	return usr, nil
}

func (repo userRepository) GetUserByEmail(email string) (user.User, error) {
	var usr user.User
	if err := repo.db.Get(&usr, "SELECT * FROM users WHERE email = ?", email); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by email")
	}
	return usr, nil
}

func (repo userRepository) GetUserByEmailAndRole(email, role string) (user.User, error) {
	var usr user.User
	if err := repo.db.Get(&usr, "SELECT * FROM users WHERE email = ? AND role = ?", email, role); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by email and role")
	}
	return usr, nil
}

func (repo userRepository) UpdatePassword(id int, stored string) error {
	if _, err := repo.db.Exec("UPDATE users SET password = ? WHERE id = ?", stored, id); err != nil {
		return errors.Wrap(err, "updating password")
	}
	return nil
}

func (repo userRepository) LogLogin(userID int, loginTime string) error {
	if _, err := repo.db.Exec("INSERT INTO login_logs (user_id, login_time) VALUES (?, ?)", userID, loginTime); err != nil {
		return errors.Wrap(err, "logging login")
	}
	return nil
}

func (repo userRepository) RecentLogins(limit int) ([]user.LoginEntry, error) {
	logs := make([]user.LoginEntry, 0)
	err := repo.db.Select(&logs, `
		SELECT u.name, u.email, u.role, l.login_time
		FROM login_logs l
		JOIN users u ON u.id = l.user_id
		ORDER BY l.login_time DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying recent logins")
	}
	return logs, nil
}
