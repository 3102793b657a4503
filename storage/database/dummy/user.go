package dummydb

import (
	"sort"

	"github.com/trezcool/wasilisha/core/user"
)

var _ user.Repository = (*userRepository)(nil) // interface compliance check

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(email string) error {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	for _, usr := range repo.db.user.table {
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	repo.db.user.pkCount++
	usr.ID = repo.db.user.pkCount
	repo.db.user.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	if usr, ok := repo.db.user.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	for _, usr := range repo.db.user.table {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmailAndRole(email, role string) (user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	for _, usr := range repo.db.user.table {
		if usr.Email == email && usr.Role == role {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdatePassword(id int, stored string) error {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	usr, ok := repo.db.user.table[id]
	if !ok {
		return user.ErrNotFound
	}
	usr.Password = stored
	return nil
}

func (repo *userRepository) LogLogin(userID int, loginTime string) error {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	repo.db.user.logs = append(repo.db.user.logs, user.LoginLog{
		ID:        len(repo.db.user.logs) + 1,
		UserID:    userID,
		LoginTime: loginTime,
	})
	return nil
}

func (repo *userRepository) RecentLogins(limit int) ([]user.LoginEntry, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	logs := make([]user.LoginLog, len(repo.db.user.logs))
	copy(logs, repo.db.user.logs)
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].LoginTime == logs[j].LoginTime {
			return logs[i].ID > logs[j].ID
		}
		return logs[i].LoginTime > logs[j].LoginTime
	})

	entries := make([]user.LoginEntry, 0, limit)
	for _, lg := range logs {
		if len(entries) == limit {
			break
		}
		usr, ok := repo.db.user.table[lg.UserID]
		if !ok {
			continue
		}
		entries = append(entries, user.LoginEntry{
			Name:      usr.Name,
			Email:     usr.Email,
			Role:      usr.Role,
			LoginTime: lg.LoginTime,
		})
	}
	return entries, nil
}
