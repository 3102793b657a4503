package dummydb

import (
	"sort"

	"github.com/trezcool/wasilisha/core/assignment"
)

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

type assignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CheckTitleUniqueness(title string) error {
	repo.db.assignment.RLock()
	defer repo.db.assignment.RUnlock()

	for _, a := range repo.db.assignment.table {
		if a.Title == title {
			return assignment.ErrTitleExists
		}
	}
	return nil
}

func (repo *assignmentRepository) CreateAssignment(a assignment.Assignment) (assignment.Assignment, error) {
	repo.db.assignment.Lock()
	defer repo.db.assignment.Unlock()

	repo.db.assignment.pkCount++
	a.ID = repo.db.assignment.pkCount
	repo.db.assignment.table[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) GetAssignmentByID(id int) (assignment.Assignment, error) {
	repo.db.assignment.RLock()
	defer repo.db.assignment.RUnlock()

	if a, ok := repo.db.assignment.table[id]; ok {
		return *a, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAllAssignments() ([]assignment.Assignment, error) {
	repo.db.assignment.RLock()
	defer repo.db.assignment.RUnlock()

	all := make([]assignment.Assignment, 0, len(repo.db.assignment.table))
	for _, a := range repo.db.assignment.table {
		all = append(all, *a)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Deadline == all[j].Deadline {
			return all[i].ID < all[j].ID
		}
		return all[i].Deadline < all[j].Deadline
	})
	return all, nil
}
