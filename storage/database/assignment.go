package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/wasilisha/core/assignment"
)

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo assignmentRepository) CheckTitleUniqueness(title string) error {
	var exists bool
	if err := repo.db.Get(&exists, "SELECT EXISTS (SELECT 1 FROM assignments WHERE title = ?)", title); err != nil {
		return errors.Wrap(err, "checking title uniqueness")
	}
	if exists {
		return assignment.ErrTitleExists
	}
	return nil
}

func (repo assignmentRepository) CreateAssignment(a assignment.Assignment) (assignment.Assignment, error) {
	res, err := repo.db.NamedExec(
		"INSERT INTO assignments (title, description, deadline) VALUES (:title, :description, :deadline)", a)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	a.ID = int(id)
	return a, nil
}

func (repo assignmentRepository) GetAssignmentByID(id int) (assignment.Assignment, error) {
	var a assignment.Assignment
	if err := repo.db.Get(&a, "SELECT * FROM assignments WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment by id")
	}
	return a, nil
}

func (repo assignmentRepository) QueryAllAssignments() ([]assignment.Assignment, error) {
	assignments := make([]assignment.Assignment, 0)
	if err := repo.db.Select(&assignments, "SELECT * FROM assignments ORDER BY deadline ASC"); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	return assignments, nil
}
