package assignment

import (
	"errors"

	"github.com/trezcool/wasilisha/core"
)

var (
	// errors
	ErrNotFound    = errors.New("assignment not found")
	ErrTitleExists = errors.New("assignment title already exists")
)

type (
	Repository interface {
		CheckTitleUniqueness(title string) error
		CreateAssignment(a Assignment) (Assignment, error)
		GetAssignmentByID(id int) (Assignment, error)
		// QueryAllAssignments returns all assignments ordered by ascending deadline.
		QueryAllAssignments() ([]Assignment, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(na NewAssignment) (Assignment, error) {
	if err := na.Validate(); err != nil {
		return Assignment{}, err
	}
	if err := svc.repo.CheckTitleUniqueness(na.Title); err != nil {
		if err == ErrTitleExists {
			return Assignment{}, core.NewConflictError(err)
		}
		return Assignment{}, err
	}
	return svc.repo.CreateAssignment(Assignment{
		Title:       na.Title,
		Description: na.Description,
		Deadline:    na.Deadline,
	})
}

func (svc *Service) GetByID(id int) (Assignment, error) {
	a, err := svc.repo.GetAssignmentByID(id)
	if err != nil {
		if err == ErrNotFound {
			return Assignment{}, core.NewNotFoundError(err)
		}
		return Assignment{}, err
	}
	return a, nil
}

func (svc *Service) List() ([]Assignment, error) {
	return svc.repo.QueryAllAssignments()
}
