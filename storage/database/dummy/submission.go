package dummydb

import (
	"sort"

	"github.com/trezcool/wasilisha/core/submission"
)

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

type submissionRepository struct {
	db *DB
}

func NewSubmissionRepository(db *DB) *submissionRepository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) CreateSubmission(sub submission.Submission, replaceID int) (submission.Submission, error) {
	repo.db.submission.Lock()
	defer repo.db.submission.Unlock()

	if replaceID != 0 {
		delete(repo.db.submission.table, replaceID)
	}
	repo.db.submission.pkCount++
	sub.ID = repo.db.submission.pkCount
	repo.db.submission.table[sub.ID] = &sub
	return sub, nil
}

func (repo *submissionRepository) GetSubmissionByID(id int) (submission.Submission, error) {
	repo.db.submission.RLock()
	defer repo.db.submission.RUnlock()

	if sub, ok := repo.db.submission.table[id]; ok {
		return *sub, nil
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) GetSubmissionByFileName(name string) (submission.Submission, error) {
	repo.db.submission.RLock()
	defer repo.db.submission.RUnlock()

	for _, sub := range repo.db.submission.table {
		if sub.FileName == name {
			return *sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) GetPendingSubmission(studentID, assignmentID int) (submission.Submission, error) {
	repo.db.submission.RLock()
	defer repo.db.submission.RUnlock()

	for _, sub := range repo.db.submission.table {
		if sub.StudentID == studentID && sub.AssignmentID == assignmentID && sub.Status == submission.StatusPending {
			return *sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) DeleteSubmission(id int) error {
	repo.db.submission.Lock()
	defer repo.db.submission.Unlock()

	if _, ok := repo.db.submission.table[id]; !ok {
		return submission.ErrNotFound
	}
	delete(repo.db.submission.table, id)
	return nil
}

func (repo *submissionRepository) ReviewSubmission(id int, status, comment, reviewedAt string, reviewerID int) error {
	repo.db.submission.Lock()
	defer repo.db.submission.Unlock()

	sub, ok := repo.db.submission.table[id]
	if !ok {
		return submission.ErrNotFound
	}
	sub.Status = status
	sub.FacultyComment = comment
	sub.ReviewedAt = reviewedAt
	sub.ReviewedBy = &reviewerID
	return nil
}

func (repo *submissionRepository) QueryStudentRows(studentID int) ([]submission.StudentRow, error) {
	repo.db.submission.RLock()
	defer repo.db.submission.RUnlock()

	var rows []submission.StudentRow
	for _, sub := range repo.db.submission.table {
		if sub.StudentID != studentID {
			continue
		}
		row := submission.StudentRow{
			ID:             sub.ID,
			FileName:       sub.FileName,
			SubmittedAt:    sub.SubmittedAt,
			Status:         sub.Status,
			FacultyComment: sub.FacultyComment,
			ReviewedAt:     sub.ReviewedAt,
		}
		if a, err := NewAssignmentRepository(repo.db).GetAssignmentByID(sub.AssignmentID); err == nil {
			row.Title = a.Title
			row.Deadline = a.Deadline
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SubmittedAt == rows[j].SubmittedAt {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].SubmittedAt > rows[j].SubmittedAt
	})
	return rows, nil
}

func (repo *submissionRepository) QueryAllRows() ([]submission.FacultyRow, error) {
	repo.db.submission.RLock()
	ids := make([]int, 0, len(repo.db.submission.table))
	for id := range repo.db.submission.table {
		ids = append(ids, id)
	}
	repo.db.submission.RUnlock()

	var rows []submission.FacultyRow
	for _, id := range ids {
		row, err := repo.GetRowByID(id)
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SubmittedAt == rows[j].SubmittedAt {
			return rows[i].ID > rows[j].ID
		}
		return rows[i].SubmittedAt > rows[j].SubmittedAt
	})
	return rows, nil
}

func (repo *submissionRepository) GetRowByID(id int) (submission.FacultyRow, error) {
	sub, err := repo.GetSubmissionByID(id)
	if err != nil {
		return submission.FacultyRow{}, err
	}

	row := submission.FacultyRow{
		ID:             sub.ID,
		FileName:       sub.FileName,
		SubmittedAt:    sub.SubmittedAt,
		Status:         sub.Status,
		FacultyComment: sub.FacultyComment,
		ReviewedAt:     sub.ReviewedAt,
	}
	if usr, err := NewUserRepository(repo.db).GetUserByID(sub.StudentID); err == nil {
		row.StudentName = usr.Name
		row.StudentEmail = usr.Email
	}
	if a, err := NewAssignmentRepository(repo.db).GetAssignmentByID(sub.AssignmentID); err == nil {
		row.Title = a.Title
		row.Deadline = a.Deadline
	}
	return row, nil
}
