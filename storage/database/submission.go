package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/wasilisha/core/submission"
)

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil)

func NewSubmissionRepository(db *sqlx.DB) *submissionRepository {
	return &submissionRepository{db: db}
}

const facultyRowSelect = `
	SELECT s.id, s.file_name, s.submitted_at, s.status, s.faculty_comment, s.reviewed_at,
	       u.name AS student_name, u.email AS student_email,
	       a.title, a.deadline
	FROM submissions s
	JOIN users u ON u.id = s.student_id
	JOIN assignments a ON a.id = s.assignment_id`

func (repo submissionRepository) CreateSubmission(sub submission.Submission, replaceID int) (submission.Submission, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if replaceID != 0 {
		if _, err = tx.Exec("DELETE FROM submissions WHERE id = ?", replaceID); err != nil {
			return submission.Submission{}, errors.Wrap(err, "deleting replaced submission")
		}
	}
	res, err := tx.NamedExec(`
		INSERT INTO submissions (student_id, assignment_id, file_name, submitted_at, status)
		VALUES (:student_id, :assignment_id, :file_name, :submitted_at, :status)`, sub)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "creating submission")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "creating submission")
	}
	if err = tx.Commit(); err != nil {
		return submission.Submission{}, errors.Wrap(err, "committing submission")
	}
	sub.ID = int(id)
	return sub, nil
}

func (repo submissionRepository) GetSubmissionByID(id int) (submission.Submission, error) {
	var sub submission.Submission
	if err := repo.db.Get(&sub, "SELECT * FROM submissions WHERE id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, errors.Wrap(err, "getting submission by id")
	}
	return sub, nil
}

func (repo submissionRepository) GetSubmissionByFileName(name string) (submission.Submission, error) {
	var sub submission.Submission
	if err := repo.db.Get(&sub, "SELECT * FROM submissions WHERE file_name = ?", name); err != nil {
		if err == sql.ErrNoRows {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, errors.Wrap(err, "getting submission by file name")
	}
	return sub, nil
}

func (repo submissionRepository) GetPendingSubmission(studentID, assignmentID int) (submission.Submission, error) {
	var sub submission.Submission
	err := repo.db.Get(&sub, `
		SELECT * FROM submissions
		WHERE student_id = ? AND assignment_id = ? AND status = ?`,
		studentID, assignmentID, submission.StatusPending)
	if err != nil {
		if err == sql.ErrNoRows {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, errors.Wrap(err, "getting pending submission")
	}
	return sub, nil
}

func (repo submissionRepository) DeleteSubmission(id int) error {
	if _, err := repo.db.Exec("DELETE FROM submissions WHERE id = ?", id); err != nil {
		return errors.Wrap(err, "deleting submission")
	}
	return nil
}

func (repo submissionRepository) ReviewSubmission(id int, status, comment, reviewedAt string, reviewerID int) error {
	_, err := repo.db.Exec(`
		UPDATE submissions
		SET status = ?, faculty_comment = ?, reviewed_at = ?, reviewed_by = ?
		WHERE id = ?`,
		status, comment, reviewedAt, reviewerID, id)
	if err != nil {
		return errors.Wrap(err, "reviewing submission")
	}
	return nil
}

func (repo submissionRepository) QueryStudentRows(studentID int) ([]submission.StudentRow, error) {
	rows := make([]submission.StudentRow, 0)
	err := repo.db.Select(&rows, `
		SELECT s.id, s.file_name, s.submitted_at, s.status, s.faculty_comment, s.reviewed_at,
		       a.title, a.deadline
		FROM submissions s
		JOIN assignments a ON a.id = s.assignment_id
		WHERE s.student_id = ?
		ORDER BY s.submitted_at DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying student submissions")
	}
	return rows, nil
}

func (repo submissionRepository) QueryAllRows() ([]submission.FacultyRow, error) {
	rows := make([]submission.FacultyRow, 0)
	if err := repo.db.Select(&rows, facultyRowSelect+" ORDER BY s.submitted_at DESC"); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	return rows, nil
}

func (repo submissionRepository) GetRowByID(id int) (submission.FacultyRow, error) {
	var row submission.FacultyRow
	if err := repo.db.Get(&row, facultyRowSelect+" WHERE s.id = ?", id); err != nil {
		if err == sql.ErrNoRows {
			return submission.FacultyRow{}, submission.ErrNotFound
		}
		return submission.FacultyRow{}, errors.Wrap(err, "getting submission row by id")
	}
	return row, nil
}
