package submission

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"

	"github.com/trezcool/wasilisha/core"
	"github.com/trezcool/wasilisha/core/assignment"
	"github.com/trezcool/wasilisha/core/user"
)

var (
	// errors
	ErrNotFound           = errors.New("submission not found")
	ErrNotPending         = errors.New("you can delete only pending submissions")
	ErrFileNotFound       = errors.New("file not found")
	ErrFileForbidden      = errors.New("you are not allowed to access this file")
	errAssignmentRequired = errors.New("please select an assignment")
)

type (
	Repository interface {
		// CreateSubmission inserts sub; when replaceID is non-zero the row it
		// names is deleted in the same transaction.
		CreateSubmission(sub Submission, replaceID int) (Submission, error)
		GetSubmissionByID(id int) (Submission, error)
		GetSubmissionByFileName(name string) (Submission, error)
		GetPendingSubmission(studentID, assignmentID int) (Submission, error)
		DeleteSubmission(id int) error
		ReviewSubmission(id int, status, comment, reviewedAt string, reviewerID int) error
		// QueryStudentRows returns a student's submissions, newest first.
		QueryStudentRows(studentID int) ([]StudentRow, error)
		// QueryAllRows returns every submission, newest first.
		QueryAllRows() ([]FacultyRow, error)
		GetRowByID(id int) (FacultyRow, error)
	}

	// FileStore persists uploaded files under generated names.
	FileStore interface {
		Save(name string, r io.Reader) error
		// Delete is best-effort; absence is not an error.
		Delete(name string) error
		Open(name string) (io.ReadCloser, error)
	}

	// AssignmentGetter resolves assignment references on submit.
	AssignmentGetter interface {
		GetByID(id int) (assignment.Assignment, error)
	}

	Service struct {
		repo        Repository
		files       FileStore
		assignments AssignmentGetter
		mailSvc     core.EmailService
	}
)

func NewService(repo Repository, files FileStore, assignments AssignmentGetter, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, files: files, assignments: assignments, mailSvc: mailSvc}
}

// Submit validates and persists a student's upload for an assignment.
// An existing Pending submission for the same (student, assignment) pair is
// replaced: its file is deleted best-effort and its row removed in the same
// transaction that inserts the new row. Reviewed submissions are left alone,
// so resubmission after review creates an additional row.
func (svc *Service) Submit(student user.User, assignmentID int, up Upload) (Submission, error) {
	if assignmentID == 0 {
		return Submission{}, core.NewValidationError(errAssignmentRequired, core.FieldError{Field: "assignment_id", Error: errAssignmentRequired.Error()})
	}
	if err := up.Validate(); err != nil {
		return Submission{}, err
	}
	if _, err := svc.assignments.GetByID(assignmentID); err != nil {
		return Submission{}, err
	}

	var replaceID int
	old, err := svc.repo.GetPendingSubmission(student.ID, assignmentID)
	switch err {
	case nil:
		_ = svc.files.Delete(old.FileName)
		replaceID = old.ID
	case ErrNotFound:
	default:
		return Submission{}, err
	}

	name := BuildFileName(student.ID, assignmentID, up.Filename)
	if err := svc.files.Save(name, up.File); err != nil {
		return Submission{}, err
	}

	return svc.repo.CreateSubmission(Submission{
		StudentID:    student.ID,
		AssignmentID: assignmentID,
		FileName:     name,
		SubmittedAt:  core.NowText(),
		Status:       StatusPending,
	}, replaceID)
}

// Delete removes a student's own Pending submission along with its file.
func (svc *Service) Delete(student user.User, id int) error {
	sub, err := svc.repo.GetSubmissionByID(id)
	if err != nil || sub.StudentID != student.ID {
		if err != nil && err != ErrNotFound {
			return err
		}
		return core.NewNotFoundError(ErrNotFound)
	}
	if !sub.IsPending() {
		return core.NewPermissionError(ErrNotPending)
	}

	_ = svc.files.Delete(sub.FileName)
	return svc.repo.DeleteSubmission(sub.ID)
}

// Review applies a faculty decision to a submission. Any faculty may review
// any submission, and an already-reviewed submission may be reviewed again.
func (svc *Service) Review(faculty user.User, rv Review) (Submission, error) {
	if err := rv.Validate(); err != nil {
		return Submission{}, err
	}

	sub, err := svc.repo.GetSubmissionByID(rv.SubmissionID)
	if err != nil {
		if err == ErrNotFound {
			return Submission{}, core.NewNotFoundError(err)
		}
		return Submission{}, err
	}

	now := core.NowText()
	if err := svc.repo.ReviewSubmission(sub.ID, rv.Action, rv.Comment, now, faculty.ID); err != nil {
		return Submission{}, err
	}

	sub.Status = rv.Action
	sub.FacultyComment = rv.Comment
	sub.ReviewedAt = now
	sub.ReviewedBy = &faculty.ID

	svc.sendReviewEmail(sub)
	return sub, nil
}

func (svc *Service) ListForStudent(studentID int) ([]StudentRow, error) {
	rows, err := svc.repo.QueryStudentRows(studentID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Late = isLate(rows[i].Deadline, rows[i].SubmittedAt)
	}
	return rows, nil
}

func (svc *Service) ListAll() ([]FacultyRow, error) {
	rows, err := svc.repo.QueryAllRows()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Late = isLate(rows[i].Deadline, rows[i].SubmittedAt)
	}
	return rows, nil
}

// OpenFile authorizes and opens a stored upload for download. Faculty may
// read any file; a student only their own.
func (svc *Service) OpenFile(requester user.User, filename string) (io.ReadCloser, error) {
	sub, err := svc.repo.GetSubmissionByFileName(filename)
	if err != nil {
		if err == ErrNotFound {
			return nil, core.NewNotFoundError(ErrFileNotFound)
		}
		return nil, err
	}
	if requester.IsStudent() && sub.StudentID != requester.ID {
		return nil, core.NewPermissionError(ErrFileForbidden)
	}

	rc, err := svc.files.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewNotFoundError(ErrFileNotFound)
		}
		return nil, err
	}
	return rc, nil
}

func (svc *Service) sendReviewEmail(sub Submission) {
	row, err := svc.repo.GetRowByID(sub.ID)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: row.StudentName, Address: row.StudentEmail}},
		Subject: fmt.Sprintf("Your submission for %q was %s", row.Title, strings.ToLower(sub.Status)),
		BodyStr: fmt.Sprintf("Hi %s,\n\nYour submission for %q has been %s.\nFaculty comment: %s", row.StudentName, row.Title, strings.ToLower(sub.Status), row.FacultyComment),
	})
}
