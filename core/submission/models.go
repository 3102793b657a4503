package submission

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/wasilisha/core"
)

// Review states
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

var (
	errFileMissing   = errors.New("please choose a PDF file")
	errNotPDF        = errors.New("only PDF files are allowed")
	errBadPDFContent = errors.New("invalid file content; please upload a valid PDF")

	pdfMagic = []byte("%PDF")
)

type Submission struct {
	ID             int    `json:"id" db:"id"`
	StudentID      int    `json:"student_id" db:"student_id"`
	AssignmentID   int    `json:"assignment_id" db:"assignment_id"`
	FileName       string `json:"file_name" db:"file_name"`
	SubmittedAt    string `json:"submitted_at" db:"submitted_at"`
	Status         string `json:"status" db:"status"`
	FacultyComment string `json:"faculty_comment" db:"faculty_comment"`
	ReviewedAt     string `json:"reviewed_at" db:"reviewed_at"`
	ReviewedBy     *int   `json:"reviewed_by" db:"reviewed_by"`
}

func (s *Submission) IsPending() bool { return s.Status == StatusPending }

// Upload is an incoming file to be validated and persisted.
type Upload struct {
	Filename string
	File     io.ReadSeeker
	Size     int64
}

// Validate checks that the upload is a non-empty PDF: the extension must be
// .pdf (case-insensitive) and the leading bytes the literal %PDF signature.
// The reader is rewound after the signature check.
func (up *Upload) Validate() error {
	if up.File == nil || up.Filename == "" || up.Size == 0 {
		return core.NewValidationError(errFileMissing, core.FieldError{Field: "pdf_file", Error: errFileMissing.Error()})
	}
	if !strings.EqualFold(filepath.Ext(up.Filename), ".pdf") {
		return core.NewValidationError(errNotPDF, core.FieldError{Field: "pdf_file", Error: errNotPDF.Error()})
	}

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(up.File, head); err != nil {
		return core.NewValidationError(errBadPDFContent, core.FieldError{Field: "pdf_file", Error: errBadPDFContent.Error()})
	}
	if _, err := up.File.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if !bytes.Equal(head, pdfMagic) {
		return core.NewValidationError(errBadPDFContent, core.FieldError{Field: "pdf_file", Error: errBadPDFContent.Error()})
	}
	return nil
}

// Review carries a faculty review action for a submission.
type Review struct {
	SubmissionID int    `json:"submission_id" validate:"required"`
	Action       string `json:"action" validate:"required,oneof=Approved Rejected"`
	Comment      string `json:"comment"`
}

func (rv *Review) Validate() error {
	rv.Action = core.CleanString(rv.Action)
	rv.Comment = core.CleanString(rv.Comment)
	return core.Validate.Struct(rv)
}

// StudentRow is a Submission joined with its Assignment for the student view.
type StudentRow struct {
	ID             int    `json:"id" db:"id"`
	FileName       string `json:"file_name" db:"file_name"`
	SubmittedAt    string `json:"submitted_at" db:"submitted_at"`
	Status         string `json:"status" db:"status"`
	FacultyComment string `json:"faculty_comment" db:"faculty_comment"`
	ReviewedAt     string `json:"reviewed_at" db:"reviewed_at"`
	Title          string `json:"title" db:"title"`
	Deadline       string `json:"deadline" db:"deadline"`
	Late           bool   `json:"late" db:"-"`
}

// FacultyRow is a Submission joined with its Assignment and student User.
type FacultyRow struct {
	ID             int    `json:"id" db:"id"`
	FileName       string `json:"file_name" db:"file_name"`
	SubmittedAt    string `json:"submitted_at" db:"submitted_at"`
	Status         string `json:"status" db:"status"`
	FacultyComment string `json:"faculty_comment" db:"faculty_comment"`
	ReviewedAt     string `json:"reviewed_at" db:"reviewed_at"`
	StudentName    string `json:"student_name" db:"student_name"`
	StudentEmail   string `json:"student_email" db:"student_email"`
	Title          string `json:"title" db:"title"`
	Deadline       string `json:"deadline" db:"deadline"`
	Late           bool   `json:"late" db:"-"`
}

// isLate reports whether submittedAt is strictly after deadline. Unparseable
// timestamps never flag a row as late.
func isLate(deadline, submittedAt string) bool {
	d, err := core.ParseTimeText(deadline)
	if err != nil {
		return false
	}
	s, err := core.ParseTimeText(submittedAt)
	if err != nil {
		return false
	}
	return s.After(d)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// sanitizeFilename reduces a client-supplied filename to a safe base name:
// no path components, no characters outside [A-Za-z0-9_.-], no leading dots.
func sanitizeFilename(name string) string {
	name = filepath.Base(filepath.Clean(strings.ReplaceAll(name, "\\", "/")))
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._-")
	if name == "" {
		name = "upload"
	}
	return name
}

// BuildFileName generates the stored name for an upload:
// {studentID}_{assignmentID}_{randomToken}_{sanitizedOriginalName}.
func BuildFileName(studentID, assignmentID int, original string) string {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.Join([]string{
		strconv.Itoa(studentID),
		strconv.Itoa(assignmentID),
		token,
		sanitizeFilename(original),
	}, "_")
}
