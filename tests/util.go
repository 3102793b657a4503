package testutil

import (
	"bytes"
	"testing"

	"github.com/trezcool/wasilisha/core/assignment"
	"github.com/trezcool/wasilisha/core/submission"
	"github.com/trezcool/wasilisha/core/user"
)

// PDFBytes is a minimal payload that passes the %PDF signature check.
var PDFBytes = []byte("%PDF-1.4\n%%EOF\n")

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd, role string) user.User {
	usr := user.User{
		Name:  name,
		Email: email,
		Role:  role,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

// CreateLegacyUser stores pwd as a plain-text credential, as rows imported
// from the legacy system look before their first login.
func CreateLegacyUser(t *testing.T, repo user.Repository, name, email, pwd, role string) user.User {
	usr := user.User{
		Name:     name,
		Email:    email,
		Password: pwd,
		Role:     role,
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("createLegacyUser() failed: %v", err)
	}
	return usr
}

func CreateAssignment(t *testing.T, repo assignment.Repository, title, description, deadline string) assignment.Assignment {
	a, err := repo.CreateAssignment(assignment.Assignment{
		Title:       title,
		Description: description,
		Deadline:    deadline,
	})
	if err != nil {
		t.Fatalf("createAssignment() failed: %v", err)
	}
	return a
}

func CreateSubmission(
	t *testing.T,
	repo submission.Repository,
	studentID, assignmentID int,
	fileName, submittedAt, status string,
) submission.Submission {
	sub, err := repo.CreateSubmission(submission.Submission{
		StudentID:    studentID,
		AssignmentID: assignmentID,
		FileName:     fileName,
		SubmittedAt:  submittedAt,
		Status:       status,
	}, 0)
	if err != nil {
		t.Fatalf("createSubmission() failed: %v", err)
	}
	return sub
}

// PDFUpload returns a valid Upload named name carrying PDFBytes.
func PDFUpload(name string) submission.Upload {
	return Upload(name, PDFBytes)
}

func Upload(name string, content []byte) submission.Upload {
	return submission.Upload{
		Filename: name,
		File:     bytes.NewReader(content),
		Size:     int64(len(content)),
	}
}
