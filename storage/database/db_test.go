package database

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/wasilisha/core/assignment"
	"github.com/trezcool/wasilisha/core/submission"
	"github.com/trezcool/wasilisha/core/user"
	testutil "github.com/trezcool/wasilisha/tests"
)

func openTestDB(t *testing.T) *sqlx.DB {
	db, err := OpenPath(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenPath(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = Migrate(db); err != nil {
		t.Fatalf("Migrate(): %v", err)
	}
	return db
}

func Test_userRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	usr := testutil.CreateUser(t, repo, "Hero", "hero@test.cd", "LolCat123", user.RoleStudent)
	if usr.ID == 0 {
		t.Fatal("created user has no ID")
	}

	if err := repo.CheckEmailUniqueness("hero@test.cd"); err != user.ErrEmailExists {
		t.Errorf("CheckEmailUniqueness() error = %v, want ErrEmailExists", err)
	}
	if err := repo.CheckEmailUniqueness("free@test.cd"); err != nil {
		t.Errorf("CheckEmailUniqueness() error = %v, want nil", err)
	}

	got, err := repo.GetUserByEmailAndRole("hero@test.cd", user.RoleStudent)
	if err != nil {
		t.Fatalf("GetUserByEmailAndRole(): %v", err)
	}
	if got.ID != usr.ID {
		t.Errorf("ID = %d, want %d", got.ID, usr.ID)
	}
	if _, err = repo.GetUserByEmailAndRole("hero@test.cd", user.RoleFaculty); err != user.ErrNotFound {
		t.Errorf("GetUserByEmailAndRole() with wrong role error = %v, want ErrNotFound", err)
	}

	if err = repo.UpdatePassword(usr.ID, "legacy"); err != nil {
		t.Fatalf("UpdatePassword(): %v", err)
	}
	if got, err = repo.GetUserByID(usr.ID); err != nil {
		t.Fatalf("GetUserByID(): %v", err)
	}
	if got.Password != "legacy" {
		t.Errorf("Password = %q, want updated credential", got.Password)
	}

	if err = repo.LogLogin(usr.ID, "2029-05-01 09:00:00"); err != nil {
		t.Fatalf("LogLogin(): %v", err)
	}
	if err = repo.LogLogin(usr.ID, "2029-05-01 10:00:00"); err != nil {
		t.Fatalf("LogLogin(): %v", err)
	}

	entries, err := repo.RecentLogins(1)
	if err != nil {
		t.Fatalf("RecentLogins(): %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].LoginTime != "2029-05-01 10:00:00" {
		t.Errorf("LoginTime = %q, want the most recent entry", entries[0].LoginTime)
	}
}

func Test_assignmentRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewAssignmentRepository(db)

	late := testutil.CreateAssignment(t, repo, "Late", "x", "2029-09-01 09:00")
	early := testutil.CreateAssignment(t, repo, "Early", "x", "2029-01-01 09:00")

	if err := repo.CheckTitleUniqueness("Late"); err != assignment.ErrTitleExists {
		t.Errorf("CheckTitleUniqueness() error = %v, want ErrTitleExists", err)
	}
	if err := repo.CheckTitleUniqueness("Quiz"); err != nil {
		t.Errorf("CheckTitleUniqueness() error = %v, want nil", err)
	}

	if _, err := repo.GetAssignmentByID(999); err != assignment.ErrNotFound {
		t.Errorf("GetAssignmentByID(999) error = %v, want ErrNotFound", err)
	}

	all, err := repo.QueryAllAssignments()
	if err != nil {
		t.Fatalf("QueryAllAssignments(): %v", err)
	}
	if len(all) != 2 || all[0].ID != early.ID || all[1].ID != late.ID {
		t.Errorf("assignments not ordered by ascending deadline: %+v", all)
	}
}

func Test_submissionRepository(t *testing.T) {
	db := openTestDB(t)
	usrRepo := NewUserRepository(db)
	assignmentRepo := NewAssignmentRepository(db)
	repo := NewSubmissionRepository(db)

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent)
	faculty := testutil.CreateUser(t, usrRepo, "Prof", "prof@test.cd", "", user.RoleFaculty)
	homework := testutil.CreateAssignment(t, assignmentRepo, "Essay", "Write.", "2029-05-01 09:30")

	first := testutil.CreateSubmission(t, repo, student.ID, homework.ID, "v1.pdf", "2029-04-30 08:00:00", submission.StatusPending)

	t.Run("pending lookup", func(t *testing.T) {
		sub, err := repo.GetPendingSubmission(student.ID, homework.ID)
		if err != nil {
			t.Fatalf("GetPendingSubmission(): %v", err)
		}
		if sub.ID != first.ID {
			t.Errorf("ID = %d, want %d", sub.ID, first.ID)
		}
		if _, err = repo.GetPendingSubmission(student.ID, 999); err != submission.ErrNotFound {
			t.Errorf("GetPendingSubmission() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("replacement is atomic", func(t *testing.T) {
		second, err := repo.CreateSubmission(submission.Submission{
			StudentID:    student.ID,
			AssignmentID: homework.ID,
			FileName:     "v2.pdf",
			SubmittedAt:  "2029-04-30 09:00:00",
			Status:       submission.StatusPending,
		}, first.ID)
		if err != nil {
			t.Fatalf("CreateSubmission(): %v", err)
		}

		if _, err = repo.GetSubmissionByID(first.ID); err != submission.ErrNotFound {
			t.Errorf("replaced row still present; error = %v, want ErrNotFound", err)
		}
		rows, err := repo.QueryStudentRows(student.ID)
		if err != nil {
			t.Fatalf("QueryStudentRows(): %v", err)
		}
		if len(rows) != 1 || rows[0].ID != second.ID {
			t.Errorf("rows = %+v, want only the replacement", rows)
		}

		first = second
	})

	t.Run("review", func(t *testing.T) {
		if err := repo.ReviewSubmission(first.ID, submission.StatusApproved, "", "2029-05-02 10:00:00", faculty.ID); err != nil {
			t.Fatalf("ReviewSubmission(): %v", err)
		}

		sub, err := repo.GetSubmissionByID(first.ID)
		if err != nil {
			t.Fatalf("GetSubmissionByID(): %v", err)
		}
		if sub.Status != submission.StatusApproved {
			t.Errorf("Status = %q, want %q", sub.Status, submission.StatusApproved)
		}
		if sub.FacultyComment != "" {
			t.Errorf("FacultyComment = %q, want empty comment kept verbatim", sub.FacultyComment)
		}
		if sub.ReviewedBy == nil || *sub.ReviewedBy != faculty.ID {
			t.Errorf("ReviewedBy = %v, want %d", sub.ReviewedBy, faculty.ID)
		}

		// a reviewed row no longer matches the pending lookup
		if _, err = repo.GetPendingSubmission(student.ID, homework.ID); err != submission.ErrNotFound {
			t.Errorf("GetPendingSubmission() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("joined rows", func(t *testing.T) {
		row, err := repo.GetRowByID(first.ID)
		if err != nil {
			t.Fatalf("GetRowByID(): %v", err)
		}
		if row.StudentEmail != student.Email || row.Title != homework.Title || row.Deadline != homework.Deadline {
			t.Errorf("row = %+v, want joined student and assignment fields", row)
		}

		all, err := repo.QueryAllRows()
		if err != nil {
			t.Fatalf("QueryAllRows(): %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("len(all) = %d, want 1", len(all))
		}
	})

	t.Run("lookup by file name", func(t *testing.T) {
		sub, err := repo.GetSubmissionByFileName("v2.pdf")
		if err != nil {
			t.Fatalf("GetSubmissionByFileName(): %v", err)
		}
		if sub.ID != first.ID {
			t.Errorf("ID = %d, want %d", sub.ID, first.ID)
		}
		if _, err = repo.GetSubmissionByFileName("lol.pdf"); err != submission.ErrNotFound {
			t.Errorf("GetSubmissionByFileName() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := repo.DeleteSubmission(first.ID); err != nil {
			t.Fatalf("DeleteSubmission(): %v", err)
		}
		if _, err := repo.GetSubmissionByID(first.ID); err != submission.ErrNotFound {
			t.Errorf("GetSubmissionByID() after delete error = %v, want ErrNotFound", err)
		}
	})
}
