package dummydb

import (
	"sync"

	"github.com/trezcool/wasilisha/core/assignment"
	"github.com/trezcool/wasilisha/core/submission"
	"github.com/trezcool/wasilisha/core/user"
)

// In-memory tables; used by tests and local experiments.
type (
	DB struct {
		user       *userTable
		assignment *assignmentTable
		submission *submissionTable
	}

	userTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*user.User
		logs    []user.LoginLog
	}

	assignmentTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*assignment.Assignment
	}

	submissionTable struct {
		sync.RWMutex
		pkCount int
		table   map[int]*submission.Submission
	}
)

func Open() (*DB, error) {
	db := new(DB)
	db.Reset()
	return db, nil
}

// Reset drops all rows; used between tests.
func (db *DB) Reset() {
	db.user = &userTable{table: make(map[int]*user.User)}
	db.assignment = &assignmentTable{table: make(map[int]*assignment.Assignment)}
	db.submission = &submissionTable{table: make(map[int]*submission.Submission)}
}
