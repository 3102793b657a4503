package main

import (
	"log"
	"os"

	echoapi "github.com/trezcool/wasilisha/apps/portal/echo"
	"github.com/trezcool/wasilisha/core"
	"github.com/trezcool/wasilisha/core/assignment"
	"github.com/trezcool/wasilisha/core/submission"
	"github.com/trezcool/wasilisha/core/user"
	emailsvc "github.com/trezcool/wasilisha/services/email"
	logsvc "github.com/trezcool/wasilisha/services/logger"
	"github.com/trezcool/wasilisha/storage/database"
	"github.com/trezcool/wasilisha/storage/files"
)

func main() {
	std := log.New(os.Stdout, "PORTAL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	debug := core.Conf.GetBool("debug")

	// set up logger
	var logger core.Logger
	if debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std)
	}

	// set up DB
	db, err := database.Open()
	errAndDie(std, err)
	defer func() { _ = db.Close() }()
	errAndDie(std, database.Migrate(db))

	// set up file store
	fileStore, err := files.NewStore(core.Conf.GetString("uploadDir"))
	errAndDie(std, err)

	// set up services
	var mailSvc core.EmailService
	if debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(database.NewUserRepository(db), mailSvc)
	assignmentSvc := assignment.NewService(database.NewAssignmentRepository(db))
	submissionSvc := submission.NewService(database.NewSubmissionRepository(db), fileStore, assignmentSvc, mailSvc)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:          core.Conf.GetString("serverAddress"),
			Logger:        logger,
			UserSvc:       usrSvc,
			AssignmentSvc: assignmentSvc,
			SubmissionSvc: submissionSvc,
		},
	)
	app.Start()
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
