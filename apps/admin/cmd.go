package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/wasilisha/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sqlx.DB
	usrRepo user.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate - apply pending database migrations")
	fmt.Println("  addfaculty -name NAME -email EMAIL - create or update a faculty account")
	fmt.Println("  resetpassword -email EMAIL - reset a user's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		return cli.migrate()

	case "addfaculty":
		addFacultyCmd := flag.NewFlagSet("addfaculty", flag.ExitOnError)
		addFacultyName := addFacultyCmd.String("name", "", "The faculty member's display name.")
		addFacultyEmail := addFacultyCmd.String("email", "", "The faculty member's email. The password will be prompted next.")
		if err := addFacultyCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addFacultyName == "" || *addFacultyEmail == "" {
			addFacultyCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(addFacultyCmd)
		if err != nil {
			return err
		}
		return cli.addFaculty(*addFacultyName, *addFacultyEmail, pwd)

	case "resetpassword":
		resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
		resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword(cmd *flag.FlagSet) (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}
