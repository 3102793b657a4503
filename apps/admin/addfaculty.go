package main

import (
	"github.com/trezcool/wasilisha/core"
	"github.com/trezcool/wasilisha/core/user"
)

// addFaculty creates a faculty account, or resets its password if the email
// is already registered as faculty.
func (cli *commandLine) addFaculty(name, email, pwd string) error {
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByEmailAndRole(email, user.RoleFaculty)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Name:  name,
			Email: email,
			Role:  user.RoleFaculty,
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(usr)
		return err
	}

	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	return cli.usrRepo.UpdatePassword(usr.ID, usr.Password)
}
