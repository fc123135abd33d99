package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/kowsik11/GradeKart-Dev-sub000/core/campus"
	"github.com/kowsik11/GradeKart-Dev-sub000/core/identity"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	campuses *campus.Service
	resolver *identity.Resolver
	validate *validator.Validate
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  campuses - list the campuses accounts can belong to")
	fmt.Fprintln(cli.out, "  signup -role ROLE -id ROLLNO|EMAIL [-name NAME] [-campus CODE] - create an account")
	fmt.Fprintln(cli.out, "  login -role ROLE -id ROLLNO|EMAIL -campus CODE - check an account's credentials")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	signupCmd := flag.NewFlagSet("signup", flag.ContinueOnError)
	signupRole := signupCmd.String("role", "student", "student or teacher")
	signupID := signupCmd.String("id", "", "The roll number (students) or email (teachers). The password will be prompted next.")
	signupName := signupCmd.String("name", "", "The account's full name")
	signupCampus := signupCmd.String("campus", "", "The campus code or id; omit for an account valid on every campus")

	loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
	loginRole := loginCmd.String("role", "student", "student or teacher")
	loginID := loginCmd.String("id", "", "The roll number (students) or email (teachers). The password will be prompted next.")
	loginCampus := loginCmd.String("campus", "", "The campus code or id")

	switch args[1] {
	case "campuses":
		return cli.listCampuses()
	case "signup":
		if err := signupCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *signupID == "" {
			signupCmd.Usage()
			return errHelp
		}
		pwd, err := readPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			signupCmd.Usage()
			return errHelp
		}
		return cli.signup(identity.NewAccount{
			Role:       identity.Role(*signupRole),
			Identifier: *signupID,
			Password:   pwd,
			FullName:   *signupName,
		}, *signupCampus)
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginID == "" || *loginCampus == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := readPassword()
		if err != nil {
			return err
		}
		return cli.login(identity.Role(*loginRole), *loginID, pwd, *loginCampus)
	default:
		cli.printUsage()
		return errHelp
	}
}

func readPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	return string(pwd), err
}

func (cli *commandLine) listCampuses() error {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tID\tNAME\tCAMPUS")
	for _, c := range cli.campuses.List(context.Background()) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Code, c.ID, c.Name, c.Campus)
	}
	return w.Flush()
}

func (cli *commandLine) signup(na identity.NewAccount, campusKey string) error {
	if err := cli.validate.Struct(na); err != nil {
		return err
	}

	var selected *campus.Campus
	if campusKey != "" {
		c, err := cli.campuses.Find(context.Background(), campusKey)
		if err != nil {
			return err
		}
		selected = &c
	}

	profile, err := cli.resolver.Signup(context.Background(), na, selected)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created %s account %s\n", na.Role, profile.ProfileID())
	return nil
}

func (cli *commandLine) login(role identity.Role, id, pwd, campusKey string) error {
	if _, err := identity.ParseRole(string(role)); err != nil {
		return err
	}
	c, err := cli.campuses.Find(context.Background(), campusKey)
	if err != nil {
		return err
	}

	sess, err := cli.resolver.Login(context.Background(), role, id, pwd, &c)
	if err != nil {
		return err
	}
	defer cli.resolver.Logout()

	fmt.Fprintf(cli.out, "Credentials OK: %s (%s) at %s\n", sess.DisplayName(), sess.Role, sess.Campus.Name)
	return nil
}
