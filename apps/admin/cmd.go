package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/shsportal/backend/core/roster"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db        *sql.DB
	rosterSvc roster.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (up, down, status, ...)")
	fmt.Println("  createroster -section ID -subject ID -teacher ID -grade-level LEVEL -semester SEM -year YEAR - create a class roster")
	fmt.Println("  deleteroster -id ID -yes - delete a class roster and all its grade entries")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createCmd := flag.NewFlagSet("createroster", flag.ExitOnError)
	createSection := createCmd.String("section", "", "The section ID.")
	createSubject := createCmd.String("subject", "", "The subject ID.")
	createTeacher := createCmd.String("teacher", "", "The assigned teacher's ID.")
	createGradeLevel := createCmd.String("grade-level", "", `"Grade 11" or "Grade 12".`)
	createSemester := createCmd.String("semester", "", `"1st" or "2nd".`)
	createYear := createCmd.String("year", "", "The school year, eg. 2025-2026.")

	deleteCmd := flag.NewFlagSet("deleteroster", flag.ExitOnError)
	deleteID := deleteCmd.String("id", "", "The roster ID.")
	deleteYes := deleteCmd.Bool("yes", false, "Confirm deletion. All recorded grades are discarded.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "createroster":
		if err := createCmd.Parse(args[2:]); err != nil {
			return err
		}
		nr := roster.NewRoster{
			SectionID:  *createSection,
			SubjectID:  *createSubject,
			TeacherID:  *createTeacher,
			GradeLevel: *createGradeLevel,
			Semester:   *createSemester,
			SchoolYear: *createYear,
		}
		return cli.createRoster(nr)
	case "deleteroster":
		if err := deleteCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *deleteID == "" || !*deleteYes {
			deleteCmd.Usage()
			return errHelp
		}
		return cli.deleteRoster(*deleteID)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) createRoster(nr roster.NewRoster) error {
	ros, err := cli.rosterSvc.Create(context.Background(), nr)
	if err != nil {
		return err
	}
	fmt.Printf("roster %s created: %s - %s, %s sem of %s; %d students enrolled\n",
		ros.ID, ros.SubjectName, ros.SectionName, ros.Semester, ros.SchoolYear, ros.EnrolledCount)
	return nil
}

func (cli *commandLine) deleteRoster(id string) error {
	if err := cli.rosterSvc.Delete(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("roster %s deleted\n", id)
	return nil
}
