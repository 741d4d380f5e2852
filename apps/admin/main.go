package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/audit"
	"github.com/shsportal/backend/core/directory"
	"github.com/shsportal/backend/core/roster"
	emailsvc "github.com/shsportal/backend/services/email"
	logsvc "github.com/shsportal/backend/services/logger"
	"github.com/shsportal/backend/storage/database"
	sqlxrepos "github.com/shsportal/backend/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	svcLogger := logsvc.NewRollbarLogger(logger, conf)
	svcLogger.Enable(false)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	sqlxDB := sqlx.NewDb(db, conf.Database.Engine)

	// set up services
	dirSvc := directory.NewService(sqlxrepos.NewDirectoryRepository(sqlxDB))
	auditSvc := audit.NewService(sqlxrepos.NewAuditRepository(sqlxDB), svcLogger)
	rosterSvc := roster.NewService(
		sqlxrepos.NewRosterRepository(sqlxDB),
		dirSvc,
		auditSvc,
		emailsvc.NewConsoleService(conf),
		svcLogger,
		conf,
	)

	// start CLI
	cli := commandLine{
		db:        db,
		rosterSvc: rosterSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
