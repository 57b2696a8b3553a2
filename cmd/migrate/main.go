package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"wedding-planner/internal/config"
	"wedding-planner/internal/database"
	"wedding-planner/internal/database/migrations"
	"wedding-planner/internal/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate [-schema-only] up | down | to <version> | version")
	os.Exit(2)
}

func main() {
	schemaOnly := flag.Bool("schema-only", false, "skip the reference data migrations on up")
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}

	if err := godotenv.Load(); err != nil {
		fmt.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "migrate"})
	defer log.Close()

	if cfg.Database.Driver != database.DriverPostgres {
		log.Fatal("MIGRATION", fmt.Sprintf("migrations target postgres, DB_DRIVER is %q", cfg.Database.Driver))
	}

	bunDB, err := database.Connect(context.Background(), cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}

	opts := migrations.DefaultOptions()
	opts.SeedData = !*schemaOnly
	runner := migrations.NewRunner(bunDB, opts, log)
	defer func() {
		if err := runner.Close(); err != nil {
			log.Error("MIGRATION", err.Error())
		}
	}()

	switch flag.Arg(0) {
	case "up":
		err = runner.RunMigrations()
	case "down":
		err = runner.MigrateDown()
	case "to":
		if flag.NArg() < 2 {
			usage()
		}
		var v uint64
		if v, err = strconv.ParseUint(flag.Arg(1), 10, 32); err == nil {
			err = runner.MigrateTo(uint(v))
		}
	case "version":
		var (
			v     uint
			dirty bool
		)
		if v, dirty, err = runner.Version(); err == nil {
			fmt.Printf("version %d (dirty: %t)\n", v, dirty)
		}
	default:
		usage()
	}
	if err != nil {
		log.Error("MIGRATION", err.Error())
		os.Exit(1)
	}
}
