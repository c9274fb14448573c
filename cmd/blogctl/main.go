// Command blogctl manages blog entries directly against the store:
// seeding from YAML, publishing, reindexing and quick lookups.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/personal-page/site/internal/config"
	"github.com/personal-page/site/internal/database"
	"github.com/personal-page/site/internal/models"
	"github.com/personal-page/site/internal/repository"
	"github.com/personal-page/site/internal/service"
	"github.com/personal-page/site/pkg/logger"
	flag "github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("blogctl", flag.ContinueOnError)
	flags.SetOutput(stderr)
	migrate := flags.Bool("migrate", true, "apply pending migrations before running the command")
	verbose := flags.BoolP("verbose", "v", false, "log at debug level")
	flags.Usage = func() { printUsage(stderr, flags) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() < 1 {
		printUsage(stderr, flags)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	level := cfg.Log.Level
	if *verbose {
		level = "debug"
	}
	log := logger.NewWithWriter(stderr, level, "pretty")

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer db.Close()

	command, rest := flags.Arg(0), flags.Args()[1:]

	if command == "migrate-down" {
		if err := db.MigrateDown(cfg.MigrationsPath); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}
	if *migrate {
		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}

	services := service.NewServices(repository.New(db), cfg, log)
	if err := dispatch(context.Background(), services, command, rest, stdout); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func dispatch(ctx context.Context, services *service.Services, command string, args []string, out io.Writer) error {
	switch command {
	case "seed":
		if len(args) != 1 {
			return errors.New("usage: blogctl seed <file.yaml>")
		}
		return runSeed(ctx, services, args[0], out)
	case "publish", "unpublish":
		if len(args) != 1 {
			return fmt.Errorf("usage: blogctl %s <slug>", command)
		}
		entry, err := services.Entry.SetPublished(ctx, args[0], command == "publish")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: published=%t\n", entry.Slug, entry.Published)
		return nil
	case "reindex":
		n, err := services.Search.Reindex(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Reindexed %d entries\n", n)
		return nil
	case "drafts":
		entries, err := services.Entry.Drafts(ctx)
		if err != nil {
			return err
		}
		printEntries(out, entries)
		return nil
	case "search":
		results, err := services.Search.Search(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(out, "No results found")
			return nil
		}
		for i, r := range results {
			fmt.Fprintf(out, "%d. %s (/blog/%s)  score %.3f\n", i+1, r.Entry.Title, r.Entry.Slug, r.Score)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func runSeed(ctx context.Context, services *service.Services, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := services.Seed.Seed(ctx, f)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Total:   %d\n", report.Total)
	fmt.Fprintf(out, "Created: %d\n", report.Created)
	fmt.Fprintf(out, "Updated: %d\n", report.Updated)
	fmt.Fprintf(out, "Failed:  %d\n", report.Failed)
	for _, e := range report.Errors {
		fmt.Fprintf(out, "  entry %d: %s\n", e.Record, e.Error())
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d entries failed", report.Failed, report.Total)
	}
	return nil
}

func printEntries(out io.Writer, entries []*models.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %-40s  %s\n", e.Timestamp.Format("2006-01-02"), e.Slug, e.Title)
	}
}

func printUsage(w io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: blogctl [flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  seed <file.yaml>    create or update entries from a seed file; a record")
	fmt.Fprintln(w, "                      whose slug is already stored updates that entry")
	fmt.Fprintln(w, "  publish <slug>      publish an entry")
	fmt.Fprintln(w, "  unpublish <slug>    turn an entry back into a draft")
	fmt.Fprintln(w, "  drafts              list drafts")
	fmt.Fprintln(w, "  search <query>      run a search against published entries")
	fmt.Fprintln(w, "  reindex             rebuild the search index from entries")
	fmt.Fprintln(w, "  migrate-down        roll back the last migration")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, flags.FlagUsages())
}
