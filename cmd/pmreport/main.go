package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/pm-assistant-api/internal/config"
	"github.com/yukikurage/pm-assistant-api/internal/logging"
	"github.com/yukikurage/pm-assistant-api/internal/report"
	"github.com/yukikurage/pm-assistant-api/internal/repository"
	"github.com/yukikurage/pm-assistant-api/internal/services"
)

const usage = `usage: pmreport <command> [flags]

commands:
  workload              workload of every member
  task -id <task_id>    time summary of one task
  project -id <id>      progress summary of one project
`

// errUsage is returned for invocations that cannot be run
var errUsage = errors.New("invalid invocation")

// command is a parsed pmreport invocation
type command struct {
	name string
	id   string
}

func parseArgs(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, fmt.Errorf("%w: missing command", errUsage)
	}

	cmd := command{name: args[0]}
	fs := flag.NewFlagSet("pmreport "+cmd.name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cmd.id, "id", "", "task or project id")

	if err := fs.Parse(args[1:]); err != nil {
		return command{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 0 {
		return command{}, fmt.Errorf("%w: unexpected arguments %q", errUsage, strings.Join(fs.Args(), " "))
	}

	switch cmd.name {
	case "workload":
	case "task", "project":
		if cmd.id == "" {
			return command{}, fmt.Errorf("%w: %s requires -id", errUsage, cmd.name)
		}
	default:
		return command{}, fmt.Errorf("%w: unknown command %q", errUsage, cmd.name)
	}
	return cmd, nil
}

// run executes cmd and writes the rendered report to out
func run(ctx context.Context, cmd command, analytics *services.AnalyticsService, renderer *report.Renderer, out io.Writer) error {
	var rendered string
	switch cmd.name {
	case "workload":
		workloads, err := analytics.TeamWorkload(ctx)
		if err != nil {
			return err
		}
		rendered = renderer.Workloads(workloads)
	case "task":
		summary, err := analytics.TaskTimeSummary(ctx, cmd.id)
		if err != nil {
			return err
		}
		rendered = renderer.TimeSummary(*summary)
	case "project":
		summary, err := analytics.ProjectSummary(ctx, cmd.id)
		if err != nil {
			return err
		}
		rendered = renderer.ProjectSummary(*summary)
	}

	_, err := fmt.Fprintln(out, rendered)
	return err
}

func main() {
	cmd, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// Keep stdout for the report
	logging.Logger.SetOutput(os.Stderr)
	logging.Logger.SetLevel(logrus.WarnLevel)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	store, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeStore(context.Background())

	analytics := services.NewAnalyticsService(repository.NewAnalyticsGateway(store))
	if err := run(ctx, cmd, analytics, report.NewRenderer(report.Default), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		closeStore(context.Background())
		os.Exit(1)
	}
}
