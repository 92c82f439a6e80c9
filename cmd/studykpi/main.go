// Package main prints the study KPI report.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	studykpicmd "github.com/louisbranch/studyforge/internal/cmd/studykpi"
	entrypoint "github.com/louisbranch/studyforge/internal/platform/cmd"
	"github.com/louisbranch/studyforge/internal/platform/config"
)

func main() {
	cfg, err := studykpicmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceStudyKPI))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := studykpicmd.Run(ctx, cfg); err != nil {
		log.Fatalf("report: %v", err)
	}
}
