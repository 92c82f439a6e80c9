// Package main starts the study daemon process lifecycle.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	studydcmd "github.com/louisbranch/studyforge/internal/cmd/studyd"
	entrypoint "github.com/louisbranch/studyforge/internal/platform/cmd"
	"github.com/louisbranch/studyforge/internal/platform/config"
)

func main() {
	cfg, err := studydcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix(entrypoint.LogPrefix(entrypoint.ServiceStudyd))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := studydcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to run: %v", err)
	}
}
