// Package main implements a CHIP-8 virtual machine
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/chip8go/internal/chip8"
	"github.com/retroenv/chip8go/internal/cli"
	"github.com/retroenv/chip8go/internal/config"
	"github.com/retroenv/chip8go/internal/fileprocessor"
	"github.com/retroenv/chip8go/internal/loader"
	"github.com/retroenv/chip8go/internal/options"
	"github.com/retroenv/chip8go/internal/ui"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

const appName = "chip8go"

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, emuOptions, err := cli.ParseEmulatorFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts, appName, version, commit, date)
			usageErr.ShowUsage()
		} else {
			logger.Fatal(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts, appName, version, commit, date)

	if err := run(ctx, logger, opts, emuOptions); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Fatal("Emulation failed", log.Err(err))
	}
}

func run(ctx context.Context, logger *log.Logger, opts options.Program,
	emuOptions options.Emulator) error {

	program, err := loader.Load(logger, opts.Input)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	machine := chip8.New(logger, chip8.Options{
		CyclesPerSecond: emuOptions.CyclesPerSecond,
	})
	if err := machine.Load(program); err != nil {
		return fmt.Errorf("loading program into machine: %w", err)
	}

	if !emuOptions.Mute {
		beeper, err := ui.NewBeeper()
		if err != nil {
			logger.Warn("Sound output disabled", log.Err(err))
		} else {
			defer func() {
				_ = beeper.Close()
			}()
			machine.RegisterNotifier(beeper)
		}
	}

	video, err := ui.New(emuOptions.Video, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting emulation",
		log.String("program", opts.Input),
		log.String("video", string(emuOptions.Video)))

	return video.Run(ctx, machine)
}
