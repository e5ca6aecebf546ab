// Kitanda Core
// Copyright (c) 2026 The Kitanda Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Kitanda Core.
//
// Kitanda Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Kitanda Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Kitanda Core.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/KitandaProject/kitanda-core/pkg/cli"
	"github.com/KitandaProject/kitanda-core/pkg/config"
	"github.com/KitandaProject/kitanda-core/pkg/helpers"
	"github.com/KitandaProject/kitanda-core/pkg/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)

	done, err := flags.Pre(os.Args[1:], os.Stdout)
	if done || err != nil {
		return err
	}

	var logWriters []io.Writer
	if *flags.Serve {
		logWriters = []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	}

	cfg, err := cli.Setup(*flags.ConfigDir, config.BaseDefaults, logWriters)
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := service.New(ctx, cfg, service.Options{DataDir: helpers.DataDir()})
	if err != nil {
		log.Error().Err(err).Msg("error starting service")
		return fmt.Errorf("error starting service: %w", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error().Err(err).Msg("error stopping service")
		}
	}()

	handled, err := flags.Post(ctx, svc, os.Stdout)
	if handled || err != nil {
		return err
	}

	if !*flags.Serve {
		flag.Usage()
		return nil
	}

	log.Info().Msg("started in serve mode")
	return svc.Serve(ctx)
}
