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

// Package cli holds the command line flags shared by the kitanda binaries
// and the one-shot actions they trigger.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/KitandaProject/kitanda-core/pkg/config"
	"github.com/KitandaProject/kitanda-core/pkg/helpers"
	"github.com/KitandaProject/kitanda-core/pkg/service"
	"github.com/rs/zerolog/log"
)

var ErrMissingUser = errors.New("action requires -user")

type Flags struct {
	set           *flag.FlagSet
	Version       *bool
	Serve         *bool
	ConfigDir     *string
	User          *string
	Resolve       *string
	Learn         *string
	Search        *string
	ImportCatalog *string
	Reject        *int64
}

// SetupFlags defines all common CLI flags on set.
func SetupFlags(set *flag.FlagSet) *Flags {
	return &Flags{
		set: set,
		Version: set.Bool(
			"version",
			false,
			"print version and exit",
		),
		Serve: set.Bool(
			"serve",
			false,
			"run the HTTP API in the foreground",
		),
		ConfigDir: set.String(
			"config",
			"",
			"directory holding "+config.CfgFile+" (default: XDG config home)",
		),
		User: set.String(
			"user",
			"",
			"user the action applies to",
		),
		Resolve: set.String(
			"resolve",
			"",
			"run a transcript through the pipeline and print the result",
		),
		Learn: set.String(
			"learn",
			"",
			"store a correction, written as original=corrected",
		),
		Search: set.String(
			"search",
			"",
			"rank the user's catalog against a query",
		),
		ImportCatalog: set.String(
			"import-catalog",
			"",
			"replace the user's catalog with a CSV export",
		),
		Reject: set.Int64(
			"reject",
			0,
			"deactivate a stored correction by id",
		),
	}
}

func (f *Flags) isFlagPassed(name string) bool {
	found := false
	f.set.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

// Pre parses args and actions any immediate flags that don't require
// environment setup. done reports that the program should exit.
func (f *Flags) Pre(args []string, out io.Writer) (done bool, err error) {
	if err := f.set.Parse(args); err != nil {
		return true, fmt.Errorf("failed to parse flags: %w", err)
	}
	if *f.Version {
		_, _ = fmt.Fprintf(out, "Kitanda v%s\n", config.AppVersion)
		return true, nil
	}
	return false, nil
}

// Setup initializes logging and the user config.
//
//nolint:gocritic // config struct copied for immutability
func Setup(configDir string, defaults config.Values, writers []io.Writer) (*config.Instance, error) {
	if configDir == "" {
		configDir = helpers.ConfigDir()
	}

	cfg, err := config.NewConfig(configDir, defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := helpers.InitLogging(helpers.LogDir(), cfg.DebugLogging(), writers...); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	return cfg, nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func parseLearn(value string) (original, corrected string, err error) {
	original, corrected, ok := strings.Cut(value, "=")
	if !ok {
		return "", "", fmt.Errorf("learn value %q must be original=corrected", value)
	}
	return original, corrected, nil
}

// Post actions the one-shot flags against a running service. handled
// reports whether any action flag was given.
func (f *Flags) Post(ctx context.Context, svc *service.Service, out io.Writer) (handled bool, err error) {
	user := *f.User
	needsUser := f.isFlagPassed("resolve") || f.isFlagPassed("learn") || f.isFlagPassed("search") ||
		f.isFlagPassed("import-catalog") || f.isFlagPassed("reject")
	if needsUser && user == "" {
		return true, ErrMissingUser
	}

	switch {
	case f.isFlagPassed("resolve"):
		res, err := svc.Processor.Process(ctx, user, *f.Resolve)
		if err != nil {
			log.Error().Err(err).Msg("error resolving transcript")
			return true, fmt.Errorf("failed to resolve: %w", err)
		}
		return true, printJSON(out, res)
	case f.isFlagPassed("learn"):
		original, corrected, err := parseLearn(*f.Learn)
		if err != nil {
			return true, err
		}
		if err := svc.Processor.SubmitCorrection(ctx, user, original, corrected); err != nil {
			return true, err
		}
		_, _ = fmt.Fprintf(out, "learned: %s -> %s\n", original, corrected)
		return true, nil
	case f.isFlagPassed("search"):
		results := svc.Processor.Search(ctx, user, *f.Search, svc.Config.RankThreshold())
		return true, printJSON(out, results)
	case f.isFlagPassed("import-catalog"):
		n, err := svc.ImportCatalog(ctx, user, *f.ImportCatalog)
		if err != nil {
			return true, err
		}
		_, _ = fmt.Fprintf(out, "imported %d products\n", n)
		return true, nil
	case f.isFlagPassed("reject"):
		if err := svc.Processor.RejectCorrection(ctx, user, *f.Reject); err != nil {
			return true, err
		}
		_, _ = fmt.Fprintf(out, "rejected correction %d\n", *f.Reject)
		return true, nil
	}
	return false, nil
}
