// go-kinectfw
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-kinectfw.
//
// go-kinectfw is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-kinectfw is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-kinectfw; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Command k4wfw uploads firmware to the Kinect for Windows audio processor
// and inspects firmware images.
//
// Usage:
//
//	k4wfw [global options] <command> [options]
//
// Commands:
//   - upload IMAGE: send an image to the bootloader and start it
//   - status: read the version block of the booted firmware
//   - info IMAGE: print the image header and its upload plan
//   - detect: list candidate USB devices
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func newApp() *cli.App {
	return &cli.App{
		Name:           "k4wfw",
		Usage:          "Kinect for Windows audio firmware uploader",
		Version:        version,
		Flags:          globalFlags(),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			uploadCommand(),
			statusCommand(),
			infoCommand(),
			detectCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// exitErrHandler prints the error and exits, keeping cli.Exit codes.
func exitErrHandler(c *cli.Context, err error) {
	if err == nil {
		return
	}

	var w io.Writer = os.Stderr
	if c != nil && c.App != nil && c.App.ErrWriter != nil {
		w = c.App.ErrWriter
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		if msg := exitCoder.Error(); msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			_, _ = fmt.Fprintln(w, msg)
		}
		os.Exit(code)
	}

	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	os.Exit(1)
}
