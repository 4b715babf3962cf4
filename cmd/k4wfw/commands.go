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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/term"

	kinectfw "github.com/ZaparooProject/go-kinectfw"
	"github.com/ZaparooProject/go-kinectfw/detection"
)

func uploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload a firmware image to the bootloader and execute it",
		ArgsUsage: "IMAGE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the exchanges without opening a device",
			},
		},
		Action: uploadAction,
	}
}

func uploadAction(c *cli.Context) error {
	image, err := readImage(c)
	if err != nil {
		return err
	}

	if c.Bool("dry-run") {
		return printPlan(c, image)
	}

	// Fail on a bad image before touching the device.
	if _, err := kinectfw.Plan(image); err != nil {
		return err
	}

	profile, err := resolveProfile(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(c.App.ErrWriter, profile.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts := []kinectfw.Option{kinectfw.WithLogger(logger)}
	var bar *progressbar.ProgressBar
	if c.Bool(noProgressFlag.Name) || profile.LogLevel == "debug" || !isTerminal(c.App.ErrWriter) {
		opts = append(opts, kinectfw.WithProgress(logProgress(logger)))
	} else {
		bar = newProgressBar(c, len(image))
		opts = append(opts, kinectfw.WithProgress(barProgress(bar)))
	}

	transport, err := openTransport(c.Context, profile)
	if err != nil {
		return err
	}
	device, err := kinectfw.New(transport, opts...)
	if err != nil {
		_ = transport.Close()
		return err
	}
	defer func() { _ = device.Close() }()

	logger.Info("uploading firmware",
		zap.String("image", c.Args().First()),
		zap.String("transport", string(transport.Type())),
		zap.Int("bytes", len(image)))

	if err := device.Upload(image); err != nil {
		if bar != nil {
			_ = bar.Exit()
			_, _ = fmt.Fprintln(c.App.ErrWriter)
		}
		return err
	}
	if bar != nil {
		_ = bar.Finish()
		_, _ = fmt.Fprintln(c.App.ErrWriter)
	}
	_, _ = fmt.Fprintln(c.App.Writer, "firmware uploaded and started")
	return nil
}

func newProgressBar(c *cli.Context, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(c.App.ErrWriter),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Uploading"),
		progressbar.OptionShowBytes(true),
	)
}

// isTerminal is false only for files that are not a terminal, so redirected
// output gets log lines instead of bar redraws.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return term.IsTerminal(int(f.Fd()))
}

func barProgress(bar *progressbar.ProgressBar) kinectfw.ProgressFunc {
	return func(p kinectfw.Progress) {
		bar.Describe(fmt.Sprintf("%-7s %d/%d", p.Operation, p.Step, p.Steps))
		_ = bar.Set(p.BytesWritten)
	}
}

func logProgress(logger *zap.Logger) kinectfw.ProgressFunc {
	return func(p kinectfw.Progress) {
		logger.Info("step complete",
			zap.Stringer("operation", p.Operation),
			zap.Int("step", p.Step),
			zap.Int("steps", p.Steps),
			zap.Uint32("tag", p.Tag),
			zap.Int("bytes_written", p.BytesWritten))
	}
}

func printPlan(c *cli.Context, image []byte) error {
	steps, err := kinectfw.Plan(image)
	if err != nil {
		return err
	}

	w := c.App.Writer
	for i, step := range steps {
		size := len(step.Payload)
		if step.Receive {
			size = int(step.ResponseSize)
		}
		_, _ = fmt.Fprintf(w, "%3d  %-7s tag %-4d address 0x%06x size %#x\n",
			i+1, step.Operation, step.Tag, step.Address, size)
	}
	return nil
}

func readImage(c *cli.Context) ([]byte, error) {
	if c.NArg() != 1 {
		return nil, cli.Exit("expected exactly one IMAGE argument", 2)
	}
	image, err := os.ReadFile(c.Args().First())
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return image, nil
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Read the firmware version block from the booted device",
		Description: "Targets the booted audio device (product 02c3) unless --pid " +
			"or the profile's product_id says otherwise.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "tag",
				Usage: "Sequence tag for the exchange",
				Value: "0x1337",
			},
		},
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	tag, err := parseTag(c.String("tag"))
	if err != nil {
		return err
	}

	profile, err := resolveProfile(c)
	if err != nil {
		return err
	}
	if profile.ProductID == kinectfw.ProductK4WAudioBootloader && !c.IsSet(pidFlag.Name) {
		profile.ProductID = kinectfw.ProductK4WAudio
	}

	logger, err := newLogger(c.App.ErrWriter, profile.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	transport, err := openTransport(c.Context, profile)
	if err != nil {
		return err
	}
	device, err := kinectfw.New(transport, kinectfw.WithLogger(logger))
	if err != nil {
		_ = transport.Close()
		return err
	}
	defer func() { _ = device.Close() }()

	status, err := device.FirmwareStatus(tag)
	if err != nil {
		return err
	}

	w := c.App.Writer
	for i, v := range status.Versions {
		_, _ = fmt.Fprintf(w, "version %d: %s\n", i, v)
	}
	if c.Bool(debugFlag.Name) {
		_, _ = fmt.Fprintf(w, "raw: % x\n", status.Raw)
	}
	return nil
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print the header and upload plan of a firmware image",
		ArgsUsage: "IMAGE",
		Action:    infoAction,
	}
}

func infoAction(c *cli.Context) error {
	image, err := readImage(c)
	if err != nil {
		return err
	}

	header, err := kinectfw.ParseHeader(image)
	if err != nil {
		return err
	}

	w := c.App.Writer
	_, _ = fmt.Fprint(w, header)
	if err := header.CheckSize(len(image)); err != nil {
		_, _ = fmt.Fprintf(w, "warning: %v\n", err)
		return cli.Exit("", 1)
	}

	pages := (len(image) + kinectfw.PageSize - 1) / kinectfw.PageSize
	_, _ = fmt.Fprintf(w, "pages        %d\n", pages)
	return nil
}

func detectCommand() *cli.Command {
	return &cli.Command{
		Name:  "detect",
		Usage: "List candidate USB devices",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Include devices from other vendors",
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "Device path to skip (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "block",
				Usage: "VID:PID to skip (repeatable)",
			},
		},
		Action: detectAction,
	}
}

func detectAction(c *cli.Context) error {
	profile, err := resolveProfile(c)
	if err != nil {
		return err
	}

	opts := detection.DefaultOptions()
	opts.VendorID = uint16(profile.VendorID)
	opts.AllVendors = c.Bool("all")
	opts.IgnorePaths = c.StringSlice("ignore")
	opts.Blocklist = append(opts.Blocklist, profile.Blocklist...)
	for _, entry := range c.StringSlice("block") {
		if _, _, err := detection.ParseVIDPID(entry); err != nil {
			return fmt.Errorf("--block: %w", err)
		}
		opts.Blocklist = append(opts.Blocklist, entry)
	}

	devices, err := detection.DetectAll(c.Context, &opts)
	if errors.Is(err, detection.ErrNoDevicesFound) {
		_, _ = fmt.Fprintln(c.App.Writer, "no devices found")
		return nil
	}
	if err != nil {
		return err
	}

	w := c.App.Writer
	for _, d := range devices {
		_, _ = fmt.Fprintf(w, "%-6s %-22s %s  %-6s %s\n",
			d.Transport, d.Path, detection.FormatVIDPID(d.VendorID, d.ProductID), d.Confidence, d.Name)
	}
	return nil
}
