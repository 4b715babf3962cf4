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

// Package config loads k4wfw device profiles. A profile names the transport
// and the USB layout of the target; command-line flags override it.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ZaparooProject/go-kinectfw/detection"
)

// ErrInvalidProfile is returned when a profile fails validation.
var ErrInvalidProfile = errors.New("invalid device profile")

// ID is a USB vendor or product ID. Digits are hex whether or not the
// value is quoted or has a 0x prefix, as lsusb prints them: 0200 and
// "0200" both mean 0x0200.
type ID uint16

// UnmarshalYAML implements yaml.Unmarshaler
func (id *ID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: USB ID must be a scalar", node.Line)
	}

	s := strings.ToLower(strings.TrimSpace(node.Value))
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 16)
	if err != nil {
		return fmt.Errorf("line %d: invalid USB ID %q: %w", node.Line, node.Value, err)
	}
	*id = ID(v)
	return nil
}

// String renders the ID as four hex digits
func (id ID) String() string {
	return fmt.Sprintf("%04x", uint16(id))
}

// Profile describes how to reach the audio processor.
type Profile struct {
	// Blocklist adds VID:PID entries that detection skips
	Blocklist     []string `yaml:"blocklist"`
	Transport     string   `yaml:"transport"`
	Device        string   `yaml:"device"`
	LogLevel      string   `yaml:"log_level"`
	VendorID      ID       `yaml:"vendor_id"`
	ProductID     ID       `yaml:"product_id"`
	Configuration int      `yaml:"configuration"`
	Interface     int      `yaml:"interface"`
	EndpointIn    uint8    `yaml:"endpoint_in"`
	EndpointOut   uint8    `yaml:"endpoint_out"`
}

// Default returns the profile of the Kinect for Windows audio bootloader.
func Default() Profile {
	return Profile{
		Transport:     "usb",
		LogLevel:      "info",
		VendorID:      0x045e,
		ProductID:     0x02be,
		Configuration: 1,
		Interface:     0,
		EndpointIn:    0x81,
		EndpointOut:   0x01,
	}
}

// Load reads a YAML profile, expands environment variables, and overlays
// it on Default.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("profile not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read profile %q: %w", path, err)
	}

	profile := Default()
	if err := yaml.Unmarshal([]byte(ExpandEnv(string(data))), &profile); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &profile, nil
}

// Validate checks transport name, endpoint directions and log level.
func (p *Profile) Validate() error {
	switch p.Transport {
	case "usb", "usbfs":
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidProfile, p.Transport)
	}
	if p.EndpointIn&0x80 == 0 {
		return fmt.Errorf("%w: endpoint_in %#02x is not an IN endpoint", ErrInvalidProfile, p.EndpointIn)
	}
	if p.EndpointOut&0x80 != 0 {
		return fmt.Errorf("%w: endpoint_out %#02x is not an OUT endpoint", ErrInvalidProfile, p.EndpointOut)
	}
	if p.Configuration < 1 {
		return fmt.Errorf("%w: configuration must be at least 1", ErrInvalidProfile)
	}
	if p.Interface < 0 {
		return fmt.Errorf("%w: interface must not be negative", ErrInvalidProfile)
	}
	for _, entry := range p.Blocklist {
		if _, _, err := detection.ParseVIDPID(entry); err != nil {
			return fmt.Errorf("%w: blocklist: %w", ErrInvalidProfile, err)
		}
	}
	switch p.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidProfile, p.LogLevel)
	}
	return nil
}

// envRef matches ${NAME} and ${NAME:-fallback}.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv substitutes ${NAME} and ${NAME:-fallback} references with
// values from the process environment. Unset or empty variables take the
// fallback, or the empty string without one. Bare $NAME is left alone.
func ExpandEnv(input string) string {
	return expandEnv(input, os.LookupEnv)
}

func expandEnv(input string, lookup func(string) (string, bool)) string {
	var out strings.Builder
	last := 0
	for _, m := range envRef.FindAllStringSubmatchIndex(input, -1) {
		out.WriteString(input[last:m[0]])
		last = m[1]

		if value, ok := lookup(input[m[2]:m[3]]); ok && value != "" {
			out.WriteString(value)
		} else if m[4] >= 0 {
			out.WriteString(input[m[4]:m[5]])
		}
	}
	out.WriteString(input[last:])
	return out.String()
}
