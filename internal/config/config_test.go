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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "k4wfw.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	profile := Default()
	require.NoError(t, profile.Validate())
	assert.Equal(t, ID(0x045e), profile.VendorID)
	assert.Equal(t, ID(0x02be), profile.ProductID)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	t.Parallel()

	path := writeProfile(t, `
transport: usbfs
device: /dev/bus/usb/001/004
product_id: "02C3"
`)

	profile, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "usbfs", profile.Transport)
	assert.Equal(t, "/dev/bus/usb/001/004", profile.Device)
	assert.Equal(t, ID(0x02c3), profile.ProductID)
	assert.Equal(t, ID(0x045e), profile.VendorID)
	assert.Equal(t, uint8(0x81), profile.EndpointIn)
	assert.Equal(t, "info", profile.LogLevel)
}

func TestLoad_HexIntegers(t *testing.T) {
	t.Parallel()

	path := writeProfile(t, "vendor_id: 0x1234\nproduct_id: 0xabcd\nendpoint_in: 0x82\nendpoint_out: 0x02\n")

	profile, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ID(0x1234), profile.VendorID)
	assert.Equal(t, ID(0xabcd), profile.ProductID)
	assert.Equal(t, uint8(0x82), profile.EndpointIn)
	assert.Equal(t, uint8(0x02), profile.EndpointOut)
}

func TestLoad_IDsAreHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		vendor  ID
		product ID
	}{
		{name: "leading zero", body: "vendor_id: 045e\nproduct_id: 0200\n", vendor: 0x045e, product: 0x0200},
		{name: "decimal looking", body: "vendor_id: 1234\nproduct_id: 0010\n", vendor: 0x1234, product: 0x0010},
		{name: "quoted", body: "vendor_id: \"1234\"\nproduct_id: \"0200\"\n", vendor: 0x1234, product: 0x0200},
		{name: "prefixed", body: "vendor_id: 0X045E\nproduct_id: 0x2c3\n", vendor: 0x045e, product: 0x02c3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			profile, err := Load(writeProfile(t, tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.vendor, profile.VendorID)
			assert.Equal(t, tt.product, profile.ProductID)
		})
	}
}

func TestLoad_Blocklist(t *testing.T) {
	t.Parallel()

	profile, err := Load(writeProfile(t, "blocklist:\n  - 045e:02bf\n  - VID:1234 PID:0001\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"045e:02bf", "VID:1234 PID:0001"}, profile.Blocklist)

	_, err = Load(writeProfile(t, "blocklist:\n  - camera\n"))
	require.ErrorIs(t, err, ErrInvalidProfile)
}

//nolint:paralleltest // uses t.Setenv
func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("K4WFW_TEST_DEVICE", "1:9")

	path := writeProfile(t, "device: ${K4WFW_TEST_DEVICE}\nlog_level: ${K4WFW_TEST_UNSET:-debug}\n")

	profile, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1:9", profile.Device)
	assert.Equal(t, "debug", profile.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{name: "bad yaml", body: "transport: [usb"},
		{name: "bad id", body: "vendor_id: \"xyz\""},
		{name: "id overflow", body: "vendor_id: 0x10000"},
		{name: "unknown transport", body: "transport: serial", invalid: true},
		{name: "in endpoint without direction bit", body: "endpoint_in: 0x01", invalid: true},
		{name: "out endpoint with direction bit", body: "endpoint_out: 0x81", invalid: true},
		{name: "configuration zero", body: "configuration: 0", invalid: true},
		{name: "unknown log level", body: "log_level: loud", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeProfile(t, tt.body))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidProfile)
			} else {
				assert.NotErrorIs(t, err, ErrInvalidProfile)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile not found")
}

//nolint:paralleltest // uses t.Setenv
func TestExpandEnv(t *testing.T) {
	t.Setenv("K4WFW_A", "alice")
	t.Setenv("K4WFW_EMPTY", "")

	assert.Equal(t, "alice", ExpandEnv("${K4WFW_A}"))
	assert.Equal(t, "fallback", ExpandEnv("${K4WFW_EMPTY:-fallback}"))
	assert.Equal(t, "x=", ExpandEnv("x=${K4WFW_UNSET_12345}"))
	assert.Equal(t, "$HOME", ExpandEnv("$HOME"))
}

func TestExpandEnvLookup(t *testing.T) {
	t.Parallel()

	env := map[string]string{"BUS": "1", "ADDR": "4", "EMPTY": ""}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	tests := []struct {
		input string
		want  string
	}{
		{input: "device: ${BUS}:${ADDR}", want: "device: 1:4"},
		{input: "${MISSING:-usb}", want: "usb"},
		{input: "${EMPTY:-fallback}", want: "fallback"},
		{input: "${EMPTY}", want: ""},
		{input: "${MISSING:-}x", want: "x"},
		{input: "no refs, $BUS stays", want: "no refs, $BUS stays"},
		{input: "${unterminated", want: "${unterminated"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, expandEnv(tt.input, lookup), tt.input)
	}
}

func TestIDString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "045e", ID(0x045e).String())
}
