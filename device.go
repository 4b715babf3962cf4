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

package kinectfw

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ZaparooProject/go-kinectfw/internal/frame"
)

var errBadReadCount = errors.New("transport reported an impossible read count")

// Device drives request/response exchanges with the audio bootloader.
//
// Thread Safety: Device is NOT thread-safe. The protocol allows exactly one
// outstanding exchange, and Device makes no attempt to serialize callers;
// a Device and its transport belong to a single goroutine.
type Device struct {
	transport Transport
	log       *zap.Logger
	progress  ProgressFunc
}

// New creates a device that talks over transport.
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, errors.New("transport cannot be nil")
	}

	device := &Device{
		transport: transport,
		log:       zap.NewNop(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Close closes the device connection
func (d *Device) Close() error {
	if d.transport != nil {
		if err := d.transport.Close(); err != nil {
			return fmt.Errorf("failed to close transport: %w", err)
		}
	}
	return nil
}

// Send performs an exchange that carries payload to the device: the
// command frame, then payload in PacketSize writes, then the status frame.
func (d *Device) Send(op Operation, tag, address uint32, payload []byte) error {
	if err := d.writeCommand(op, tag, address, uint32(len(payload))); err != nil {
		return err
	}

	for packet := range frame.Packets(payload) {
		if ce := d.log.Check(zap.DebugLevel, "sending packet"); ce != nil {
			ce.Write(
				zap.Uint32("tag", tag),
				hexField("address", address),
				zap.Int("len", len(packet)))
		}
		if err := d.write("write packet", packet); err != nil {
			return err
		}
	}

	status, err := d.readStatus()
	if err != nil {
		return err
	}

	return checkStatus(op, tag, status)
}

// Receive performs an exchange that reads size bytes back from the
// device: the command frame, one response transfer, then the status frame.
func (d *Device) Receive(op Operation, tag, address, size uint32) (*Response, error) {
	if err := d.writeCommand(op, tag, address, size); err != nil {
		return nil, err
	}

	response := &Response{}
	if err := d.read("read response", response); err != nil {
		return nil, err
	}
	d.log.Debug("received response", zap.Uint32("tag", tag), zap.Int("len", response.Len()))

	status, err := d.readStatus()
	if err != nil {
		return nil, err
	}

	if uint64(response.Len()) != uint64(size) {
		return nil, &PayloadSizeError{Expected: int(size), Actual: response.Len()}
	}

	if err := checkStatus(op, tag, status); err != nil {
		return nil, err
	}

	return response, nil
}

func (d *Device) writeCommand(op Operation, tag, address, size uint32) error {
	cmd := frame.Command{
		Tag:       tag,
		Size:      size,
		Operation: uint32(op),
		Address:   address,
	}
	if ce := d.log.Check(zap.DebugLevel, "sending command"); ce != nil {
		ce.Write(
			zap.Stringer("operation", op),
			zap.Uint32("tag", tag),
			hexField("size", size),
			hexField("address", address))
	}

	buf := cmd.Bytes()
	return d.write("write command", buf[:])
}

func (d *Device) readStatus() (frame.Status, error) {
	var raw Response
	if err := d.read("read status", &raw); err != nil {
		return frame.Status{}, err
	}

	status, err := frame.ParseStatus(raw.Bytes())
	if err != nil {
		return frame.Status{}, malformed("status", err)
	}
	return status, nil
}

func checkStatus(op Operation, tag uint32, status frame.Status) error {
	if status.Tag != tag {
		return &TagMismatchError{Expected: tag, Actual: status.Tag}
	}
	if !status.Success {
		return &RejectedError{Operation: op, Tag: tag, Result: status.Result}
	}
	return nil
}

func (d *Device) write(op string, p []byte) error {
	n, err := d.transport.Write(p)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if n != len(p) {
		return &TransportError{Op: op, Err: fmt.Errorf("%w: wrote %d of %d bytes", io.ErrShortWrite, n, len(p))}
	}
	return nil
}

func (d *Device) read(op string, into *Response) error {
	n, err := d.transport.Read(into.data[:])
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if n < 0 || n > len(into.data) {
		return &TransportError{Op: op, Err: fmt.Errorf("%w: %d", errBadReadCount, n)}
	}
	into.n = n
	return nil
}

func hexField(key string, v uint32) zap.Field {
	return zap.String(key, fmt.Sprintf("%#x", v))
}
