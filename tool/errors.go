// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tool

import "errors"

var (
	// ErrUnknownKind is returned by ParseKind for unrecognised tool names.
	ErrUnknownKind = errors.New("tool: unknown kind")

	// ErrUnknownFamily is returned when no font is registered for a family.
	ErrUnknownFamily = errors.New("tool: unknown font family")
)
