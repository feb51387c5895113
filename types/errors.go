// Copyright (C) 2026 GatewayKit Contributors
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

package types

import "errors"

// Result sentinels shared by the network configuration layers. Callers
// classify outcomes with errors.Is; wrapped context travels alongside.
var (
	// ErrNotFound signals a missing backup or an absent lease entry.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate signals that the requested value is already in
	// effect. It is a no-op indication, not a failure.
	ErrDuplicate = errors.New("already set")

	// ErrOverflow signals that a value did not fit its bound and was
	// truncated.
	ErrOverflow = errors.New("value truncated")

	// ErrBadParameter signals malformed caller input.
	ErrBadParameter = errors.New("bad parameter")

	// ErrUnsupported signals a technology outside the supported range.
	ErrUnsupported = errors.New("technology not supported")

	// ErrFault is the generic failure: an OS call failed, resolution
	// failed, or no addresses were available to apply.
	ErrFault = errors.New("operation failed")
)

// ResultCode maps an operation outcome to its wire code. A nil error
// maps to "ok".
func ResultCode(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrNotFound):
		return "not-found"
	case errors.Is(err, ErrOverflow):
		return "overflow"
	case errors.Is(err, ErrBadParameter):
		return "bad-parameter"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	default:
		return "fault"
	}
}
