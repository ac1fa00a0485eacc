// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package status

import "context"

// PingerInterface is implemented by every backing service the API reports on.
type PingerInterface interface {
	Ping(context.Context) error
}
