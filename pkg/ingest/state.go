// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/google/uuid"
)

// State is one step of a job's lifecycle. A job advances
// created → resolving → provisioning → walking → reading → assembling →
// done, or drops into a terminal error state.
type State string

const (
	StateCreated      State = "created"
	StateResolving    State = "resolving"
	StateProvisioning State = "provisioning"
	StateWalking      State = "walking"
	StateReading      State = "reading"
	StateAssembling   State = "assembling"
	StateDone         State = "done"

	StateUnauthorized  State = "unauthorized"
	StateNotFound      State = "not_found"
	StateRefNotFound   State = "ref_not_found"
	StateQuotaExceeded State = "quota_exceeded"
	StateIOError       State = "io_error"
	StateCancelled     State = "cancelled"
	StateTimeout       State = "timeout"
	StateError         State = "error"
)

// Terminal reports whether no further transition is legal; the only
// resumption from a terminal state is a new job.
func (s State) Terminal() bool {
	switch s {
	case StateCreated, StateResolving, StateProvisioning, StateWalking, StateReading, StateAssembling:
		return false
	}
	return true
}

// Observer is notified of every state transition of a job.
type Observer func(id uuid.UUID, state State)

// errorState maps a failure to its terminal state.
func errorState(err error) State {
	switch errkind.KindOf(err) {
	case errkind.Unauthorized, errkind.InvalidToken:
		return StateUnauthorized
	case errkind.NotFound:
		return StateNotFound
	case errkind.RefNotFound:
		return StateRefNotFound
	case errkind.QuotaExceeded:
		return StateQuotaExceeded
	case errkind.IOError:
		return StateIOError
	case errkind.Cancelled:
		return StateCancelled
	case errkind.Timeout:
		return StateTimeout
	}
	return StateError
}
