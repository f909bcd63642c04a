package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// State is the location of a manifest in the queue.
type State string

const (
	StatePending    State = "pending"
	StateReconciled State = "reconciled"
	StateFailed     State = "failed"
)

// States lists every queue state.
var States = []State{StatePending, StateReconciled, StateFailed}

var (
	// ErrNotFound is returned when an item is not where the caller expected it,
	// typically because another pass already moved it.
	ErrNotFound = errors.New("queue item not found")
	// ErrInvalidTransition is returned for anything other than pending to a terminal state.
	ErrInvalidTransition = errors.New("invalid queue transition")
	// ErrExists is returned when enqueuing a name that is already in the queue.
	ErrExists = errors.New("queue item already exists")
	// ErrInvalidName is returned for names that cannot be stored.
	ErrInvalidName = errors.New("invalid queue item name")
)

const (
	resultSuffix = ".result.json"
	errorSuffix  = ".error.json"
)

// ParseState converts a string into a State.
func ParseState(s string) (State, error) {
	switch st := State(strings.ToLower(strings.TrimSpace(s))); st {
	case StatePending, StateReconciled, StateFailed:
		return st, nil
	default:
		return "", fmt.Errorf("unknown queue state %q", s)
	}
}

// Terminal reports whether no transition leaves the state.
func (s State) Terminal() bool {
	return s == StateReconciled || s == StateFailed
}

// CanTransition reports whether from -> to is an allowed move.
func CanTransition(from, to State) bool {
	return from == StatePending && to.Terminal()
}

// Item is one manifest and its current location.
type Item struct {
	Name      string    `json:"name"`
	State     State     `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a durable queue of creation manifests.
type Store interface {
	// List returns the manifests in a state sorted by name. Sidecars are never listed.
	List(ctx context.Context, state State) ([]Item, error)
	// Read returns the raw manifest bytes.
	Read(ctx context.Context, item Item) ([]byte, error)
	// ReadSidecar returns the outcome payload of a terminal item.
	ReadSidecar(ctx context.Context, item Item) ([]byte, error)
	// Enqueue stores a new manifest in pending.
	Enqueue(ctx context.Context, name string, data []byte) (Item, error)
	// Transition moves a pending item to a terminal state together with its sidecar.
	// It returns ErrNotFound if the item is no longer pending.
	Transition(ctx context.Context, item Item, to State, sidecar []byte) (Item, error)
}

// SidecarName derives the outcome file name of a manifest in a terminal state
// from its full name, so distinct manifests never share a sidecar. It returns
// "" for pending.
func SidecarName(name string, state State) string {
	switch state {
	case StateReconciled:
		return name + resultSuffix
	case StateFailed:
		return name + errorSuffix
	default:
		return ""
	}
}

// IsSidecar reports whether name is an outcome file rather than a manifest.
func IsSidecar(name string) bool {
	return strings.HasSuffix(name, resultSuffix) || strings.HasSuffix(name, errorSuffix)
}

// ValidateName rejects names that are empty, hidden, nested or reserved for sidecars.
func ValidateName(name string) error {
	switch {
	case name == "", strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidName, name)
	case IsSidecar(name):
		return fmt.Errorf("%w: %q is a sidecar name", ErrInvalidName, name)
	}
	return nil
}

func checkTransition(item Item, to State) error {
	if !CanTransition(item.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, item.State, to)
	}
	return nil
}

func notFound(state State, name string) error {
	return fmt.Errorf("%w: %s/%s", ErrNotFound, state, name)
}
