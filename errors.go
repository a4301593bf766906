package layerdag

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Use errors.Is to test for these against a returned
// error.
var (
	ErrCycleDetected   = errors.New("layerdag: cycle detected")
	ErrUnknownEndpoint = errors.New("layerdag: unknown edge endpoint")
)

// CycleError reports that a batch would have introduced a directed cycle.
// Cycle is the ordered list of node ids forming the cycle; its first and
// last elements coincide.
type CycleError struct {
	Cycle []NodeID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		parts[i] = string(id)
	}
	return fmt.Sprintf("Cycle detected: %s", strings.Join(parts, " → "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}

// UnknownEndpointError reports that an added edge referenced a node id
// absent from the graph at the point edges are applied.
type UnknownEndpointError struct {
	EdgeID   EdgeID
	NodeID   NodeID
	Endpoint string // "source" or "target"
}

func (e *UnknownEndpointError) Error() string {
	return fmt.Sprintf("layerdag: edge %s has unknown %s node %s", e.EdgeID, e.Endpoint, e.NodeID)
}

func (e *UnknownEndpointError) Unwrap() error {
	return ErrUnknownEndpoint
}
