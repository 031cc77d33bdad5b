package result

import (
	"errors"
	"fmt"
)

var ErrMalformedResponse = errors.New("malformed graph search response")

// DanglingReferenceError means the backend returned a link whose endpoint is not
// among the returned nodes.
type DanglingReferenceError struct {
	LinkIndex int
	NodeID    string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("link %d references unknown node %q", e.LinkIndex, e.NodeID)
}
