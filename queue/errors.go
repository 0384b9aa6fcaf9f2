package queue

import (
	"errors"
)

// ErrDestroyed is returned by Destroy when the queue was already destroyed.
var ErrDestroyed = errors.New("queue: already destroyed")
