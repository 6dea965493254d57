package idgen

import (
	"errors"

	"github.com/bwmarrin/snowflake"
)

var errInvalidNodeID = errors.New("invalid snowflake node id")

// Sequencer hands out time-ordered, strictly increasing int64 ids. Chat
// messages use it to break created_at ties in insertion order.
type Sequencer struct {
	node *snowflake.Node
}

// NewSequencer builds a generator for one process. nodeID must be unique per
// running instance (0..1023).
func NewSequencer(nodeID int64) (*Sequencer, error) {
	if nodeID < 0 || nodeID > 1023 {
		return nil, errInvalidNodeID
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &Sequencer{node: node}, nil
}

func (s *Sequencer) Next() int64 {
	return s.node.Generate().Int64()
}
