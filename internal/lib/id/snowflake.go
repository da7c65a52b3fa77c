// Package id generates the int64 primary keys for users and meetups.
package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets the node id (0-1023) for this process. Only the first call has
// an effect; each replica must use a distinct node id.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns a time-ordered unique id. Init must have been called.
func New() int64 {
	return node.Generate().Int64()
}
