package id

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"

	"basegraph.app/issuesync/core/config"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Each process kind that mints sync run ids owns one snowflake node, so a
// run enqueued by the server never collides with one scheduled by the worker
// or started from the CLI.
var processNodes = map[config.ServiceType]int64{
	config.ServiceTypeServer: 1,
	config.ServiceTypeWorker: 2,
	config.ServiceTypeSync:   3,
}

// Init selects the node for process. Later calls are no-ops.
func Init(process config.ServiceType) error {
	nodeID, ok := processNodes[process]
	if !ok {
		return fmt.Errorf("no id node for process %q", process)
	}

	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns the next sync run id. Ids are time ordered.
func New() int64 {
	return node.Generate().Int64()
}

// Time reports when the run id was minted.
func Time(runID int64) time.Time {
	return time.UnixMilli(snowflake.ParseInt64(runID).Time()).UTC()
}

// Node reports which process node minted the run id.
func Node(runID int64) int64 {
	return snowflake.ParseInt64(runID).Node()
}
