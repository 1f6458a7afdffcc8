package batch

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables Batch sets inside multi-node parallel job containers.
const (
	EnvMainNodeIndex   = "AWS_BATCH_JOB_MAIN_NODE_INDEX"
	EnvNodeIndex       = "AWS_BATCH_JOB_NODE_INDEX"
	EnvNumNodes        = "AWS_BATCH_JOB_NUM_NODES"
	EnvMainNodeAddress = "AWS_BATCH_JOB_MAIN_NODE_PRIVATE_IPV4_ADDRESS"
)

// NodeContext describes one node's place within a running multi-node job.
// It is a read-only view of the runtime environment; the launcher never
// depends on it.
type NodeContext struct {
	// MainNodeIndex is the index of the job's coordinating node.
	MainNodeIndex int

	// NodeIndex is this node's index, starting at 0.
	NodeIndex int

	// NumNodes is the requested node count.
	NumNodes int

	// MainNodeAddress is the main node's private IPv4 address. Batch only
	// sets it on child nodes; it is empty on the main node.
	MainNodeAddress string
}

// IsMainNode returns true when this node coordinates the job.
func (c NodeContext) IsMainNode() bool {
	return c.NodeIndex == c.MainNodeIndex
}

// NodeContextFromEnv reads the Batch multi-node context from the process
// environment. It fails when invoked outside a multi-node job container.
func NodeContextFromEnv() (*NodeContext, error) {
	mainNode, err := intFromEnv(EnvMainNodeIndex)
	if err != nil {
		return nil, err
	}
	nodeIndex, err := intFromEnv(EnvNodeIndex)
	if err != nil {
		return nil, err
	}
	numNodes, err := intFromEnv(EnvNumNodes)
	if err != nil {
		return nil, err
	}

	return &NodeContext{
		MainNodeIndex:   mainNode,
		NodeIndex:       nodeIndex,
		NumNodes:        numNodes,
		MainNodeAddress: os.Getenv(EnvMainNodeAddress),
	}, nil
}

func intFromEnv(key string) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, fmt.Errorf("%s is not set", key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
