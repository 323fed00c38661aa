package common

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

// UUIDint64 generates a cluster-safe int64 identifier.
// The node id comes from ESHOP_NODE_ID when set, 1 otherwise.
func UUIDint64() int64 {
	snowflakeOnce.Do(func() {
		nodeId := int64(1)
		if v := os.Getenv("ESHOP_NODE_ID"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				nodeId = n
			}
		}
		node, err := snowflake.NewNode(nodeId)
		if err != nil {
			panic(err)
		}
		snowflakeNode = node
	})
	return snowflakeNode.Generate().Int64()
}

// HexID renders an internal identifier in the wire format used by the API.
func HexID(id int64) string {
	return strconv.FormatInt(id, 16)
}

// ParseHexID parses a client-supplied identifier back to its internal form.
func ParseHexID(s string) (int64, error) {
	return strconv.ParseInt(s, 16, 64)
}
