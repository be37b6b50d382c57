package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/netgraph/pkg/graph"
)

// hashKey builds a key of the form prefix:sha256(parts).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// GraphHash identifies the topology of the original graph behind g: node
// keys in order and every edge. Labels, categories and positions do not
// contribute, so relabelling a dataset keeps its cached layout.
func GraphHash(g *graph.Graph) string {
	orig := g.Original()
	h := sha256.New()
	for _, n := range orig.Nodes() {
		io.WriteString(h, n.Key)
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, e := range orig.Edges() {
		io.WriteString(h, e.Source)
		h.Write([]byte{0})
		io.WriteString(h, e.Target)
		h.Write([]byte{0})
		io.WriteString(h, strconv.Itoa(e.Qualifier))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
