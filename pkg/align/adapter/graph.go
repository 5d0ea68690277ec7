package adapter

import (
	"fmt"

	"github.com/genalign/bandkit/pkg/align"
)

// Vertex is one position in seqH or seqV, repurposing
// katalvlaran-lvlath's graph/core Vertex (ID plus metadata) for an
// alignment column instead of a general graph node.
type Vertex struct {
	ID     string
	Column string // "H" or "V"
	Pos    int
}

// Edge is a match edge between one seqH vertex and one seqV vertex.
type Edge struct {
	From, To *Vertex
}

// Graph is two vertex columns (one per sequence) plus the match edges
// between them.
type Graph struct {
	HVertices []*Vertex
	VVertices []*Vertex
	Edges     []*Edge
}

// EmitGraph builds a Graph from segs: one vertex per sequence position
// spanned by a Match segment, and one edge per matched column pair. Gap
// segments contribute no vertices or edges: a graph adapter has no
// natural node for "no counterpart exists here".
func EmitGraph(segs []align.TraceSegment) *Graph {
	g := &Graph{}
	hSeen := map[int]*Vertex{}
	vSeen := map[int]*Vertex{}

	vertexH := func(pos int) *Vertex {
		if v, ok := hSeen[pos]; ok {
			return v
		}
		v := &Vertex{ID: fmt.Sprintf("H%d", pos), Column: "H", Pos: pos}
		hSeen[pos] = v
		g.HVertices = append(g.HVertices, v)
		return v
	}
	vertexV := func(pos int) *Vertex {
		if v, ok := vSeen[pos]; ok {
			return v
		}
		v := &Vertex{ID: fmt.Sprintf("V%d", pos), Column: "V", Pos: pos}
		vSeen[pos] = v
		g.VVertices = append(g.VVertices, v)
		return v
	}

	for _, s := range segs {
		if s.Kind != align.Match {
			continue
		}
		for k := 0; k < s.Length; k++ {
			hv := vertexH(s.SeqHPos + k)
			vv := vertexV(s.SeqVPos + k)
			g.Edges = append(g.Edges, &Edge{From: hv, To: vv})
		}
	}
	return g
}
