package molecule

import (
	"sort"
	"strconv"
	"strings"
)

// maxPerceivedRing bounds the size of rings the perception step reports.
// Macrocycles beyond this are treated as chains by the candidate generator,
// which matches how the naming rules handle them anyway.
const maxPerceivedRing = 20

// perceiveRings finds the smallest ring through every ring bond: for each
// bond, the shortest alternative path between its endpoints (bond excluded)
// plus the bond itself forms a cycle.  Duplicates by atom set are discarded.
// The result is deterministic: rings are sorted by size, then by their
// smallest atom ID, and each ring is listed in traversal order starting from
// its smallest atom.
func perceiveRings(n int, adjacency [][]int, bondOrder map[[2]int]BondOrder) [][]int {
	var rings [][]int
	seen := map[string]bool{}

	for key := range bondOrder {
		u, v := key[0], key[1]
		path := shortestPathAvoiding(n, adjacency, u, v, key)
		if path == nil || len(path) > maxPerceivedRing {
			continue
		}
		ring := canonicalRing(path)
		sig := ringSignature(ring)
		if !seen[sig] {
			seen[sig] = true
			rings = append(rings, ring)
		}
	}

	sort.Slice(rings, func(i, j int) bool {
		if len(rings[i]) != len(rings[j]) {
			return len(rings[i]) < len(rings[j])
		}
		return rings[i][0] < rings[j][0]
	})
	return rings
}

// shortestPathAvoiding runs BFS from u to v with the single bond (u,v)
// removed, returning the cycle u..v in traversal order, or nil when the bond
// is not part of any cycle.
func shortestPathAvoiding(n int, adjacency [][]int, u, v int, banned [2]int) []int {
	prev := make([]int, n)
	for i := range prev {
		prev[i] = -2
	}
	prev[u] = -1
	queue := []int{u}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[cur] {
			if bondKey(cur, next) == banned {
				continue
			}
			if prev[next] != -2 {
				continue
			}
			prev[next] = cur
			if next == v {
				var path []int
				for at := v; at != -1; at = prev[at] {
					path = append(path, at)
				}
				// path is v..u; reverse to u..v.
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// canonicalRing rotates the cycle so its smallest atom ID comes first and the
// second position holds the smaller of its two ring neighbors, giving one
// canonical traversal per cycle.
func canonicalRing(ring []int) []int {
	minIdx := 0
	for i, id := range ring {
		if id < ring[minIdx] {
			minIdx = i
		}
	}
	n := len(ring)
	rotated := make([]int, n)
	for i := 0; i < n; i++ {
		rotated[i] = ring[(minIdx+i)%n]
	}
	// Pick the direction putting the smaller neighbor second.
	if n > 2 && rotated[n-1] < rotated[1] {
		reversed := make([]int, n)
		reversed[0] = rotated[0]
		for i := 1; i < n; i++ {
			reversed[i] = rotated[n-i]
		}
		return reversed
	}
	return rotated
}

func ringSignature(ring []int) string {
	ids := append([]int(nil), ring...)
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
