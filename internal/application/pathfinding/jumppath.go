package pathfinding

import (
	"container/heap"
	"fmt"

	"github.com/voidfleet/controller/internal/domain/routing"
)

// jumpQueueItem and jumpPriorityQueue mirror router.go's Dijkstra priority
// queue, specialized to gate waypoints and cumulative cooldown seconds
// instead of in-system waypoints and fuel-aware duration.
type jumpQueueItem struct {
	waypoint string
	priority int
	index    int
}

type jumpPriorityQueue []*jumpQueueItem

func (pq jumpPriorityQueue) Len() int            { return len(pq) }
func (pq jumpPriorityQueue) Less(i, j int) bool  { return pq[i].priority < pq[j].priority }
func (pq jumpPriorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i]; pq[i].index = i; pq[j].index = j }
func (pq *jumpPriorityQueue) Push(x interface{}) {
	item := x.(*jumpQueueItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *jumpPriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// ShortestJumpPath runs Dijkstra over a charted jumpgate graph, minimizing
// total cooldown seconds (§4.D, §4.J Explorer). edges is keyed by gate
// waypoint symbol, as produced by BuildJumpEdges.
func ShortestJumpPath(edges map[string][]routing.JumpEdge, from, to string) ([]routing.JumpEdge, error) {
	if from == to {
		return nil, nil
	}

	dist := map[string]int{from: 0}
	prev := map[string]routing.JumpEdge{}
	visited := map[string]bool{}

	pq := &jumpPriorityQueue{{waypoint: from, priority: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*jumpQueueItem)
		if visited[cur.waypoint] {
			continue
		}
		visited[cur.waypoint] = true
		if cur.waypoint == to {
			break
		}
		for _, e := range edges[cur.waypoint] {
			if visited[e.ToWaypoint] {
				continue
			}
			nd := dist[cur.waypoint] + e.CooldownSec
			if existing, ok := dist[e.ToWaypoint]; !ok || nd < existing {
				dist[e.ToWaypoint] = nd
				prev[e.ToWaypoint] = e
				heap.Push(pq, &jumpQueueItem{waypoint: e.ToWaypoint, priority: nd})
			}
		}
	}

	if !visited[to] {
		return nil, fmt.Errorf("pathfinding: no charted jump path %s -> %s", from, to)
	}

	var path []routing.JumpEdge
	for cur := to; cur != from; {
		e, ok := prev[cur]
		if !ok {
			return nil, fmt.Errorf("pathfinding: broken jump path %s -> %s", from, to)
		}
		path = append([]routing.JumpEdge{e}, path...)
		cur = e.FromWaypoint
	}
	return path, nil
}
