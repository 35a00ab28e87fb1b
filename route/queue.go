package route

import "github.com/a-bouts/nav-planner/grid"

type pqItem struct {
	key grid.Key
	f   float64
}

// priorityQueue is a binary min-heap on f. Equal estimates are broken by
// lowest row then lowest column so a run is deterministic.
type priorityQueue []pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	if pq[i].key.Row != pq[j].key.Row {
		return pq[i].key.Row < pq[j].key.Row
	}
	return pq[i].key.Col < pq[j].key.Col
}

func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(pqItem))
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}
