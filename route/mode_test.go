package route

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/a-bouts/nav-planner/grid"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	assert.NoError(t, err)
	assert.Equal(t, Balanced, m)

	m, err = ParseMode(" Safest")
	assert.NoError(t, err)
	assert.Equal(t, Safest, m)

	_, err = ParseMode("scenic")
	assert.Error(t, err)
}

func TestWeightsFor(t *testing.T) {
	assert.Equal(t, Weights{Dist: 1.0, Risk: 0.2, Turn: 0.06, Coast: 70}, WeightsFor(Fastest, 0.3))
	assert.Equal(t, Weights{Dist: 1.0, Risk: 0.8, Turn: 0.06, Coast: 70}, WeightsFor(Fastest, 2))
	assert.Equal(t, Weights{Dist: 1.2, Risk: 1.5, Turn: 0.12, Coast: 90}, WeightsFor(Safest, 0))
	assert.InDelta(t, 3.6, WeightsFor(Safest, 2).Risk, 1e-12)
	assert.Equal(t, Weights{Dist: 0.9, Risk: 0.9, Turn: 0.20, Coast: 80}, WeightsFor(Fuel, 0.5))
	assert.Equal(t, Weights{Dist: 1.0, Risk: 1.2, Turn: 0.15, Coast: 80}, WeightsFor(Balanced, 1))
	assert.Equal(t, WeightsFor(Balanced, 1.7), WeightsFor("", 1.7))
}

func TestPriorityQueueTieBreak(t *testing.T) {
	pq := priorityQueue{}
	heap.Push(&pq, pqItem{key: grid.Key{Row: 2, Col: 1}, f: 5})
	heap.Push(&pq, pqItem{key: grid.Key{Row: 1, Col: 3}, f: 5})
	heap.Push(&pq, pqItem{key: grid.Key{Row: 9, Col: 9}, f: 4})
	heap.Push(&pq, pqItem{key: grid.Key{Row: 1, Col: 2}, f: 5})

	var got []grid.Key
	for pq.Len() > 0 {
		got = append(got, heap.Pop(&pq).(pqItem).key)
	}
	assert.Equal(t, []grid.Key{{Row: 9, Col: 9}, {Row: 1, Col: 2}, {Row: 1, Col: 3}, {Row: 2, Col: 1}}, got)
}
