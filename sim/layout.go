package sim

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownStation is returned when a station name is not part of the layout.
var ErrUnknownStation = errors.New("unknown station")

// Station names a stop in the factory layout.
type Station string

// Edge is a directed connection between two stations with a positive travel time.
type Edge struct {
	From Station `yaml:"from"`
	To   Station `yaml:"to"`
	Time int64   `yaml:"time"`
}

// DefaultEdgeTime is the travel time of every edge in DefaultLayout.
const DefaultEdgeTime int64 = 20

// MaxEdgeTime bounds a single edge so path sums and clock arithmetic stay
// within int64.
const MaxEdgeTime int64 = 1 << 32

const unreachable int64 = math.MaxInt64

// Layout is the station graph the cart moves on.
// All-pairs shortest travel times are computed once at construction.
type Layout struct {
	stations []Station
	index    map[Station]int
	next     [][]int // adjacency: next[i] lists stations reachable from i by one edge
	edge     [][]int64
	dist     [][]int64
}

// DefaultLayout returns the four-station factory ring A→B→C→D→A
// with DefaultEdgeTime ticks per edge.
func DefaultLayout() *Layout {
	stations := []Station{"A", "B", "C", "D"}
	edges := []Edge{
		{From: "A", To: "B", Time: DefaultEdgeTime},
		{From: "B", To: "C", Time: DefaultEdgeTime},
		{From: "C", To: "D", Time: DefaultEdgeTime},
		{From: "D", To: "A", Time: DefaultEdgeTime},
	}
	l, err := NewLayout(stations, edges)
	if err != nil {
		panic(fmt.Sprintf("default layout: %v", err))
	}
	return l
}

// NewLayout validates the station graph and precomputes shortest travel times.
// The graph must be strongly connected: a cart must be able to reach every
// station from every other one.
func NewLayout(stations []Station, edges []Edge) (*Layout, error) {
	if len(stations) == 0 {
		return nil, fmt.Errorf("layout needs at least one station")
	}
	l := &Layout{
		stations: append([]Station(nil), stations...),
		index:    make(map[Station]int, len(stations)),
	}
	n := len(stations)
	for i, s := range stations {
		if s == "" {
			return nil, fmt.Errorf("station %d has an empty name", i)
		}
		if _, dup := l.index[s]; dup {
			return nil, fmt.Errorf("duplicate station %q", s)
		}
		l.index[s] = i
	}

	l.edge = make([][]int64, n)
	l.dist = make([][]int64, n)
	l.next = make([][]int, n)
	for i := range n {
		l.edge[i] = make([]int64, n)
		l.dist[i] = make([]int64, n)
		for j := range n {
			l.edge[i][j] = unreachable
			l.dist[i][j] = unreachable
		}
		l.dist[i][i] = 0
	}

	for _, e := range edges {
		from, ok := l.index[e.From]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: %w %q", e.From, e.To, ErrUnknownStation, e.From)
		}
		to, ok := l.index[e.To]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: %w %q", e.From, e.To, ErrUnknownStation, e.To)
		}
		if from == to {
			return nil, fmt.Errorf("edge %s->%s: self loops are not allowed", e.From, e.To)
		}
		if e.Time <= 0 {
			return nil, fmt.Errorf("edge %s->%s: travel time must be positive, got %d", e.From, e.To, e.Time)
		}
		if e.Time > MaxEdgeTime {
			return nil, fmt.Errorf("edge %s->%s: travel time %d exceeds %d", e.From, e.To, e.Time, MaxEdgeTime)
		}
		if l.edge[from][to] != unreachable {
			return nil, fmt.Errorf("duplicate edge %s->%s", e.From, e.To)
		}
		l.edge[from][to] = e.Time
		l.dist[from][to] = e.Time
		l.next[from] = append(l.next[from], to)
	}

	// Floyd–Warshall over the (small) station set.
	for k := range n {
		for i := range n {
			if l.dist[i][k] == unreachable {
				continue
			}
			for j := range n {
				if l.dist[k][j] == unreachable {
					continue
				}
				if d := l.dist[i][k] + l.dist[k][j]; d < l.dist[i][j] {
					l.dist[i][j] = d
				}
			}
		}
	}

	for i := range n {
		for j := range n {
			if l.dist[i][j] == unreachable {
				return nil, fmt.Errorf("layout is not strongly connected: no path %s->%s", stations[i], stations[j])
			}
		}
		// Lexical order of neighbours makes equal-cost path choices deterministic.
		sort.SliceStable(l.next[i], func(a, b int) bool {
			return stations[l.next[i][a]] < stations[l.next[i][b]]
		})
	}
	return l, nil
}

// Stations returns the station names in declaration order.
func (l *Layout) Stations() []Station {
	return append([]Station(nil), l.stations...)
}

// Station returns the station at the given declaration index.
func (l *Layout) Station(index int) (Station, error) {
	if index < 0 || index >= len(l.stations) {
		return "", fmt.Errorf("station index %d out of range [0, %d)", index, len(l.stations))
	}
	return l.stations[index], nil
}

// Has reports whether s is part of the layout.
func (l *Layout) Has(s Station) bool {
	_, ok := l.index[s]
	return ok
}

func (l *Layout) lookup(a, b Station) (int, int, error) {
	i, ok := l.index[a]
	if !ok {
		return 0, 0, fmt.Errorf("%w %q", ErrUnknownStation, a)
	}
	j, ok := l.index[b]
	if !ok {
		return 0, 0, fmt.Errorf("%w %q", ErrUnknownStation, b)
	}
	return i, j, nil
}

// TravelTime returns the shortest travel time from a to b (zero when a == b).
func (l *Layout) TravelTime(a, b Station) (int64, error) {
	i, j, err := l.lookup(a, b)
	if err != nil {
		return 0, err
	}
	return l.dist[i][j], nil
}

// Path returns the stations visited on the way from a to b, excluding a and
// ending with b. Among equal-cost shortest paths the lexically smallest next
// station is taken at every step.
func (l *Layout) Path(a, b Station) ([]Station, error) {
	i, j, err := l.lookup(a, b)
	if err != nil {
		return nil, err
	}
	var path []Station
	for i != j {
		i = l.nextHop(i, j)
		path = append(path, l.stations[i])
	}
	return path, nil
}

// NextHop returns the first station on the path from a to b.
// Returns b itself when a == b.
func (l *Layout) NextHop(a, b Station) (Station, error) {
	i, j, err := l.lookup(a, b)
	if err != nil {
		return "", err
	}
	if i == j {
		return b, nil
	}
	return l.stations[l.nextHop(i, j)], nil
}

func (l *Layout) nextHop(i, j int) int {
	for _, n := range l.next[i] {
		if l.edge[i][n]+l.dist[n][j] == l.dist[i][j] {
			return n
		}
	}
	// Unreachable for a validated, strongly connected layout.
	panic(fmt.Sprintf("no shortest-path hop from %s to %s", l.stations[i], l.stations[j]))
}

// Edges returns the directed edges of the layout in source, then target order.
func (l *Layout) Edges() []Edge {
	var edges []Edge
	for i, ns := range l.next {
		for _, n := range ns {
			edges = append(edges, Edge{From: l.stations[i], To: l.stations[n], Time: l.edge[i][n]})
		}
	}
	return edges
}
