package noc

import "sync"

// Stats tracks lane traffic of a world. It is safe for concurrent use.
type Stats struct {
	mu           sync.Mutex
	totalSends   int64
	totalValues  int64
	laneMessages map[Lane]int64
	laneValues   map[Lane]int64
}

// NewStats returns an empty traffic record.
func NewStats() *Stats {
	return &Stats{
		laneMessages: make(map[Lane]int64),
		laneValues:   make(map[Lane]int64),
	}
}

// Record registers one delivered message carrying values elements.
func (s *Stats) Record(lane Lane, values int) {
	if s == nil {
		return
	}
	if values < 0 {
		values = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.laneMessages == nil {
		s.laneMessages = make(map[Lane]int64)
		s.laneValues = make(map[Lane]int64)
	}
	s.totalSends++
	s.totalValues += int64(values)
	s.laneMessages[lane]++
	s.laneValues[lane] += int64(values)
}

// Totals expose aggregate statistics for logging.
func (s *Stats) Totals() (messages int64, values int64) {
	if s == nil {
		return 0, 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalSends, s.totalValues
}

// LaneMessages returns the number of messages sent on lane.
func (s *Stats) LaneMessages(lane Lane) int64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.laneMessages[lane]
}

// LaneValues returns the number of elements carried on lane.
func (s *Stats) LaneValues(lane Lane) int64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.laneValues[lane]
}
