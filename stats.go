package jsonrnc

import "sort"

// Stats accumulates validation counts. It is not safe for concurrent use;
// give each worker its own Stats and Merge them afterwards.
type Stats struct {
	Documents int
	Passed    int
	Failed    int
	// Hits counts reference traversals per definition name.
	Hits map[string]int
}

// NewStats returns an empty Stats.
func NewStats() *Stats { return &Stats{Hits: map[string]int{}} }

func (s *Stats) record(ok bool) {
	s.Documents++
	if ok {
		s.Passed++
	} else {
		s.Failed++
	}
}

func (s *Stats) hit(name string) {
	if s.Hits == nil {
		s.Hits = map[string]int{}
	}
	s.Hits[name]++
}

// Merge adds the counts of o into s.
func (s *Stats) Merge(o *Stats) {
	if o == nil {
		return
	}
	s.Documents += o.Documents
	s.Passed += o.Passed
	s.Failed += o.Failed
	if s.Hits == nil && len(o.Hits) > 0 {
		s.Hits = make(map[string]int, len(o.Hits))
	}
	for k, v := range o.Hits {
		s.Hits[k] += v
	}
}

// Definitions returns the names present in Hits, sorted.
func (s *Stats) Definitions() []string {
	names := make([]string, 0, len(s.Hits))
	for k := range s.Hits {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AllPassed reports whether every recorded document passed.
func (s *Stats) AllPassed() bool { return s.Failed == 0 }
