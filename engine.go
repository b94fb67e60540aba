package rihap

import (
	"fmt"

	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

const progressInterval = 1000

// OriginRecorder receives the per-sample origin groups of every expanded
// interval.
type OriginRecorder interface {
	RecordInterval(iv *Interval) error
}

// OriginRecorderFunc adapts a function to OriginRecorder.
type OriginRecorderFunc func(iv *Interval) error

func (f OriginRecorderFunc) RecordInterval(iv *Interval) error {
	return f(iv)
}

// RunStats counts what happened to the marker pairs of a run.
type RunStats struct {
	Pairs       int
	CrossContig int
	TooFarBP    int
	WithinCM    int
	Expanded    int
	Conflicted  int
	Records     int
}

// Skipped is the number of pairs the gate rejected.
func (s RunStats) Skipped() int {
	return s.CrossContig + s.TooFarBP + s.WithinCM
}

// Engine reconstructs RI haplotypes from a population store and the two
// parental stores. An Engine is not safe for concurrent use.
type Engine struct {
	Population *Store
	Parent1    *Store
	Parent2    *Store
	Parents    Parents
	Dict       *Dictionary
	Gate       *Gate

	recorder OriginRecorder
}

// NewEngine checks that both parents are population samples and that each
// parent store holds its parent.
func NewEngine(pop, parent1, parent2 *Store, parents Parents, dict *Dictionary, gate *Gate) (*Engine, error) {
	if parents.Parent1 == "" || parents.Parent2 == "" {
		return nil, pfx.Err(fmt.Errorf("both parent names are required"))
	}
	if parents.Parent1 == parents.Parent2 {
		return nil, pfx.Err(fmt.Errorf("parent 1 and parent 2 are both %s", parents.Parent1))
	}

	for _, check := range []struct {
		store  *Store
		sample string
	}{
		{pop, parents.Parent1},
		{pop, parents.Parent2},
		{parent1, parents.Parent1},
		{parent2, parents.Parent2},
	} {
		if !check.store.HasSample(check.sample) {
			return nil, pfx.Err(fmt.Errorf("sample %s is not in %s", check.sample, check.store.Path))
		}
	}

	if gate == nil {
		gate = NewGate(DefaultMaxBPDistance, DefaultMaxCMDistance, nil)
	}

	return &Engine{
		Population: pop,
		Parent1:    parent1,
		Parent2:    parent2,
		Parents:    parents,
		Dict:       dict,
		Gate:       gate,
	}, nil
}

// SetOriginRecorder registers r to receive every expanded interval.
func (e *Engine) SetOriginRecorder(r OriginRecorder) {
	e.recorder = r
}

// Run walks the population store in file order and expands every pair of
// consecutive markers the gate allows, writing the records to sink. A
// contiguity violation or any I/O error aborts the run.
func (e *Engine) Run(sink Sink) (RunStats, error) {
	var stats RunStats

	walker := e.Population.Walk()
	prev := walker.Read()
	for prev != nil {
		cur := walker.Read()
		if cur == nil {
			break
		}

		stats.Pairs++
		if stats.Pairs%progressInterval == 0 {
			log.Infof("Processed %d marker pairs, now at %s", stats.Pairs, cur.Location)
		}

		if err := e.runPair(prev, cur, sink, &stats); err != nil {
			return stats, err
		}

		prev = cur
	}
	if err := walker.Error(); err != nil {
		return stats, err
	}

	log.Infof("Processed %d marker pairs: %d expanded (%d with conflicts), %d skipped, %d records written", stats.Pairs, stats.Expanded, stats.Conflicted, stats.Skipped(), stats.Records)

	return stats, nil
}

func (e *Engine) runPair(a, b *Variant, sink Sink, stats *RunStats) error {
	switch e.Gate.Decide(a, b) {
	case GateCrossContig:
		stats.CrossContig++
		return nil
	case GateTooFarBP:
		stats.TooFarBP++
		return nil
	case GateWithinCM:
		stats.WithinCM++
		return nil
	}

	if err := CheckConsecutive(e.Population, a, b); err != nil {
		return pfx.Err(err)
	}

	iv, err := e.Expand(a, b)
	if err != nil {
		return pfx.Err(err)
	}
	stats.Expanded++
	if iv.Degraded {
		stats.Conflicted++
	}

	if e.recorder != nil {
		if err := e.recorder.RecordInterval(iv); err != nil {
			return pfx.Err(err)
		}
	}

	for _, v := range iv.Records {
		if err := sink.Write(v); err != nil {
			return pfx.Err(err)
		}
		stats.Records++
	}

	return nil
}

// ParentalHaplotype classifies the parent behind origin over a region, from
// both its own store and its column in the population store.
func (e *Engine) ParentalHaplotype(origin Origin, contig string, start, end uint32) (Haplotype, error) {
	var store *Store
	switch origin {
	case OriginParent1:
		store = e.Parent1
	case OriginParent2:
		store = e.Parent2
	default:
		return HaplotypeAbsent, pfx.Err(fmt.Errorf("origin %s does not name a single parent", origin))
	}
	parent := e.Parents.Name(origin)

	fromParent, err := regionHaplotype(store, parent, contig, start, end)
	if err != nil {
		return HaplotypeAbsent, err
	}

	fromPopulation, err := regionHaplotype(e.Population, parent, contig, start, end)
	if err != nil {
		return HaplotypeAbsent, err
	}

	h := CommonHaplotype(fromParent, fromPopulation)
	log.Debugf("PARENTAL_HAPLOTYPE\t%s\t%s:%d-%d\t%s (parent store %s, population store %s)", parent, contig, start, end, h, fromParent, fromPopulation)

	return h, nil
}

func regionHaplotype(s *Store, sample, contig string, start, end uint32) (Haplotype, error) {
	cur, err := s.Query(contig, start, end)
	if err != nil {
		return HaplotypeAbsent, err
	}
	defer cur.Close()

	return IntervalHaplotype(cur, sample)
}
