package observability

import (
	"context"
	"maps"
	"strconv"
	"sync"
	"time"
)

// Stats is a point-in-time copy of a [Recorder]'s counters.
type Stats struct {
	Builds       int           `json:"builds"`
	BuildErrors  int           `json:"build_errors"`
	Lines        int           `json:"lines"`
	Simulations  int           `json:"simulations"`
	Steps        int           `json:"steps"`
	SimulateTime time.Duration `json:"simulate_time_ns"`
	Renders      int           `json:"renders"`
	RenderErrors int           `json:"render_errors"`

	CacheHits    map[string]int `json:"cache_hits"`
	CacheMisses  map[string]int `json:"cache_misses"`
	CacheWritten int            `json:"cache_bytes_written"`

	Requests  int            `json:"requests"`
	Responses map[string]int `json:"responses"` // by status code
	Errors    int            `json:"errors"`
}

// Recorder counts events in memory. It implements [PipelineHooks],
// [CacheHooks] and [HTTPHooks] and is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	stats Stats
}

// NewRecorder returns a Recorder with zeroed counters.
func NewRecorder() *Recorder {
	return &Recorder{stats: Stats{
		CacheHits:   map[string]int{},
		CacheMisses: map[string]int{},
		Responses:   map[string]int{},
	}}
}

// Stats returns a copy of the counters.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.stats
	s.CacheHits = maps.Clone(s.CacheHits)
	s.CacheMisses = maps.Clone(s.CacheMisses)
	s.Responses = maps.Clone(s.Responses)
	return s
}

func (r *Recorder) update(fn func(s *Stats)) {
	r.mu.Lock()
	fn(&r.stats)
	r.mu.Unlock()
}

func (r *Recorder) OnBuildStart(context.Context, string) {}

func (r *Recorder) OnBuildComplete(_ context.Context, _ string, lines int, _ time.Duration, err error) {
	r.update(func(s *Stats) {
		s.Builds++
		s.Lines += lines
		if err != nil {
			s.BuildErrors++
		}
	})
}

func (r *Recorder) OnSimulateStart(context.Context, int) {}

func (r *Recorder) OnSimulateComplete(_ context.Context, steps int, _ float64, d time.Duration) {
	r.update(func(s *Stats) {
		s.Simulations++
		s.Steps += steps
		s.SimulateTime += d
	})
}

func (r *Recorder) OnRenderStart(context.Context, []string) {}

func (r *Recorder) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	r.update(func(s *Stats) {
		s.Renders++
		if err != nil {
			s.RenderErrors++
		}
	})
}

func (r *Recorder) OnCacheHit(_ context.Context, stage string) {
	r.update(func(s *Stats) { s.CacheHits[stage]++ })
}

func (r *Recorder) OnCacheMiss(_ context.Context, stage string) {
	r.update(func(s *Stats) { s.CacheMisses[stage]++ })
}

func (r *Recorder) OnCacheSet(_ context.Context, _ string, size int) {
	r.update(func(s *Stats) { s.CacheWritten += size })
}

func (r *Recorder) OnRequest(context.Context, string, string) {
	r.update(func(s *Stats) { s.Requests++ })
}

func (r *Recorder) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	r.update(func(s *Stats) { s.Responses[strconv.Itoa(status)]++ })
}

func (r *Recorder) OnError(context.Context, string, string, error) {
	r.update(func(s *Stats) { s.Errors++ })
}

var (
	_ PipelineHooks = (*Recorder)(nil)
	_ CacheHooks    = (*Recorder)(nil)
	_ HTTPHooks     = (*Recorder)(nil)
)
