// Package catalog accumulates muxer classifications and serializes the
// resulting extension lists.
package catalog

import (
	"slices"
	"sort"
	"sync"

	"muxext/internal/muxer"
)

// Counts tallies results per kind.
type Counts struct {
	Muxers     int `json:"muxers"`
	Video      int `json:"video"`
	Audio      int `json:"audio"`
	Unresolved int `json:"unresolved"`
	Skipped    int `json:"skipped"`
}

// Catalog is the accumulator for one generation run. The zero value is not
// usable; call New. Methods are safe for concurrent use.
type Catalog struct {
	mu         sync.Mutex
	video      map[string]struct{}
	audio      map[string]struct{}
	unresolved map[string]string
	results    map[string]muxer.Result
	counts     Counts
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		video:      make(map[string]struct{}),
		audio:      make(map[string]struct{}),
		unresolved: make(map[string]string),
		results:    make(map[string]muxer.Result),
	}
}

// Add records one classification. Video and audio results contribute their
// extensions; unresolved results contribute their descriptor; skipped results
// are only counted. A muxer name is recorded once: Add reports false and
// ignores later results for a name already present.
func (c *Catalog) Add(result muxer.Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, dup := c.results[result.Name]; dup {
		return false
	}
	c.results[result.Name] = result
	c.counts.Muxers++

	switch result.Kind {
	case muxer.KindVideo:
		c.counts.Video++
		for _, ext := range result.Extensions {
			c.video[ext] = struct{}{}
		}
	case muxer.KindAudio:
		c.counts.Audio++
		for _, ext := range result.Extensions {
			c.audio[ext] = struct{}{}
		}
	case muxer.KindUnresolved:
		c.counts.Unresolved++
		c.unresolved[result.Name] = result.Descriptor
	default:
		c.counts.Skipped++
	}
	return true
}

// Video returns the video extensions in ascending order.
func (c *Catalog) Video() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedKeys(c.video)
}

// Audio returns the audio extensions in ascending order.
func (c *Catalog) Audio() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedKeys(c.audio)
}

// Unresolved returns a copy of the muxer name to descriptor mapping.
func (c *Catalog) Unresolved() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.unresolved))
	for name, text := range c.unresolved {
		out[name] = text
	}
	return out
}

// Results returns every recorded result ordered by muxer name.
func (c *Catalog) Results() []muxer.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]muxer.Result, 0, len(c.results))
	for _, r := range c.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Counts returns per-kind muxer tallies.
func (c *Catalog) Counts() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
