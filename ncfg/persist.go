package ncfg

import (
	"fmt"
	"io"
	"log"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/gridscope/vmath"
)

type fileEntry struct {
	Position  [3]float64 `yaml:"position"`
	TimeSteps []float64  `yaml:"time_steps"`
	Strengths []float64  `yaml:"strengths"`
}

type fileFormat struct {
	Nodes map[string]map[string]fileEntry `yaml:"nodes"`
}

// SaveYAML writes every entry in s to w
func SaveYAML(w io.Writer, s *Store) error {
	doc := fileFormat{Nodes: make(map[string]map[string]fileEntry)}
	for _, id := range s.Nodes() {
		entries := s.Get(id)
		m := make(map[string]fileEntry, len(entries))
		for key, e := range entries {
			m[key] = fileEntry{
				Position:  [3]float64{e.Position[0], e.Position[1], e.Position[2]},
				TimeSteps: e.TimeSteps,
				Strengths: e.Strengths,
			}
		}
		doc.Nodes[id] = m
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode ncfg: %w", err)
	}
	return enc.Close()
}

// LoadYAML merges entries from r into s
// Entries with unequal series lengths are skipped and counted
func LoadYAML(r io.Reader, s *Store) (loaded, skipped int, err error) {
	var doc fileFormat
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("decode ncfg: %w", err)
	}

	for id, entries := range doc.Nodes {
		for key, fe := range entries {
			pos := vmath.V3F(fe.Position[0], fe.Position[1], fe.Position[2])
			if _, err := s.Set(id, pos, fe.TimeSteps, fe.Strengths); err != nil {
				log.Printf("ncfg: skip %s/%s: %v", id, key, err)
				skipped++
				continue
			}
			loaded++
		}
	}
	return loaded, skipped, nil
}
