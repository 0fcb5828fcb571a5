package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Store keeps a record of finished render jobs under baseDir, one directory
// per job holding metadata.json and generations.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RenderMetadata struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Timestamp   time.Time `json:"timestamp"`
	Input       string    `json:"input"`
	Landscape   string    `json:"landscape"`
	Output      string    `json:"output"`
	Seed        uint64    `json:"seed"`
	Jitter      float64   `json:"jitter"`
	Generations int       `json:"generations"`
	DelayMs     int       `json:"delay_ms,omitempty"`
	Frames      int       `json:"frames"`
	Points      int       `json:"points"`
}

var statsHeader = []string{"generation", "individuals", "mean_x", "mean_y", "std_x", "std_y", "mean_fitness", "max_fitness"}

// Save writes meta and the per-generation summary and returns the new id.
func (s *Store) Save(meta RenderMetadata, stats []GenerationStats) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.ID = fmt.Sprintf("%s_%d", meta.Kind, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "generations.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(statsHeader); err != nil {
		return "", err
	}
	for _, st := range stats {
		row := []string{strconv.Itoa(st.Generation), strconv.Itoa(st.Individuals)}
		for _, v := range []float64{st.MeanX, st.MeanY, st.StdX, st.StdY, st.MeanFitness, st.MaxFitness} {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable record, oldest first.
func (s *Store) List() ([]RenderMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RenderMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RenderMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(id string) (*RenderMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RenderMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadStats reads the per-generation summary of a record.
func (s *Store) LoadStats(id string) ([]GenerationStats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "generations.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(statsHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []GenerationStats{}, nil
	}

	stats := make([]GenerationStats, 0, len(records)-1)
	for _, rec := range records[1:] {
		var st GenerationStats
		if st.Generation, err = strconv.Atoi(rec[0]); err != nil {
			return nil, fmt.Errorf("%s: bad generation %q", id, rec[0])
		}
		if st.Individuals, err = strconv.Atoi(rec[1]); err != nil {
			return nil, fmt.Errorf("%s: bad individual count %q", id, rec[1])
		}
		vals := make([]float64, 6)
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(rec[2+i], 64); err != nil {
				return nil, fmt.Errorf("%s: bad %s %q", id, statsHeader[2+i], rec[2+i])
			}
		}
		st.MeanX, st.MeanY, st.StdX, st.StdY, st.MeanFitness, st.MaxFitness = vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]
		stats = append(stats, st)
	}
	return stats, nil
}
