// Package rubrics loads rubric definitions from YAML and seeds them into a
// store.
package rubrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/yungbote/solbot-backend/internal/data/repos"
	types "github.com/yungbote/solbot-backend/internal/domain"
	"github.com/yungbote/solbot-backend/internal/storage"
)

type fileFormat struct {
	Rubrics []rubricDef `yaml:"rubrics"`
}

type rubricDef struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	MaxScore    float64        `yaml:"max_score"`
	Criteria    map[string]any `yaml:"criteria"`
}

func LoadFile(path string) ([]*types.Rubric, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rubrics file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse rejects duplicate ids, missing names and non-positive max scores.
func Parse(r io.Reader) ([]*types.Rubric, error) {
	var doc fileFormat
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode rubrics: %w", err)
	}

	seen := map[string]bool{}
	out := make([]*types.Rubric, 0, len(doc.Rubrics))
	for i, d := range doc.Rubrics {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			return nil, fmt.Errorf("rubric #%d: id is required", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("rubric %q: duplicate id", id)
		}
		seen[id] = true
		if math.IsNaN(d.MaxScore) || d.MaxScore <= 0 {
			return nil, fmt.Errorf("rubric %q: max_score must be > 0", id)
		}
		name := strings.TrimSpace(d.Name)
		if name == "" {
			name = id
		}
		rb := &types.Rubric{ID: id, Name: name, Description: strings.TrimSpace(d.Description), MaxScore: d.MaxScore}
		if len(d.Criteria) > 0 {
			raw, err := json.Marshal(d.Criteria)
			if err != nil {
				return nil, fmt.Errorf("rubric %q: criteria: %w", id, err)
			}
			rb.Criteria = datatypes.JSON(raw)
		}
		out = append(out, rb)
	}
	return out, nil
}

func SeedPrimary(ctx context.Context, repo repos.RubricRepo, list []*types.Rubric) error {
	if len(list) == 0 {
		return nil
	}
	return repo.Upsert(ctx, nil, list)
}

// SeedRecordLog writes rubrics as reference records so the record service
// can answer rubric lookups when the primary store is down.
func SeedRecordLog(ctx context.Context, log *storage.RecordLog, list []*types.Rubric) error {
	for _, rb := range list {
		rec := &storage.Record{Kind: storage.KindRubric, CreatedAt: time.Now().UTC(), Rubric: rb}
		if _, err := log.Put(ctx, rec); err != nil {
			return fmt.Errorf("seed rubric %q: %w", rb.ID, err)
		}
	}
	return nil
}
