package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"tasklist/internal/models"
)

//go:embed snapshot.schema.json
var snapshotSchemaJSON []byte

var snapshotSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("snapshot.schema.json", bytes.NewReader(snapshotSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile("snapshot.schema.json")
})

// decodeSnapshot parses and validates a persisted task array. Editing is
// cleared and missing or unknown priorities become defaultPriority. Tasks
// that still fail validation, or repeat an earlier id, are dropped; the
// usable rest is returned alongside a *CorruptSnapshotError for the first
// such task.
func decodeSnapshot(raw string, defaultPriority models.Priority) ([]models.Task, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &CorruptSnapshotError{Reason: "invalid json", Err: err}
	}

	schema, err := snapshotSchema()
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &CorruptSnapshotError{Reason: "schema mismatch", Err: err}
	}

	var tasks []models.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, &CorruptSnapshotError{Reason: "invalid task", Err: err}
	}

	seen := make(map[string]struct{}, len(tasks))
	kept := tasks[:0]
	var first error
	for _, t := range tasks {
		t.Editing = false
		if !t.Priority.Valid() {
			t.Priority = defaultPriority
		}

		if err := t.Validate(); err != nil {
			if first == nil {
				first = &CorruptSnapshotError{Reason: "invalid task", Err: fmt.Errorf("task %q: %w", t.ID, err)}
			}
			continue
		}
		if _, ok := seen[t.ID]; ok {
			if first == nil {
				first = &CorruptSnapshotError{Reason: fmt.Sprintf("duplicate id %q", t.ID)}
			}
			continue
		}
		seen[t.ID] = struct{}{}
		kept = append(kept, t)
	}

	return kept, first
}

func encodeSnapshot(tasks []models.Task) (string, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(data), nil
}
