package db

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/jonathan/carematch/internal/types"
)

// DecodeWorker builds a profile from its columns and JSONB attributes. Columns win over
// attribute keys of the same name.
func DecodeWorker(id, displayName string, available bool, attrs map[string]any) (*types.WorkerProfile, error) {
	var w types.WorkerProfile
	if err := decodeAttributes(attrs, &w); err != nil {
		return nil, fmt.Errorf("worker %s: %w", id, err)
	}
	w.ID = id
	w.DisplayName = displayName
	w.Available = available
	return &w, nil
}

// DecodeJob builds a posting from its columns and JSONB attributes.
func DecodeJob(id, title string, status types.JobStatus, attrs map[string]any) (*types.JobPosting, error) {
	var j types.JobPosting
	if err := decodeAttributes(attrs, &j); err != nil {
		return nil, fmt.Errorf("job %s: %w", id, err)
	}
	j.ID = id
	j.Title = title
	j.Status = status
	return &j, nil
}

// decodeAttributes maps loosely typed JSONB onto a profile struct using its json tags.
// Numbers stored as strings and comma-separated lists are accepted.
func decodeAttributes(attrs map[string]any, out any) error {
	if len(attrs) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to build attribute decoder: %w", err)
	}
	if err := dec.Decode(attrs); err != nil {
		return fmt.Errorf("failed to decode attributes: %w", err)
	}
	return nil
}
