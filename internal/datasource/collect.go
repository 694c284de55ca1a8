package datasource

import (
	"context"
	"fmt"
)

// Collect runs a source end to end: discover, read, transform.
func Collect(ctx context.Context, sourceType string, cfg SourceConfig, ts []Transformer) (*Schema, []Record, error) {
	source, err := GetSource(sourceType)
	if err != nil {
		return nil, nil, err
	}

	schema, err := source.Discover(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("discover: %w", err)
	}

	recCh, errCh := source.Read(ctx, cfg)

	var records []Record
	for rec := range recCh {
		if transformed, keep := ApplyTransformers(rec, ts); keep {
			records = append(records, transformed)
		}
	}
	if err := <-errCh; err != nil {
		return nil, nil, fmt.Errorf("read: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	return schema, records, nil
}
