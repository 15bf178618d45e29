// ABOUTME: The generate command: one snapshot printed as JSON.
// ABOUTME: Reports the seed on stderr so any run can be reproduced.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/2389/campus-portal/internal/config"
	"github.com/2389/campus-portal/internal/narrate"
	"github.com/2389/campus-portal/internal/portal"
)

type generateOptions struct {
	Pretty bool
	Digest bool
	Out    io.Writer
	Err    io.Writer
}

// generateOutput is the JSON document printed by the generate command.
type generateOutput struct {
	Seed   int64           `json:"seed"`
	KPIs   portal.KPIs     `json:"kpis"`
	Digest *narrate.Digest `json:"digest,omitempty"`
	*portal.Snapshot
}

func runGenerate(ctx context.Context, cfg config.Config, opts generateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	rng, seed := portal.NewSeededRNG(cfg.Seed)
	snap := gen.Generate(rng)
	fmt.Fprintf(opts.Err, "seed: %d\n", seed)

	out := generateOutput{
		Seed:     seed,
		KPIs:     snap.KPIs(),
		Snapshot: snap,
	}
	if opts.Digest {
		out.Digest = narrate.NewNarrator(cfg.OpenAIAPIKey, cfg.OpenAIModel).Digest(ctx, snap)
	}

	enc := json.NewEncoder(opts.Out)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
