package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kkanellis/cloudlab-nfs-client/internal/generator"
	"github.com/kkanellis/cloudlab-nfs-client/internal/models"
	"github.com/kkanellis/cloudlab-nfs-client/internal/rspec"
	"github.com/kkanellis/cloudlab-nfs-client/pkg/logger"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const MaxConcurrentGenerations = 3

var ErrFoundDuplicatedSetNames = errors.New("found duplicated parameter set names")

type Config struct {
	OutputDir string
	Format    rspec.Format
}

type Runner struct {
	outputDir string
	format    rspec.Format
}

// Run generates one document per parameter set. Each set is an independent
// generation pass; the first failure cancels the remaining ones.
func (r *Runner) Run(ctx context.Context, sets []models.ParameterSet) ([]models.GenerateResult, error) {
	names := lo.Map(sets, func(set models.ParameterSet, _ int) string { return set.Name })
	if duplicates := lo.FindDuplicates(names); len(duplicates) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrFoundDuplicatedSetNames, strings.Join(duplicates, ", "))
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(MaxConcurrentGenerations)

	results := make([]models.GenerateResult, len(sets))
	for i, set := range sets {
		i, set := i, set

		eg.Go(func() error {
			result, err := r.generate(ctx, set)
			if err != nil {
				return fmt.Errorf("failed to generate %s: %w", set.Name, err)
			}

			results[i] = result

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (r *Runner) generate(ctx context.Context, set models.ParameterSet) (models.GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return models.GenerateResult{}, err
	}

	request, err := generator.Generate(set.Params)
	if err != nil {
		return models.GenerateResult{}, err
	}

	output := filepath.Join(r.outputDir, set.Name+r.format.Extension())
	if err := rspec.WriteFile(output, request, r.format); err != nil {
		return models.GenerateResult{}, fmt.Errorf("failed to write rspec: %w", err)
	}

	logger.WithField("output", output).Infof("generated %d nodes", len(request.Nodes))

	return models.GenerateResult{
		Name:    set.Name,
		Output:  output,
		Nodes:   len(request.Nodes),
		Variant: set.Params.Variant().String(),
	}, nil
}

func New(cfg Config) *Runner {
	return &Runner{
		outputDir: cfg.OutputDir,
		format:    cfg.Format,
	}
}
