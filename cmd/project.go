package cmd

import (
	"github.com/siftlabs/sift/pkg/catalog"
	"github.com/siftlabs/sift/pkg/compiler"
	"github.com/siftlabs/sift/pkg/dialect"
	"github.com/siftlabs/sift/pkg/models"
	"github.com/siftlabs/sift/pkg/sample"
)

// loadProject builds and starts the catalog and models services from
// the loaded configuration
func loadProject(cfg *CLIConfig) (*catalog.Service, *models.Service, error) {
	cat, err := catalog.NewService(logger, &cfg.Catalog)
	if err != nil {
		return nil, nil, err
	}

	if err := cat.Start(); err != nil {
		return nil, nil, err
	}

	modelsSvc, err := models.NewService(logger, &cfg.Models, cat)
	if err != nil {
		return nil, nil, err
	}

	if err := modelsSvc.Start(); err != nil {
		return nil, nil, err
	}

	return cat, modelsSvc, nil
}

// buildCompiler constructs the invocation's compiler from the --sample
// and --dialect flags. An empty sample spec selects standard,
// unfiltered compilation.
func buildCompiler(cat catalog.Resolver, sampleSpec, dialectName string) (*compiler.Compiler, error) {
	var window *sample.Window

	if sampleSpec != "" {
		parsed, err := sample.Parse(sampleSpec)
		if err != nil {
			return nil, err
		}
		window = parsed
	}

	d, err := dialect.New(dialectName)
	if err != nil {
		return nil, err
	}

	return compiler.NewCompiler(cat, compiler.NewContext(window, d)), nil
}

// samplePolicy maps the --strict flag to a sample policy
func samplePolicy(strict bool) models.SamplePolicy {
	if strict {
		return models.SamplePolicyStrict
	}

	return models.SamplePolicyWarn
}
