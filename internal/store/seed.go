package store

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/comp-cli/internal/model"
)

// seedFile is the on-disk shape of a benchmark seed file.
type seedFile struct {
	Benchmarks []model.Benchmark `yaml:"benchmarks"`
}

// SeedBenchmarks loads benchmark rows from a YAML file into the store.
// It is a no-op when the store already holds data, so repeated `kb init`
// invocations are safe. Returns the number of rows now in the store.
func SeedBenchmarks(ctx context.Context, st Store, path string) (int, error) {
	existing, err := st.CountBenchmarks(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		zap.L().Info("seed: benchmarks already present", zap.Int("count", existing))
		return existing, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, eris.Wrapf(err, "seed: read %s", path)
	}

	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return 0, eris.Wrapf(err, "seed: parse %s", path)
	}
	if len(f.Benchmarks) == 0 {
		return 0, eris.Errorf("seed: %s contains no benchmarks", path)
	}

	for i := range f.Benchmarks {
		if f.Benchmarks[i].Currency == "" {
			f.Benchmarks[i].Currency = "USD"
		}
	}

	n, err := st.AddBenchmarks(ctx, f.Benchmarks)
	if err != nil {
		return 0, err
	}

	zap.L().Info("seed: benchmarks loaded", zap.String("path", path), zap.Int("count", n))
	return n, nil
}
