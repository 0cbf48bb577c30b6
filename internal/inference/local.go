package inference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"wisefido-wellness/internal/assets"
	"wisefido-wellness/internal/domain"
	"wisefido-wellness/internal/features"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LocalPredictor 读取工件目录、编码记录并运行三个模型
type LocalPredictor struct {
	dir      string
	runtime  Runtime
	parallel bool
	logger   *zap.Logger
}

// NewLocalPredictor runtime 为 nil 时每次预测都返回 ErrRuntimeUnavailable
func NewLocalPredictor(dir string, runtime Runtime, parallel bool, logger *zap.Logger) *LocalPredictor {
	return &LocalPredictor{
		dir:      dir,
		runtime:  runtime,
		parallel: parallel,
		logger:   logger.With(zap.String("component", "local_predictor")),
	}
}

func (p *LocalPredictor) Predict(ctx context.Context, rec domain.LifestyleRecord) (domain.RiskSet, error) {
	var risks domain.RiskSet
	if p.runtime == nil {
		return risks, ErrRuntimeUnavailable
	}

	art, err := features.LoadArtifacts(os.DirFS(p.dir))
	if err != nil {
		return risks, err
	}
	enc, err := features.NewEncoderFromArtifacts(art)
	if err != nil {
		return risks, err
	}
	vec, err := enc.Encode(rec)
	if err != nil {
		return risks, err
	}
	input := toFloat32(vec)

	results := make([]domain.RiskPrediction, len(domain.Conditions))
	if p.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, c := range domain.Conditions {
			i, c := i, c
			g.Go(func() error {
				pred, err := p.run(gctx, c, append([]float32(nil), input...))
				if err != nil {
					return err
				}
				results[i] = pred
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return risks, err
		}
	} else {
		for i, c := range domain.Conditions {
			pred, err := p.run(ctx, c, input)
			if err != nil {
				return risks, err
			}
			results[i] = pred
		}
	}

	for i, c := range domain.Conditions {
		if err := risks.Set(c, results[i]); err != nil {
			return risks, err
		}
	}
	return risks, nil
}

func (p *LocalPredictor) run(ctx context.Context, c domain.Condition, input []float32) (domain.RiskPrediction, error) {
	out, err := p.runtime.Run(ctx, filepath.Join(p.dir, assets.ModelFile(c)), input)
	if err != nil {
		return domain.RiskPrediction{}, fmt.Errorf("%s model: %w", c, err)
	}
	pred, err := Interpret(out)
	if err != nil {
		return domain.RiskPrediction{}, fmt.Errorf("%s model: %w", c, err)
	}
	p.logger.Debug("Local prediction",
		zap.String("condition", string(c)),
		zap.Int("class", pred.PredictedClass),
		zap.Float64("probability", pred.Probability),
	)
	return pred, nil
}
