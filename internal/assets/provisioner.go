// Package assets 把只读工件包复制到可写工件目录，供本地推理使用
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"wisefido-wellness/internal/domain"
	"wisefido-wellness/internal/features"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// 模型文件名
const (
	ObesityModelFile      = "obesity_model.onnx"
	HypertensionModelFile = "hypertension_model.onnx"
	StrokeModelFile       = "stroke_model.onnx"
)

// Artifacts 本地推理需要的全部工件
var Artifacts = []string{
	features.LabelEncodersFile,
	features.ScalerFile,
	features.SelectedFeaturesFile,
	ObesityModelFile,
	HypertensionModelFile,
	StrokeModelFile,
}

// ModelFile 疾病对应的模型文件名
func ModelFile(c domain.Condition) string {
	switch c {
	case domain.ConditionHypertension:
		return HypertensionModelFile
	case domain.ConditionStroke:
		return StrokeModelFile
	default:
		return ObesityModelFile
	}
}

// Observer 记录每次准备结果（metrics 实现）
type Observer interface {
	ObserveProvisioning(ok bool)
}

// Provisioner 工件准备器
// 同进程内并发调用由 singleflight 合并；单个文件先写临时文件再 rename，多进程下读者不会看到半个文件
type Provisioner struct {
	bundle   fs.FS
	dir      string
	logger   *zap.Logger
	observer Observer
	group    singleflight.Group
}

func NewProvisioner(bundle fs.FS, dir string, logger *zap.Logger) *Provisioner {
	return &Provisioner{
		bundle: bundle,
		dir:    dir,
		logger: logger.With(zap.String("component", "asset_provisioner")),
	}
}

// SetObserver 可选
func (p *Provisioner) SetObserver(o Observer) { p.observer = o }

// Dir 可写工件目录
func (p *Provisioner) Dir() string { return p.dir }

// Path 工件的完整路径
func (p *Provisioner) Path(name string) string { return filepath.Join(p.dir, name) }

// Ready 六个工件是否都已就位
func (p *Provisioner) Ready() bool {
	return len(p.missing()) == 0
}

// EnsureReady 复制缺失的工件；返回 nil 表示全部就位
// 已就位时不做任何写入
func (p *Provisioner) EnsureReady(ctx context.Context) error {
	if p.Ready() {
		return nil
	}
	_, err, _ := p.group.Do("ensure", func() (any, error) {
		return nil, p.provision(ctx)
	})
	if p.observer != nil {
		p.observer.ObserveProvisioning(err == nil)
	}
	return err
}

func (p *Provisioner) provision(ctx context.Context) error {
	missing := p.missing()
	if len(missing) == 0 {
		return nil
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return &domain.AssetProvisioningError{Artifact: p.dir, Err: err}
	}

	for _, name := range missing {
		if err := ctx.Err(); err != nil {
			return &domain.AssetProvisioningError{Artifact: name, Err: err}
		}
		if err := p.copyArtifact(name); err != nil {
			p.logger.Error("Failed to provision artifact", zap.String("artifact", name), zap.Error(err))
			return &domain.AssetProvisioningError{Artifact: name, Err: err}
		}
		p.logger.Info("Artifact provisioned", zap.String("artifact", name), zap.String("dir", p.dir))
	}
	return nil
}

func (p *Provisioner) missing() []string {
	var out []string
	for _, name := range Artifacts {
		info, err := os.Stat(p.Path(name))
		if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
			out = append(out, name)
		}
	}
	return out
}

func (p *Provisioner) copyArtifact(name string) error {
	src, err := p.bundle.Open(name)
	if err != nil {
		return fmt.Errorf("open bundled artifact: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(p.dir, "."+name+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := io.Copy(tmp, src)
	if err == nil && n == 0 {
		err = errors.New("bundled artifact is empty")
	}
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return os.Rename(tmpName, p.Path(name))
}
