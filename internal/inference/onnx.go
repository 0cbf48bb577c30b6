package inference

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

const (
	onnxInputName         = "float_input"
	onnxProbabilitiesName = "probabilities"
	onnxLabelName         = "label"
)

type onnxOutputKind int

const (
	outputProbabilities onnxOutputKind = iota
	outputLabel
)

type onnxModel struct {
	session *ort.DynamicAdvancedSession
	output  onnxOutputKind
}

// ONNXRuntime onnxruntime 共享库上的 Runtime 实现；会话按模型路径缓存
type ONNXRuntime struct {
	libPath string
	logger  *zap.Logger

	initOnce sync.Once
	initErr  error

	mu     sync.Mutex
	models map[string]*onnxModel
}

func NewONNXRuntime(libPath string, logger *zap.Logger) *ONNXRuntime {
	return &ONNXRuntime{
		libPath: libPath,
		logger:  logger.With(zap.String("component", "onnx_runtime")),
		models:  map[string]*onnxModel{},
	}
}

func (r *ONNXRuntime) init() error {
	r.initOnce.Do(func() {
		if ort.IsInitialized() {
			return
		}
		ort.SetSharedLibraryPath(r.libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			r.initErr = fmt.Errorf("initialize onnxruntime from %s: %w", r.libPath, err)
			return
		}
		r.logger.Info("onnxruntime initialized", zap.String("lib", r.libPath))
	})
	return r.initErr
}

func (r *ONNXRuntime) Run(ctx context.Context, modelPath string, input []float32) (*RuntimeOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.init(); err != nil {
		return nil, err
	}
	m, err := r.model(modelPath)
	if err != nil {
		return nil, err
	}

	in, err := ort.NewTensor(ort.NewShape(1, int64(len(input))), input)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer in.Destroy()

	switch m.output {
	case outputProbabilities:
		out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 2))
		if err != nil {
			return nil, fmt.Errorf("create output tensor: %w", err)
		}
		defer out.Destroy()
		if err := m.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
			return nil, fmt.Errorf("run %s: %w", modelPath, err)
		}
		return &RuntimeOutput{Probabilities: append([]float32(nil), out.GetData()...)}, nil
	default:
		out, err := ort.NewEmptyTensor[int64](ort.NewShape(1))
		if err != nil {
			return nil, fmt.Errorf("create output tensor: %w", err)
		}
		defer out.Destroy()
		if err := m.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
			return nil, fmt.Errorf("run %s: %w", modelPath, err)
		}
		return &RuntimeOutput{Label: append([]int64(nil), out.GetData()...)}, nil
	}
}

// model 读取模型输入输出信息并创建会话；优先使用 probabilities 输出
func (r *ONNXRuntime) model(path string) (*onnxModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.models[path]; ok {
		return m, nil
	}

	inputs, outputs, err := ort.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("inspect model %s: %w", path, err)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("model %s has no inputs", path)
	}
	inputName := inputs[0].Name
	for _, in := range inputs {
		if in.Name == onnxInputName {
			inputName = in.Name
		}
	}

	outputName := ""
	kind := outputLabel
	for _, out := range outputs {
		if out.Name == onnxProbabilitiesName && out.DataType == ort.TensorElementDataTypeFloat {
			outputName, kind = out.Name, outputProbabilities
			break
		}
		if out.Name == onnxLabelName && out.DataType == ort.TensorElementDataTypeInt64 {
			outputName = out.Name
		}
	}
	if outputName == "" {
		return nil, fmt.Errorf("model %s has no %q or %q output", path, onnxProbabilitiesName, onnxLabelName)
	}

	session, err := ort.NewDynamicAdvancedSession(path, []string{inputName}, []string{outputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("create session for %s: %w", path, err)
	}
	m := &onnxModel{session: session, output: kind}
	r.models[path] = m
	r.logger.Debug("Model session created", zap.String("model", path), zap.String("output", outputName))
	return m, nil
}

// Close 释放会话与运行时环境
func (r *ONNXRuntime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for path, m := range r.models {
		if err := m.session.Destroy(); err != nil {
			r.logger.Warn("Failed to destroy session", zap.String("model", path), zap.Error(err))
		}
		delete(r.models, path)
	}
	if ort.IsInitialized() {
		return ort.DestroyEnvironment()
	}
	return nil
}
