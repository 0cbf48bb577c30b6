package inference

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wisefido-wellness/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPredictor Predictor 的 mock 实现
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, rec domain.LifestyleRecord) (domain.RiskSet, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(domain.RiskSet), args.Error(1)
}

// MockAssets AssetChecker 的 mock 实现
type MockAssets struct {
	mock.Mock
}

func (m *MockAssets) Ready() bool {
	return m.Called().Bool(0)
}

func (m *MockAssets) EnsureReady(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type fakePrefs struct {
	values map[string]bool
	sets   []bool
	getErr error
}

func newFakePrefs() *fakePrefs { return &fakePrefs{values: map[string]bool{}} }

func (f *fakePrefs) OfflineMode(_ context.Context, userID string) (bool, bool, error) {
	if f.getErr != nil {
		return false, false, f.getErr
	}
	v, ok := f.values[userID]
	return v, ok, nil
}

func (f *fakePrefs) SetOfflineMode(_ context.Context, userID string, enabled bool) error {
	f.values[userID] = enabled
	f.sets = append(f.sets, enabled)
	return nil
}

func localRisks() domain.RiskSet {
	p := domain.RiskPrediction{PredictedClass: 1, Probability: 0.9, ProbabilityAvailable: true}
	return domain.RiskSet{Obesity: p, Hypertension: p, Stroke: p}
}

func remoteRisks() domain.RiskSet {
	return domain.RiskSet{Obesity: domain.RiskPrediction{PredictedClass: 1}}
}

func TestRouter_LocalSuccess(t *testing.T) {
	local, remote, assetsMock := new(MockPredictor), new(MockPredictor), new(MockAssets)
	assetsMock.On("Ready").Return(true)
	local.On("Predict", mock.Anything, mock.Anything).Return(localRisks(), nil)
	prefs := newFakePrefs()

	r := NewRouter(local, remote, assetsMock, prefs, RouterOptions{}, zap.NewNop())
	out, err := r.Predict(context.Background(), "u1", sampleRecord(), domain.ModeLocal)

	require.NoError(t, err)
	assert.Equal(t, domain.ModeLocal, out.Mode)
	assert.False(t, out.FellBack)
	assert.Equal(t, localRisks(), out.Risks)
	remote.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
	assert.Empty(t, prefs.sets)
}

func TestRouter_LocalFailureFallsBackAndDisablesLocal(t *testing.T) {
	local, remote, assetsMock := new(MockPredictor), new(MockPredictor), new(MockAssets)
	assetsMock.On("Ready").Return(true)
	local.On("Predict", mock.Anything, mock.Anything).Return(domain.RiskSet{}, errors.New("session crashed"))
	remote.On("Predict", mock.Anything, mock.Anything).Return(remoteRisks(), nil)
	prefs := newFakePrefs()
	prefs.values["u1"] = true

	r := NewRouter(local, remote, assetsMock, prefs, RouterOptions{}, zap.NewNop())
	out, err := r.Predict(context.Background(), "u1", sampleRecord(), domain.ModeLocal)

	require.NoError(t, err)
	assert.Equal(t, domain.ModeRemote, out.Mode)
	assert.True(t, out.FellBack)
	assert.Equal(t, remoteRisks(), out.Risks)
	assert.False(t, prefs.values["u1"])
	assert.Equal(t, remote.Calls[0].Arguments.Get(1), sampleRecord())
}

func TestRouter_ProvisioningFailureFallsBack(t *testing.T) {
	local, remote, assetsMock := new(MockPredictor), new(MockPredictor), new(MockAssets)
	assetsMock.On("Ready").Return(false)
	assetsMock.On("EnsureReady", mock.Anything).Return(&domain.AssetProvisioningError{Artifact: "scaler.json", Err: errors.New("missing")})
	remote.On("Predict", mock.Anything, mock.Anything).Return(remoteRisks(), nil)
	prefs := newFakePrefs()

	r := NewRouter(local, remote, assetsMock, prefs, RouterOptions{}, zap.NewNop())
	out, err := r.Predict(context.Background(), "u1", sampleRecord(), domain.ModeLocal)

	require.NoError(t, err)
	assert.Equal(t, domain.ModeRemote, out.Mode)
	local.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
	assert.Equal(t, []bool{false}, prefs.sets)
}

func TestRouter_NoLocalPredictorFallsBack(t *testing.T) {
	remote := new(MockPredictor)
	remote.On("Predict", mock.Anything, mock.Anything).Return(remoteRisks(), nil)

	r := NewRouter(nil, remote, nil, newFakePrefs(), RouterOptions{}, zap.NewNop())
	out, err := r.Predict(context.Background(), "u1", sampleRecord(), domain.ModeLocal)

	require.NoError(t, err)
	assert.True(t, out.FellBack)
}

func TestRouter_RemoteOnly(t *testing.T) {
	local, remote := new(MockPredictor), new(MockPredictor)
	remote.On("Predict", mock.Anything, mock.Anything).Return(remoteRisks(), nil)
	prefs := newFakePrefs()

	r := NewRouter(local, remote, nil, prefs, RouterOptions{}, zap.NewNop())
	out, err := r.Predict(context.Background(), "u1", sampleRecord(), domain.ModeRemote)

	require.NoError(t, err)
	assert.Equal(t, domain.ModeRemote, out.Mode)
	assert.False(t, out.FellBack)
	local.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
	assert.Empty(t, prefs.sets)
}

func TestRouter_RemoteNon2xxIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	remote := NewRemotePredictor(srv.URL, time.Second, zap.NewNop())
	r := NewRouter(nil, remote, nil, newFakePrefs(), RouterOptions{}, zap.NewNop())

	out, err := r.Predict(context.Background(), "u1", sampleRecord(), domain.ModeRemote)
	assert.Nil(t, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPredictionUnavailable))

	var unavailable *domain.PredictionUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Contains(t, unavailable.Error(), "upstream down")
}

func TestRouter_RemoteTimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	remote := NewRemotePredictor(srv.URL, 5*time.Second, zap.NewNop())
	r := NewRouter(nil, remote, nil, nil, RouterOptions{RemoteTimeout: 100 * time.Millisecond}, zap.NewNop())

	_, err := r.Predict(context.Background(), "u1", sampleRecord(), domain.ModeRemote)
	assert.ErrorIs(t, err, domain.ErrPredictionUnavailable)
}

func TestRouter_LocalSuccessReenablesDisabledPreference(t *testing.T) {
	local := new(MockPredictor)
	local.On("Predict", mock.Anything, mock.Anything).Return(localRisks(), nil)
	prefs := newFakePrefs()
	prefs.values["u1"] = false

	r := NewRouter(local, new(MockPredictor), nil, prefs, RouterOptions{}, zap.NewNop())
	_, err := r.Predict(context.Background(), "u1", sampleRecord(), domain.ModeLocal)

	require.NoError(t, err)
	assert.True(t, prefs.values["u1"])
	assert.Equal(t, []bool{true}, prefs.sets)
}

func TestRouter_SelectMode(t *testing.T) {
	prefs := newFakePrefs()
	r := NewRouter(nil, nil, nil, prefs, RouterOptions{DefaultMode: domain.ModeRemote}, zap.NewNop())

	assert.Equal(t, domain.ModeRemote, r.SelectMode(context.Background(), "u1"))

	prefs.values["u1"] = true
	assert.Equal(t, domain.ModeLocal, r.SelectMode(context.Background(), "u1"))

	prefs.values["u1"] = false
	assert.Equal(t, domain.ModeRemote, r.SelectMode(context.Background(), "u1"))

	prefs.getErr = errors.New("redis down")
	assert.Equal(t, domain.ModeRemote, r.SelectMode(context.Background(), "u1"))
}
