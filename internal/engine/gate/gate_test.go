package gate_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depgate/internal/adapters/shell"
	"go.trai.ch/depgate/internal/core/domain"
	"go.trai.ch/depgate/internal/core/ports/mocks"
	"go.trai.ch/depgate/internal/engine/gate"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func testProbe(minVersion string) *domain.Probe {
	probe := &domain.Probe{
		Name:        domain.NewInternedString("pycf"),
		Interpreter: "python",
		Module:      "pycf",
		VersionAttr: "__version__",
	}
	if minVersion != "" {
		mv, err := domain.ParseMinVersion(minVersion)
		if err != nil {
			panic(err)
		}
		probe.MinVersion = mv
	}
	return probe
}

func TestGate_Check_ImportFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInterp := mocks.NewMockInterpreter(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	// The import step fails; the version step must never run.
	mockInterp.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		Return(domain.Execution{ExitCode: 1, Stderr: "ImportError: No module named pycf"}, nil).
		Times(1)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	g := gate.New(mockInterp, mockLogger)
	result := g.Check(context.Background(), testProbe("1.2"))

	assert.False(t, result.Found)
	assert.Contains(t, result.Diagnostic, "pycf")
	assert.Contains(t, result.Diagnostic, "python")
}

func TestGate_Check_InterpreterMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInterp := mocks.NewMockInterpreter(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	// A start failure is treated exactly like an import failure: a definite
	// not-found, no escaping error.
	mockInterp.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		Return(domain.Execution{ExitCode: -1}, zerr.New("failed to run interpreter")).
		Times(1)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	g := gate.New(mockInterp, mockLogger)
	result := g.Check(context.Background(), testProbe("1.2"))

	assert.False(t, result.Found)
}

func TestGate_Check_VersionStepFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInterp := mocks.NewMockInterpreter(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	gomock.InOrder(
		mockInterp.EXPECT().
			Run(gomock.Any(), gomock.Any()).
			Return(domain.Execution{ExitCode: 0}, nil),
		mockInterp.EXPECT().
			Run(gomock.Any(), gomock.Any()).
			Return(domain.Execution{ExitCode: 1, Stderr: "AttributeError"}, nil),
	)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	g := gate.New(mockInterp, mockLogger)
	result := g.Check(context.Background(), testProbe("1.2"))

	assert.False(t, result.Found)
	assert.Contains(t, result.Diagnostic, "version")
}

func TestGate_Check_VersionComparison(t *testing.T) {
	tests := []struct {
		name      string
		reported  string
		min       string
		wantFound bool
	}{
		{name: "patch ignored", reported: "1.2.3", min: "1.2", wantFound: true},
		{name: "minor too old", reported: "1.1.9", min: "1.2", wantFound: false},
		{name: "major newer", reported: "2.0.0", min: "1.9", wantFound: true},
		{name: "exactly equal", reported: "1.2", min: "1.2", wantFound: true},
		{name: "dev suffix tolerated", reported: "1.3.0.dev2", min: "1.2", wantFound: true},
		{name: "no minimum", reported: "0.0.1", min: "", wantFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockInterp := mocks.NewMockInterpreter(ctrl)
			mockLogger := mocks.NewMockLogger(ctrl)

			gomock.InOrder(
				mockInterp.EXPECT().
					Run(gomock.Any(), gomock.Any()).
					Return(domain.Execution{ExitCode: 0}, nil),
				mockInterp.EXPECT().
					Run(gomock.Any(), gomock.Any()).
					Return(domain.Execution{ExitCode: 0, Stdout: tt.reported}, nil),
			)
			if !tt.wantFound {
				mockLogger.EXPECT().Warn(gomock.Any()).Times(1)
			}

			g := gate.New(mockInterp, mockLogger)
			result := g.Check(context.Background(), testProbe(tt.min))

			assert.Equal(t, tt.wantFound, result.Found)
			assert.Equal(t, tt.reported, result.Version)
			if !tt.wantFound {
				assert.Contains(t, result.Diagnostic, tt.min)
			}
		})
	}
}

func TestGate_Check_UnparsableVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInterp := mocks.NewMockInterpreter(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	gomock.InOrder(
		mockInterp.EXPECT().
			Run(gomock.Any(), gomock.Any()).
			Return(domain.Execution{ExitCode: 0}, nil),
		mockInterp.EXPECT().
			Run(gomock.Any(), gomock.Any()).
			Return(domain.Execution{ExitCode: 0, Stdout: "unknown"}, nil),
	)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	g := gate.New(mockInterp, mockLogger)
	result := g.Check(context.Background(), testProbe("1.2"))

	assert.False(t, result.Found)
}

func TestGate_Check_Scripts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInterp := mocks.NewMockInterpreter(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	var scripts []string
	mockInterp.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv domain.Invocation) (domain.Execution, error) {
			scripts = append(scripts, inv.Script)
			return domain.Execution{ExitCode: 0, Stdout: "1.2.3"}, nil
		}).
		Times(2)

	g := gate.New(mockInterp, mockLogger)
	result := g.Check(context.Background(), testProbe("1.2"))
	require.True(t, result.Found)

	require.Len(t, scripts, 2)
	assert.Equal(t, "import pycf", scripts[0])
	// The version script must avoid print-statement syntax so it stays valid
	// across interpreter generations.
	assert.Equal(t, "import sys, pycf; sys.stdout.write(str(pycf.__version__))", scripts[1])
}

// fakeInterpreter writes an executable sh script that mimics a python-style
// interpreter: it inspects the inline script passed after -c and either
// imports cleanly, reports a version, or fails.
func fakeInterpreter(t *testing.T, script string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "python")
	content := "#!/bin/sh\n" + script + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

func TestGate_Check_RealInterpreter_Found(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()

	interpreter := fakeInterpreter(t, `case "$2" in
  *sys.stdout.write*) printf '1.2.3';;
  *) exit 0;;
esac`)

	probe := testProbe("1.2")
	probe.Interpreter = interpreter

	g := gate.New(shell.NewInterpreter(mockLogger), mockLogger)
	result := g.Check(context.Background(), probe)

	assert.True(t, result.Found)
	assert.Equal(t, "1.2.3", result.Version)
}

func TestGate_Check_RealInterpreter_ImportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	interpreter := fakeInterpreter(t, `echo "ImportError: No module named pycf" >&2
exit 1`)

	probe := testProbe("1.2")
	probe.Interpreter = interpreter

	g := gate.New(shell.NewInterpreter(mockLogger), mockLogger)
	result := g.Check(context.Background(), probe)

	assert.False(t, result.Found)
}

func TestGate_Check_RealInterpreter_MissingExecutable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	probe := testProbe("1.2")
	probe.Interpreter = filepath.Join(t.TempDir(), "no-such-python")

	g := gate.New(shell.NewInterpreter(mockLogger), mockLogger)
	result := g.Check(context.Background(), probe)

	assert.False(t, result.Found)
}

func TestGate_Check_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()

	interpreter := fakeInterpreter(t, `case "$2" in
  *sys.stdout.write*) printf '1.2.3';;
  *) exit 0;;
esac`)

	probe := testProbe("1.2")
	probe.Interpreter = interpreter

	g := gate.New(shell.NewInterpreter(mockLogger), mockLogger)

	first := g.Check(context.Background(), probe)
	second := g.Check(context.Background(), probe)
	assert.Equal(t, first, second)
}
