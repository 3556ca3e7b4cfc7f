package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	// The probes below use sh as the interpreter, so the import script is
	// never a valid command and every probe reports not found. That keeps
	// the exit codes deterministic on machines without the real
	// interpreter installed.
	tests := []struct {
		name         string
		setupConfig  func(tmpDir string) string
		args         []string
		expectedExit int
	}{
		{
			name: "Not found is not an error",
			setupConfig: func(tmpDir string) string {
				configPath := tmpDir + "/depgate.yaml"
				configContent := `version: "1"
probes:
  pycf:
    interpreter: sh
    minVersion: "1.2"
`
				err := os.WriteFile(configPath, []byte(configContent), 0o600)
				if err != nil {
					t.Fatalf("failed to write config: %v", err)
				}
				return configPath
			},
			args:         []string{"depgate", "check"},
			expectedExit: 0,
		},
		{
			name: "Strict mode fails on not found",
			setupConfig: func(tmpDir string) string {
				configPath := tmpDir + "/depgate.yaml"
				configContent := `version: "1"
probes:
  pycf:
    interpreter: sh
`
				err := os.WriteFile(configPath, []byte(configContent), 0o600)
				if err != nil {
					t.Fatalf("failed to write config: %v", err)
				}
				return configPath
			},
			args:         []string{"depgate", "check", "--strict"},
			expectedExit: 1,
		},
		{
			name: "Error with missing config",
			setupConfig: func(tmpDir string) string {
				return tmpDir + "/nonexistent.yaml"
			},
			args:         []string{"depgate", "-c", "nonexistent.yaml", "check"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			// Setup config
			configPath := tt.setupConfig(tmpDir)

			// Change to tmpDir for relative path resolution
			originalWd, _ := os.Getwd()
			err := os.Chdir(tmpDir)
			if err != nil {
				t.Fatalf("failed to chdir: %v", err)
			}
			defer func() {
				_ = os.Chdir(originalWd)
			}()

			// Set args
			os.Args = tt.args
			if tt.args[1] == "-c" {
				os.Args[2] = configPath
			}

			// Run and capture exit code
			exitCode := run()
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}
