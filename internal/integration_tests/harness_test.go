package integration_tests

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/specialistvlad/glyphgrid/internal/app"
	"github.com/specialistvlad/glyphgrid/internal/hcl"
	"github.com/specialistvlad/glyphgrid/internal/picture"
	"github.com/specialistvlad/glyphgrid/internal/testutil"
	"github.com/stretchr/testify/require"
)

// harnessResult holds everything a scenario may want to assert on.
type harnessResult struct {
	App    *app.App
	Output string
	Logs   string
	Err    error
}

// runScenario writes pictures and HCL files into a temporary workspace, runs
// the whole application over it and captures the report and logs.
func runScenario(t *testing.T, pictures map[string]*picture.Picture, files map[string]string, mutate func(*app.Config)) *harnessResult {
	t.Helper()

	ws := testutil.NewWorkspace(t)
	for name, p := range pictures {
		ws.WritePicture(name, p)
	}
	for name, content := range files {
		ws.WriteFile(name, content)
	}

	cfg, err := app.NewConfig(app.Config{ConfigPath: ws.Root, LogLevel: "debug", LogFormat: "text"})
	require.NoError(t, err)
	if mutate != nil {
		mutate(cfg)
	}

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("GLYPHGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	a, err := app.NewApp(out, logs, cfg, hcl.NewLoader())
	if err != nil {
		return &harnessResult{Err: err, Logs: logs.String()}
	}
	err = a.Run(context.Background())
	return &harnessResult{App: a, Output: out.String(), Logs: logs.String(), Err: err}
}
