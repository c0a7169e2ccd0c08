package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lento-lang/lento/internal/testutil"
	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/diagnostics"
	"github.com/lento-lang/lento/pkg/runtime"
	"github.com/lento-lang/lento/pkg/stdlib"
)

// outcome is what a command printed and how it exited.
type outcome struct {
	stdout   string
	diags    []diagnostics.Diagnostic
	exitCode int
}

func TestConformance(t *testing.T) {
	dirs, err := testutil.ListScenarios(testutil.ScenariosDir)
	if err != nil {
		t.Fatalf("failed to list scenarios: %v", err)
	}
	if len(dirs) == 0 {
		t.Fatal("no scenarios found")
	}

	for _, dir := range dirs {
		dir := dir
		t.Run(filepath.Base(dir), func(t *testing.T) {
			scenario, err := testutil.LoadScenario(dir)
			if err != nil {
				t.Fatalf("failed to load scenario: %v", err)
			}
			program, err := testutil.ReadProgram(dir)
			if err != nil {
				t.Fatalf("failed to read program file: %v", err)
			}
			if len(scenario.Cmd) == 0 {
				t.Fatal("scenario has no command")
			}

			got := runScenario(t, scenario, program)
			checkExpectations(t, got, scenario)
		})
	}
}

func runScenario(t *testing.T, scenario *testutil.Scenario, program []byte) outcome {
	t.Helper()

	var stdout bytes.Buffer
	reg := stdlib.Default()
	reg.SetOutput(&stdout)

	opts := []runtime.Option{runtime.WithRegistry(reg), runtime.WithFileName(testutil.ProgramFile)}
	if cfg := scenario.Config; cfg != nil {
		if cfg.Encoding != "" {
			opts = append(opts, runtime.WithEncoding(cfg.Encoding))
		}
		if cfg.TypeCheck != nil {
			opts = append(opts, runtime.WithTypeCheck(*cfg.TypeCheck))
		}
	}
	rt := runtime.New(opts...)
	asJSON := hasFlag(scenario.Cmd, "--json")

	fail := func(err error) outcome {
		diag := diagnostics.FromError(err, testutil.ProgramFile, diagnostics.EIO)
		return outcome{stdout: stdout.String(), diags: []diagnostics.Diagnostic{diag}, exitCode: exitCodeForDiag(diag.Code)}
	}

	switch scenario.Cmd[0] {
	case "run":
		v, err := rt.EvaluateFile(bytes.NewReader(program))
		if err != nil {
			return fail(err)
		}
		writeResult(&stdout, v, asJSON)

	case "check":
		if diags := rt.Check(bytes.NewReader(program)); len(diags) > 0 {
			return outcome{stdout: stdout.String(), diags: diags, exitCode: exitCodeForDiag(diags[0].Code)}
		}
		stdout.WriteString("[]\n")

	case "fmt":
		formatted, err := rt.Format(bytes.NewReader(program))
		if err != nil {
			return fail(err)
		}
		stdout.WriteString(formatted)

	case "tokens":
		toks, err := rt.Tokens(bytes.NewReader(program))
		if err != nil {
			return fail(err)
		}
		for _, tok := range toks {
			fmt.Fprintf(&stdout, "%s\t%s\t%q\n", tok.Span.Start, tok.Type, tok.Value)
		}

	case "repl":
		scope, err := rt.NewGlobalScope()
		if err != nil {
			t.Fatal(err)
		}
		var diags []diagnostics.Diagnostic
		for _, line := range strings.Split(scenario.Stdin, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			v, err := rt.EvaluateInput(line, scope)
			if err != nil {
				diags = append(diags, diagnostics.FromError(err, testutil.ProgramFile, diagnostics.EIO))
				continue
			}
			writeResult(&stdout, v, asJSON)
		}
		return outcome{stdout: stdout.String(), diags: diags}

	default:
		t.Fatalf("unsupported command: %s", scenario.Cmd[0])
	}
	return outcome{stdout: stdout.String()}
}

func checkExpectations(t *testing.T, got outcome, scenario *testutil.Scenario) {
	t.Helper()
	expect := scenario.Expect

	if got.exitCode != expect.ExitCode {
		t.Errorf("exit code: got %d, want %d (diagnostics: %v)", got.exitCode, expect.ExitCode, got.diags)
	}

	if expect.StdoutText != nil && got.stdout != *expect.StdoutText {
		t.Errorf("stdout:\n  got:  %q\n  want: %q", got.stdout, *expect.StdoutText)
	}
	if expect.StdoutContains != "" && !strings.Contains(got.stdout, expect.StdoutContains) {
		t.Errorf("stdout should contain %q, got: %q", expect.StdoutContains, got.stdout)
	}
	if expect.StdoutJSON != nil {
		want := normalizeJSON(t, expect.StdoutJSON)
		actual := normalizeJSON(t, json.RawMessage(got.stdout))
		if want != actual {
			t.Errorf("stdout JSON:\n  got:  %s\n  want: %s", actual, want)
		}
	}

	stderr := diagnostics.FormatDiagnostics(got.diags, false)
	if expect.StderrContains != "" && !strings.Contains(stderr, expect.StderrContains) {
		t.Errorf("stderr should contain %q, got: %s", expect.StderrContains, stderr)
	}
	if expect.StderrJSONSubset != nil {
		var expected []map[string]any
		if err := json.Unmarshal(expect.StderrJSONSubset, &expected); err != nil {
			t.Fatalf("failed to parse expected stderr JSON subset: %v", err)
		}
		var actual []any
		if err := json.Unmarshal([]byte(stderr), &actual); err != nil {
			t.Fatalf("failed to parse actual diagnostics: %v", err)
		}
		for _, e := range expected {
			found := false
			for _, a := range actual {
				if isSubset(e, a) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("stderr JSON subset not found: %v in %s", e, stderr)
			}
		}
	}
}

func writeResult(buf *bytes.Buffer, v atoms.Atomic, asJSON bool) {
	if asJSON {
		buf.WriteString(atoms.ToJSONString(v) + "\n")
		return
	}
	if _, unit := v.(atoms.Unit); !unit {
		buf.WriteString(v.String() + "\n")
	}
}

func hasFlag(cmd []string, flag string) bool {
	for _, arg := range cmd {
		if arg == flag {
			return true
		}
	}
	return false
}

func exitCodeForDiag(code string) int {
	switch code {
	case diagnostics.ESyntax, diagnostics.EParse, diagnostics.EType:
		return 2
	case diagnostics.ERuntime:
		return 4
	case diagnostics.EInternal:
		return 5
	default:
		return 1
	}
}

func normalizeJSON(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("failed to parse JSON: %v (raw: %s)", err, string(raw))
	}
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to re-marshal JSON: %v", err)
	}
	return string(b)
}

// isSubset checks if expected is a subset of actual (for JSON comparison).
func isSubset(expected, actual any) bool {
	switch e := expected.(type) {
	case map[string]any:
		a, ok := actual.(map[string]any)
		if !ok {
			return false
		}
		for k, ev := range e {
			av, exists := a[k]
			if !exists || !isSubset(ev, av) {
				return false
			}
		}
		return true

	case []any:
		a, ok := actual.([]any)
		if !ok || len(e) > len(a) {
			return false
		}
		for i, ev := range e {
			if !isSubset(ev, a[i]) {
				return false
			}
		}
		return true

	case nil:
		return actual == nil

	default:
		return fmt.Sprintf("%v", expected) == fmt.Sprintf("%v", actual)
	}
}

func TestScenariosExist(t *testing.T) {
	info, err := os.Stat(testutil.ScenariosDir)
	if err != nil {
		t.Fatalf("scenarios directory not found: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("scenarios path is not a directory: %s", testutil.ScenariosDir)
	}
}
