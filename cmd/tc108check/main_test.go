package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/tc108/internal/form/formtest"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func TestRun_ValidRecord(t *testing.T) {
	path := writeFile(t, formtest.JSON(t, formtest.Valid()))
	var stdout, stderr bytes.Buffer

	code := run([]string{path}, nil, &stdout, &stderr)

	assert.Equal(t, exitValid, code)
	assert.Contains(t, stdout.String(), "valid")
}

func TestRun_InvalidRecord(t *testing.T) {
	r := formtest.Valid()
	r.Valuation.AssessedValue = "5000"
	path := writeFile(t, formtest.JSON(t, r))
	var stdout, stderr bytes.Buffer

	code := run([]string{path}, nil, &stdout, &stderr)

	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, stdout.String(), "1 issue(s)")
	assert.Contains(t, stdout.String(), "valuation.assessedValue")
	assert.Contains(t, stdout.String(), "business_rule")
}

func TestRun_JSONReport(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-json", "-"}, strings.NewReader(`{"hearing":{"request":"phone"}}`), &stdout, &stderr)

	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, stdout.String(), `"valid": false`)
	assert.Contains(t, stdout.String(), `"hearing.request"`)
}

func TestRun_Unreadable(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
	}{
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "nope.json")}},
		{name: "malformed JSON", args: []string{"-"}, stdin: `{"property":`},
		{name: "not an object", args: []string{"-"}, stdin: `[]`},
		{name: "unknown key in strict mode", args: []string{"-strict", "-"}, stdin: `{"property":{"zip":"10001"}}`},
		{name: "no arguments", args: nil},
		{name: "bad flag", args: []string{"-nope", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)

			assert.Equal(t, exitUnreadable, code)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_UnknownKeyLenient(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-"}, strings.NewReader(`{"property":{"zip":"10001"}}`), &stdout, &stderr)

	assert.Equal(t, exitInvalid, code, "unknown keys are ignored and the blank form has issues")
}
