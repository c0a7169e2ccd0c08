package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/lento-lang/lento/pkg/atoms"
	"github.com/lento-lang/lento/pkg/diagnostics"
)

func TestExitCodeForDiag(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{diagnostics.ESyntax, 2},
		{diagnostics.EParse, 2},
		{diagnostics.EType, 2},
		{diagnostics.ERuntime, 4},
		{diagnostics.EInternal, 5},
		{diagnostics.EIO, 1},
		{diagnostics.EConfig, 1},
	}
	for _, tt := range tests {
		if got := exitCodeForDiag(tt.code); got != tt.want {
			t.Errorf("exitCodeForDiag(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestExitCodeForPlainError(t *testing.T) {
	code := exitCodeForDiag(diagnostics.FromError(errors.New("disk on fire"), "x.lt", diagnostics.EIO).Code)
	if code != 1 {
		t.Errorf("got %d", code)
	}
}

func TestPrintResult(t *testing.T) {
	tests := []struct {
		name   string
		value  atoms.Atomic
		asJSON bool
		want   string
	}{
		{"unit hidden", atoms.Unit{}, false, ""},
		{"unit json", atoms.Unit{}, true, "null\n"},
		{"string quoted", atoms.String{Value: "hi"}, false, "\"hi\"\n"},
		{"tuple json", atoms.Tuple{Elements: []atoms.Atomic{atoms.Integer{Value: 1}, atoms.Boolean{Value: true}}}, true, "[1,true]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printResult(&buf, tt.value, tt.asJSON)
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
