// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "node not found")

	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "node not found" {
		t.Errorf("expected message 'node not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeInvalidRequest, "count %d exceeds %d available nodes", 5, 3)
	if err.Message != "count 5 exceeds 3 available nodes" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrCodeCommandFailed, "kubectl apply failed", cause)

	if err.Code != ErrCodeCommandFailed {
		t.Errorf("expected code %s, got %s", ErrCodeCommandFailed, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("exit status 1")
	ctx := map[string]any{
		"command": "kubectl label node worker-1 tier=gpu --overwrite",
		"stderr":  "Error from server (NotFound)",
	}

	err := WrapWithContext(ErrCodeCommandFailed, "label failed", cause, ctx)

	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["stderr"] != "Error from server (NotFound)" {
		t.Errorf("expected stderr to be carried in context")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeParse, "invalid config", errors.New("yaml: line 3")),
			expected: "[PARSE_ERROR] invalid config: yaml: line 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ErrCodeInternal},
		{"structured", New(ErrCodeRender, "bad template"), ErrCodeRender},
		{"wrapped by fmt", fmt.Errorf("deploy: %w", New(ErrCodeTimeout, "slow")), ErrCodeTimeout},
		{
			name: "outermost wins",
			err:  Wrap(ErrCodeCommandFailed, "apply", New(ErrCodeNotFound, "missing")),
			want: ErrCodeCommandFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := Wrap(ErrCodeCommandFailed, "scale", New(ErrCodeNotFound, "deployment missing"))

	if !IsCode(err, ErrCodeCommandFailed) {
		t.Error("expected outer code to match")
	}
	if !IsCode(err, ErrCodeNotFound) {
		t.Error("expected inner code to match")
	}
	if IsCode(err, ErrCodeParse) {
		t.Error("unexpected match for PARSE_ERROR")
	}
	if IsCode(errors.New("plain"), ErrCodeInternal) {
		t.Error("plain errors carry no code")
	}
}
