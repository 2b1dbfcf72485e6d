// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

// Package errors defines the typed error taxonomy for the embr core.
// The core returns coded errors and never formats user-facing text;
// rendering is the CLI's job.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeRepoNotInitialized   Code = "repo.tree.not_initialized"
	CodeRepoDiscoverNotFound Code = "repo.discover.not_found"
	CodeRepoBootstrapFailure Code = "repo.bootstrap.io_failure"

	CodeStoreObjectNotFound Code = "store.object.not_found"
	CodeStoreObjectInvalid  Code = "store.object.invalid_object"
	CodeStoreWriteFailure   Code = "store.write.io_failure"
	CodeStoreIndexFailure   Code = "store.index.io_failure"
	CodeStoreHashAmbiguous  Code = "store.hash.ambiguous"
	CodeStoreHashInvalid    Code = "store.hash.invalid_input"
	CodeStoreEntryNotFound  Code = "store.entry.not_found"
	CodeStoreModelRequired  Code = "store.model.required"

	CodeVectorValuesInvalid     Code = "vector.load.invalid_values"
	CodeVectorDecodeInvalid     Code = "vector.decode.invalid_object"
	CodeVectorDimensionMismatch Code = "vector.dimension.mismatch"

	CodeCompareComputationFailed Code = "compare.norm.computation_failed"
	CodeCompareInvalidInput      Code = "compare.input.invalid_input"

	CodeDeltaInvalid       Code = "delta.apply.invalid_delta"
	CodeDeltaEncodeFailure Code = "delta.encode.io_failure"

	CodeRegistryParseInvalid  Code = "registry.parse.invalid_format"
	CodeRegistryModelNotFound Code = "registry.model.not_found"
	CodeRegistryWriteFailure  Code = "registry.write.io_failure"

	CodeConfigLoadReadFailure    Code = "config.load.read.failure"
	CodeConfigParseInvalidFormat Code = "config.parse.invalid_format"

	CodeCLIInputInvalid Code = "cli.input.invalid"
	CodeCLISetupFailure Code = "cli.setup.failure"

	CodeInternalFailure Code = "internal.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldHash(value string) Attr {
	return Field("hash", value)
}

func FieldPrefix(value string) Attr {
	return Field("prefix", value)
}

func FieldPath(value string) Attr {
	return Field("path", value)
}

func FieldModel(value string) Attr {
	return Field("model", value)
}

// FieldModels carries the set of candidate models on a model.required error.
func FieldModels(values []string) Attr {
	return Field("models", values)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

// With adds structured fields to an existing error chain.
func With(err error, fields ...Attr) error {
	if err == nil {
		return nil
	}

	code := CodeOf(err)
	if code == "" {
		code = CodeInternalFailure
	}

	return oops.Code(code).With(flatten(fields)...).Wrap(err)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

func IsNotInitialized(err error) bool {
	return reason(CodeOf(err)) == "not_initialized"
}

func IsAmbiguous(err error) bool {
	return reason(CodeOf(err)) == "ambiguous"
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "invalid_format"
}

func IsInvalidObject(err error) bool {
	return reason(CodeOf(err)) == "invalid_object"
}

func IsInvalidValues(err error) bool {
	return reason(CodeOf(err)) == "invalid_values"
}

func IsDimensionMismatch(err error) bool {
	return reason(CodeOf(err)) == "mismatch"
}

func IsModelRequired(err error) bool {
	return reason(CodeOf(err)) == "required"
}

func IsComputationFailed(err error) bool {
	return reason(CodeOf(err)) == "computation_failed"
}

func IsInvalidDelta(err error) bool {
	return reason(CodeOf(err)) == "invalid_delta"
}

// IsIo reports whether the error is an unclassified OS-level failure.
func IsIo(err error) bool {
	r := reason(CodeOf(err))
	return r == "io_failure" || r == "failure"
}

// AvailableModels extracts the candidate model list from a model.required
// error. Returns nil when the error carries no such field.
func AvailableModels(err error) []string {
	fields := FieldsOf(err)
	if fields == nil {
		return nil
	}
	models, _ := fields["models"].([]string)
	return models
}

func Join(errs ...error) error {
	return oops.Code(CodeInternalFailure).Wrap(stderrors.Join(errs...))
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
