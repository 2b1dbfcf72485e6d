// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	embrerr "github.com/embr-dev/embr/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// New / Errorf
// ---------------------------------------------------------------------------

func TestNewIncludesCodeAndFields(t *testing.T) {
	err := embrerr.New(
		embrerr.CodeStoreHashAmbiguous,
		"prefix matches multiple objects",
		embrerr.FieldPrefix("abc1"),
		embrerr.Field("matches", 2),
	)

	require.Error(t, err)
	assert.Equal(t, embrerr.CodeStoreHashAmbiguous, embrerr.CodeOf(err))
	assert.True(t, embrerr.HasCode(err, embrerr.CodeStoreHashAmbiguous))

	fields := embrerr.FieldsOf(err)
	assert.Equal(t, "abc1", fields["prefix"])
	assert.Equal(t, 2, fields["matches"])
}

func TestErrorfFormatsMessage(t *testing.T) {
	err := embrerr.Errorf(embrerr.CodeStoreObjectNotFound, "no object matches prefix %q", "dead")
	require.Error(t, err)
	assert.Equal(t, embrerr.CodeStoreObjectNotFound, embrerr.CodeOf(err))
	assert.Contains(t, err.Error(), `no object matches prefix "dead"`)
}

func TestErrorfWrapsInnerError(t *testing.T) {
	inner := stderrors.New("disk full")
	err := embrerr.Errorf(embrerr.CodeStoreWriteFailure, "writing object: %w", inner)
	require.Error(t, err)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, embrerr.CodeStoreWriteFailure, embrerr.CodeOf(err))
}

// ---------------------------------------------------------------------------
// Wrap / Wrapf
// ---------------------------------------------------------------------------

func TestWrapPreservesWrappedErrorAndCode(t *testing.T) {
	root := stderrors.New("record missing")
	err := embrerr.Wrap(
		root,
		embrerr.CodeStoreObjectNotFound,
		"reading object",
		embrerr.FieldHash("abcd1234"),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, root)
	assert.Equal(t, embrerr.CodeStoreObjectNotFound, embrerr.CodeOf(err))
	assert.True(t, embrerr.IsNotFound(err))
	assert.Equal(t, "abcd1234", embrerr.FieldsOf(err)["hash"])
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, embrerr.Wrap(nil, embrerr.CodeInternalFailure, "ignored"))
	assert.NoError(t, embrerr.Wrapf(nil, embrerr.CodeInternalFailure, "ignored %s", "arg"))
	assert.NoError(t, embrerr.With(nil, embrerr.FieldPath("x")))
}

func TestWrapfFormatsAndPreservesChain(t *testing.T) {
	root := stderrors.New("short header")
	err := embrerr.Wrapf(root, embrerr.CodeVectorDecodeInvalid, "decoding %s artifact", "npy")

	require.Error(t, err)
	assert.ErrorIs(t, err, root)
	assert.Equal(t, embrerr.CodeVectorDecodeInvalid, embrerr.CodeOf(err))
	assert.Contains(t, err.Error(), "decoding npy artifact")
}

// ---------------------------------------------------------------------------
// With
// ---------------------------------------------------------------------------

func TestWithAddsContextWithoutChangingCode(t *testing.T) {
	base := embrerr.New(embrerr.CodeStoreModelRequired, "model must be chosen")
	withCtx := embrerr.With(base, embrerr.FieldPath("doc.txt"))

	require.Error(t, withCtx)
	assert.Equal(t, embrerr.CodeStoreModelRequired, embrerr.CodeOf(withCtx))
	assert.Equal(t, "doc.txt", embrerr.FieldsOf(withCtx)["path"])
}

func TestWithOnPlainErrorDefaultsToInternalCode(t *testing.T) {
	plain := stderrors.New("something broke")
	enriched := embrerr.With(plain, embrerr.FieldModel("m1"))

	require.Error(t, enriched)
	assert.Equal(t, embrerr.CodeInternalFailure, embrerr.CodeOf(enriched))
	assert.Equal(t, "m1", embrerr.FieldsOf(enriched)["model"])
}

// ---------------------------------------------------------------------------
// CodeOf / HasCode
// ---------------------------------------------------------------------------

func TestCodeOfNilAndPlain(t *testing.T) {
	assert.Equal(t, embrerr.Code(""), embrerr.CodeOf(nil))
	assert.Equal(t, embrerr.Code(""), embrerr.CodeOf(stderrors.New("plain")))
}

func TestCodeOfReturnsInnermostCodedError(t *testing.T) {
	inner := embrerr.New(embrerr.CodeStoreObjectInvalid, "bad header")
	outer := embrerr.Wrap(inner, embrerr.CodeInternalFailure, "loading artifact")
	// oops.AsOops walks to the deepest oops error, so CodeOf returns the innermost code.
	assert.Equal(t, embrerr.CodeStoreObjectInvalid, embrerr.CodeOf(outer))
}

func TestHasCodeOnWrappedChain(t *testing.T) {
	sentinel := stderrors.New("root cause")
	mid := fmt.Errorf("mid: %w", sentinel)
	outer := embrerr.Wrap(mid, embrerr.CodeStoreIndexFailure, "rewriting index")

	assert.ErrorIs(t, outer, sentinel)
	assert.True(t, embrerr.HasCode(outer, embrerr.CodeStoreIndexFailure))
	assert.False(t, embrerr.HasCode(outer, embrerr.CodeStoreObjectNotFound))
	assert.False(t, embrerr.HasCode(nil, embrerr.CodeStoreIndexFailure))
}

// ---------------------------------------------------------------------------
// Classification helpers
// ---------------------------------------------------------------------------

func TestClassification(t *testing.T) {
	tests := []struct {
		name  string
		code  embrerr.Code
		check func(error) bool
	}{
		{"object not found", embrerr.CodeStoreObjectNotFound, embrerr.IsNotFound},
		{"entry not found", embrerr.CodeStoreEntryNotFound, embrerr.IsNotFound},
		{"model not found", embrerr.CodeRegistryModelNotFound, embrerr.IsNotFound},
		{"not initialized", embrerr.CodeRepoNotInitialized, embrerr.IsNotInitialized},
		{"ambiguous", embrerr.CodeStoreHashAmbiguous, embrerr.IsAmbiguous},
		{"invalid prefix", embrerr.CodeStoreHashInvalid, embrerr.IsInvalidInput},
		{"invalid registry line", embrerr.CodeRegistryParseInvalid, embrerr.IsInvalidInput},
		{"invalid object", embrerr.CodeStoreObjectInvalid, embrerr.IsInvalidObject},
		{"invalid decode", embrerr.CodeVectorDecodeInvalid, embrerr.IsInvalidObject},
		{"invalid values", embrerr.CodeVectorValuesInvalid, embrerr.IsInvalidValues},
		{"dimension mismatch", embrerr.CodeVectorDimensionMismatch, embrerr.IsDimensionMismatch},
		{"model required", embrerr.CodeStoreModelRequired, embrerr.IsModelRequired},
		{"computation failed", embrerr.CodeCompareComputationFailed, embrerr.IsComputationFailed},
		{"invalid delta", embrerr.CodeDeltaInvalid, embrerr.IsInvalidDelta},
		{"io", embrerr.CodeStoreWriteFailure, embrerr.IsIo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := embrerr.New(tt.code, "boom")
			assert.True(t, tt.check(err))
		})
	}
}

func TestClassificationNegativeCases(t *testing.T) {
	err := embrerr.New(embrerr.CodeStoreWriteFailure, "disk error")
	assert.False(t, embrerr.IsNotFound(err))
	assert.False(t, embrerr.IsAmbiguous(err))
	assert.False(t, embrerr.IsInvalidInput(err))
	assert.False(t, embrerr.IsInvalidObject(err))
	assert.False(t, embrerr.IsInvalidValues(err))
	assert.False(t, embrerr.IsModelRequired(err))
}

func TestClassificationOnNilAndPlainError(t *testing.T) {
	for _, err := range []error{nil, stderrors.New("plain")} {
		assert.False(t, embrerr.IsNotFound(err))
		assert.False(t, embrerr.IsNotInitialized(err))
		assert.False(t, embrerr.IsAmbiguous(err))
		assert.False(t, embrerr.IsInvalidInput(err))
		assert.False(t, embrerr.IsInvalidValues(err))
		assert.False(t, embrerr.IsDimensionMismatch(err))
		assert.False(t, embrerr.IsComputationFailed(err))
	}
}

// ---------------------------------------------------------------------------
// AvailableModels
// ---------------------------------------------------------------------------

func TestAvailableModels(t *testing.T) {
	err := embrerr.New(embrerr.CodeStoreModelRequired, "multiple models for path",
		embrerr.FieldPath("doc.txt"),
		embrerr.FieldModels([]string{"m1", "m2"}),
	)

	assert.Equal(t, []string{"m1", "m2"}, embrerr.AvailableModels(err))
	assert.Nil(t, embrerr.AvailableModels(nil))
	assert.Nil(t, embrerr.AvailableModels(stderrors.New("plain")))
}

// ---------------------------------------------------------------------------
// Join
// ---------------------------------------------------------------------------

func TestJoinCombinesErrors(t *testing.T) {
	a := stderrors.New("first")
	b := stderrors.New("second")
	joined := embrerr.Join(a, b)

	require.Error(t, joined)
	assert.ErrorIs(t, joined, a)
	assert.ErrorIs(t, joined, b)
	assert.Equal(t, embrerr.CodeInternalFailure, embrerr.CodeOf(joined))
}

func TestFieldsWithEmptyKeyAreIgnored(t *testing.T) {
	err := embrerr.New(embrerr.CodeStoreWriteFailure, "oops",
		embrerr.Field("", "should-be-dropped"),
		embrerr.FieldHash("kept"),
	)
	fields := embrerr.FieldsOf(err)
	assert.Equal(t, "kept", fields["hash"])
	assert.NotContains(t, fields, "")
}
