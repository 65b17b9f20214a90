package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (s *ErrorTestSuite) TestNewHatError() {
	// Setup
	code := ErrEmptyPool
	message := "the hat is empty"

	// Execute
	err := NewHatError(code, message)

	// Assert
	s.Equal(code, err.Code, "Error code should match")
	s.Equal(message, err.Message, "Error message should match")
	s.Nil(err.Err, "Underlying error should be nil")
}

func (s *ErrorTestSuite) TestWrapError() {
	// Setup
	code := ErrStorage
	message := "could not save the hat"
	underlying := errors.New("disk full")

	// Execute
	err := WrapError(code, message, underlying)

	// Assert
	s.Equal(code, err.Code, "Error code should match")
	s.Equal(message, err.Message, "Error message should match")
	s.Equal(underlying, err.Err, "Underlying error should match")
	s.ErrorIs(err, underlying)
}

func (s *ErrorTestSuite) TestErrorString() {
	testCases := []struct {
		name     string
		err      *HatError
		expected string
	}{
		{
			name:     "Simple error",
			err:      NewHatError(ErrNotFound, "Bob wasn't found in the hat"),
			expected: "NOT_FOUND: Bob wasn't found in the hat",
		},
		{
			name:     "Wrapped error",
			err:      WrapError(ErrStorage, "could not load the hat", errors.New("permission denied")),
			expected: "STORAGE_ERROR: could not load the hat (permission denied)",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, tc.err.Error(), "Error string should match expected format")
		})
	}
}

func (s *ErrorTestSuite) TestIsHatError() {
	// Setup
	hatErr := NewHatError(ErrAlreadyPending, "already drew")
	wrapped := fmt.Errorf("draw: %w", hatErr)
	regularErr := errors.New("regular error")

	testCases := []struct {
		name     string
		err      error
		code     ErrorCode
		expected bool
	}{
		{name: "Matching hat error", err: hatErr, code: ErrAlreadyPending, expected: true},
		{name: "Wrapped hat error", err: wrapped, code: ErrAlreadyPending, expected: true},
		{name: "Non-matching hat error", err: hatErr, code: ErrEmptyPool, expected: false},
		{name: "Regular error", err: regularErr, code: ErrAlreadyPending, expected: false},
		{name: "Nil error", err: nil, code: ErrAlreadyPending, expected: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			result := IsHatError(tc.err, tc.code)
			s.Equal(tc.expected, result, "IsHatError result should match expected value")
		})
	}
}

func (s *ErrorTestSuite) TestAs() {
	// Setup
	hatErr := NewHatError(ErrNoPendingDraw, "no draw")
	regularErr := errors.New("regular error")

	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "Hat error", err: hatErr, expected: true},
		{name: "Wrapped hat error", err: fmt.Errorf("keep: %w", hatErr), expected: true},
		{name: "Regular error", err: regularErr, expected: false},
		{name: "Nil error", err: nil, expected: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			var target *HatError
			result := As(tc.err, &target)
			s.Equal(tc.expected, result, "As result should match expected value")
			if tc.expected {
				s.Equal(hatErr, target, "Target should be set to the hat error")
			}
		})
	}
}

func (s *ErrorTestSuite) TestAsNilTarget() {
	s.False(As(NewHatError(ErrNotFound, "x"), nil))
}
