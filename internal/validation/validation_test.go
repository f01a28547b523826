/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type validationTestSuite struct {
	suite.Suite
}

// In order for 'go test' to run this suite, we need to create
// a normal test function and pass our suite to suite.Run
func TestValidation(t *testing.T) {
	suite.Run(t, new(validationTestSuite))
}

func (s *validationTestSuite) TestNewChain() {
	s.Run("new chain without option", func() {
		chain := New()
		s.Assert().NotNil(chain)
		s.Assert().False(chain.failFast)
	})
	s.Run("new chain with options", func() {
		chain := New(FailFast())
		s.Assert().True(chain.failFast)
		chain2 := New(AllErrors())
		s.Assert().False(chain2.failFast)
	})
}

func (s *validationTestSuite) TestAddValidator() {
	chain := New()
	s.Assert().Empty(chain.validators)
	chain.AddValidator(NewBooleanValidator(true, "")).AddAssertion(true, "")
	s.Assert().Len(chain.validators, 2)
}

func (s *validationTestSuite) TestValidate() {
	s.Run("with no violation", func() {
		err := New().
			AddValidator(NewEmptyStringValidator("field", "value")).
			AddValidator(NewPositiveDurationValidator("grace", time.Second, nil)).
			AddValidator(NewRequiredValidator(true, errors.New("missing"))).
			Validate()
		s.Assert().NoError(err)
	})
	s.Run("with single validator", func() {
		chain := New().AddValidator(NewEmptyStringValidator("field", " "))
		err := chain.Validate()
		s.Assert().EqualError(err, "the [field] is required")
		// validating twice reports the same violations
		s.Assert().EqualError(chain.Validate(), "the [field] is required")
	})
	s.Run("with multiple validators and FailFast option", func() {
		err := New(FailFast()).
			AddValidator(NewEmptyStringValidator("field", "")).
			AddAssertion(false, "this is false").
			Validate()
		s.Assert().EqualError(err, "the [field] is required")
	})
	s.Run("with multiple validators and AllErrors option", func() {
		err := New(AllErrors()).
			AddValidator(NewEmptyStringValidator("field", "")).
			AddAssertion(false, "this is false").
			Validate()
		s.Assert().EqualError(err, "the [field] is required; this is false")
	})
	s.Run("with wrapped sentinel errors", func() {
		sentinel := errors.New("invalid grace period")
		missing := errors.New("handler is not defined")
		err := New().
			AddValidator(NewPositiveDurationValidator("grace", 0, sentinel)).
			AddValidator(NewRequiredValidator(false, missing)).
			Validate()
		s.Assert().ErrorIs(err, sentinel)
		s.Assert().ErrorIs(err, missing)
	})
}
