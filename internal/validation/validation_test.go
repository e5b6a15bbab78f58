// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package validation

import (
	"errors"
	"regexp"
	"strings"
	"testing"

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
	})
	s.Run("new chain with options", func() {
		chain := New(FailFast())
		s.Assert().True(chain.failFast)
		chain2 := New(AllErrors())
		s.Assert().False(chain2.failFast)
	})
}

func (s *validationTestSuite) TestAddAssertion() {
	chain := New()
	s.Assert().Empty(chain.validators)
	chain.AddAssertion(true, "")
	s.Assert().Len(chain.validators, 1)
}

func (s *validationTestSuite) TestValidate() {
	s.Run("with single validator", func() {
		chain := New()
		chain.AddValidator(NewEmptyStringValidator("field", ""))
		err := chain.Validate()
		s.Assert().EqualError(err, "the [field] is required")
	})
	s.Run("with multiple validators and FailFast option", func() {
		chain := New(FailFast())
		chain.
			AddValidator(NewEmptyStringValidator("field", "")).
			AddAssertion(false, "this is false")
		err := chain.Validate()
		s.Assert().Nil(chain.violations)
		s.Assert().EqualError(err, "the [field] is required")
	})
	s.Run("with multiple validators and AllErrors option", func() {
		chain := New(AllErrors())
		chain.
			AddValidator(NewEmptyStringValidator("field", "")).
			AddAssertion(false, "this is false")
		err := chain.Validate()
		s.Assert().EqualError(err, "the [field] is required; this is false")
	})
}

func (s *validationTestSuite) TestValidators() {
	s.Run("boolean", func() {
		s.Assert().NoError(NewBooleanValidator(true, "error message").Validate())
		s.Assert().EqualError(NewBooleanValidator(false, "error message").Validate(), "error message")
	})
	s.Run("empty string ignores surrounding spaces", func() {
		s.Assert().Error(NewEmptyStringValidator("appName", "   ").Validate())
		s.Assert().NoError(NewEmptyStringValidator("appName", "app-a").Validate())
	})
	s.Run("max length", func() {
		s.Assert().NoError(NewMaxLengthValidator("slot", "topbar", 255).Validate())
		s.Assert().EqualError(
			NewMaxLengthValidator("slot", strings.Repeat("a", 256), 255).Validate(),
			"the [slot] is too long, maximum length is 255")
	})
	s.Run("pattern", func() {
		pattern := regexp.MustCompile(`^[^#]*$`)
		s.Assert().NoError(NewPatternValidator(pattern, "app-a", nil).Validate())
		s.Assert().EqualError(NewPatternValidator(pattern, "app#a", nil).Validate(), "invalid expression")
		custom := errors.New("custom")
		s.Assert().ErrorIs(NewPatternValidator(pattern, "app#a", custom).Validate(), custom)
	})
}
