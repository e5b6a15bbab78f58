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
	"fmt"
	"regexp"
	"strings"
)

type booleanValidator struct {
	boolCheck  bool
	errMessage string
}

// NewBooleanValidator returns a validator failing with errMessage when boolCheck is false.
func NewBooleanValidator(boolCheck bool, errMessage string) Validator {
	return booleanValidator{boolCheck: boolCheck, errMessage: errMessage}
}

func (v booleanValidator) Validate() error {
	if !v.boolCheck {
		return errors.New(v.errMessage)
	}
	return nil
}

type emptyStringValidator struct {
	field string
	value string
}

// NewEmptyStringValidator returns a validator failing when value is blank.
func NewEmptyStringValidator(field, value string) Validator {
	return emptyStringValidator{field: field, value: value}
}

func (v emptyStringValidator) Validate() error {
	if strings.TrimSpace(v.value) == "" {
		return fmt.Errorf("the [%s] is required", v.field)
	}
	return nil
}

type maxLengthValidator struct {
	field string
	value string
	max   int
}

// NewMaxLengthValidator returns a validator failing when value exceeds max bytes.
func NewMaxLengthValidator(field, value string, max int) Validator {
	return maxLengthValidator{field: field, value: value, max: max}
}

func (v maxLengthValidator) Validate() error {
	if len(v.value) > v.max {
		return fmt.Errorf("the [%s] is too long, maximum length is %d", v.field, v.max)
	}
	return nil
}

type patternValidator struct {
	pattern    *regexp.Regexp
	expression string
	customErr  error
}

// NewPatternValidator returns a validator failing when expression does not match pattern.
// The pattern must be a valid regular expression.
func NewPatternValidator(pattern *regexp.Regexp, expression string, customErr error) Validator {
	return patternValidator{pattern: pattern, expression: expression, customErr: customErr}
}

func (v patternValidator) Validate() error {
	if !v.pattern.MatchString(v.expression) {
		if v.customErr != nil {
			return v.customErr
		}
		return errors.New("invalid expression")
	}
	return nil
}
