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

package extension

import (
	"net/url"
	"regexp"
	"strings"
)

// Location is the navigation state activity predicates are evaluated against.
type Location struct {
	Pathname string
	Search   string
	Hash     string
}

// ParseLocation builds a Location from a URL or a bare path.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, err
	}

	loc := Location{Pathname: u.EscapedPath()}
	if u.RawQuery != "" {
		loc.Search = "?" + u.RawQuery
	}
	if u.Fragment != "" {
		loc.Hash = "#" + u.EscapedFragment()
	}
	if loc.Pathname == "" {
		loc.Pathname = "/"
	}
	return loc, nil
}

// String returns the location as a relative URL
func (l Location) String() string {
	return l.Pathname + l.Search + l.Hash
}

// ActivityFn reports whether an extension applies to a location.
// Implementations must be pure: the registry evaluates them on every query,
// in any order.
type ActivityFn func(Location) bool

// Always is active for every location.
func Always() ActivityFn {
	return Static(true)
}

// Never is active for no location.
func Never() ActivityFn {
	return Static(false)
}

// Static ignores the location and returns active.
func Static(active bool) ActivityFn {
	return func(Location) bool { return active }
}

// PathPrefix is active when the pathname starts with any of the prefixes.
func PathPrefix(prefixes ...string) ActivityFn {
	return func(loc Location) bool {
		for _, prefix := range prefixes {
			if strings.HasPrefix(loc.Pathname, prefix) {
				return true
			}
		}
		return false
	}
}

// PathPattern is active when the pathname starts with the route pattern.
// Segments starting with ':' match exactly one path segment, so
// "/patient/:uuid/chart" matches "/patient/42/chart/vitals" but not
// "/patient/42/charts". A pattern that cannot be compiled is never active.
func PathPattern(pattern string) ActivityFn {
	re, err := compilePathPattern(pattern)
	if err != nil {
		return Never()
	}
	return func(loc Location) bool {
		return re.MatchString(loc.Pathname)
	}
}

// AnyOf is active when at least one of fns is active.
func AnyOf(fns ...ActivityFn) ActivityFn {
	return func(loc Location) bool {
		for _, fn := range fns {
			if fn != nil && fn(loc) {
				return true
			}
		}
		return false
	}
}

// AllOf is active when every fn is active. AllOf with no predicates is always active.
func AllOf(fns ...ActivityFn) ActivityFn {
	return func(loc Location) bool {
		for _, fn := range fns {
			if fn != nil && !fn(loc) {
				return false
			}
		}
		return true
	}
}

// Not negates fn.
func Not(fn ActivityFn) ActivityFn {
	return func(loc Location) bool {
		return fn == nil || !fn(loc)
	}
}

func compilePathPattern(pattern string) (*regexp.Regexp, error) {
	trimmed := strings.TrimSuffix(pattern, "/")
	segments := strings.Split(trimmed, "/")
	var builder strings.Builder
	builder.WriteString("^")
	for i, segment := range segments {
		if i > 0 {
			builder.WriteString("/")
		}
		if strings.HasPrefix(segment, ":") && len(segment) > 1 {
			builder.WriteString("[^/]+")
			continue
		}
		builder.WriteString(regexp.QuoteMeta(segment))
	}
	// end of path or start of a deeper segment
	builder.WriteString("(/.*)?$")
	return regexp.Compile(builder.String())
}
