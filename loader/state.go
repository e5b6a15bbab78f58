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

package loader

// State is the lifecycle state of one extension instance.
//
//	Unmatched -> Mounting -> Mounted -> Unmounting -> Unmounted
//	                 \-> Failed
//
// Failed is bookkept like Unmounted: the instance holds no parcel and the
// next Load retries it.
type State int

const (
	// Unmatched means the loader has never seen the instance.
	Unmatched State = iota
	// Mounting means a container was attached and the module is being mounted.
	Mounting
	// Mounted means the module is live and its parcel recorded.
	Mounted
	// Unmounting means the parcel is being torn down.
	Unmounting
	// Unmounted means the instance was torn down.
	Unmounted
	// Failed means the last mount attempt failed.
	Failed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Unmatched:
		return "unmatched"
	case Mounting:
		return "mounting"
	case Mounted:
		return "mounted"
	case Unmounting:
		return "unmounting"
	case Unmounted:
		return "unmounted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsLive reports whether the state holds a container on the surface.
func (s State) IsLive() bool {
	return s == Mounting || s == Mounted || s == Unmounting
}
