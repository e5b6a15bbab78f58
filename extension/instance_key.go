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
	"fmt"
	"strings"
)

// keySeparator joins the app name and the parent name in container ids.
// Descriptors reject app names containing it, which keeps ids reversible.
const keySeparator = "#"

// InstanceKey identifies one live extension instance: an app mounted inside
// one parent container. At most one instance exists per key.
//
// InstanceKey is comparable and is the key the loader tracks instances by.
// Its String form is the id given to the container created for the instance.
type InstanceKey struct {
	AppName    string
	ParentName string
}

// NewInstanceKey creates an InstanceKey
func NewInstanceKey(appName, parentName string) InstanceKey {
	return InstanceKey{AppName: appName, ParentName: parentName}
}

// String returns the container id of the instance, "appName#parentName"
func (k InstanceKey) String() string {
	return k.AppName + keySeparator + k.ParentName
}

// ParseInstanceKey reconstructs an InstanceKey from its container id.
func ParseInstanceKey(id string) (InstanceKey, error) {
	appName, parentName, ok := strings.Cut(id, keySeparator)
	if !ok || appName == "" {
		return InstanceKey{}, fmt.Errorf("invalid instance key %q", id)
	}
	return NewInstanceKey(appName, parentName), nil
}
