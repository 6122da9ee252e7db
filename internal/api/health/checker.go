// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package health

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ComponentChecker runs a named check per component.
type ComponentChecker struct {
	// Checks maps a component name to its check. Nil checks pass.
	Checks map[string]func() error
}

// CheckHealth runs all component checks and joins their errors.
func (c *ComponentChecker) CheckHealth(
	_ context.Context,
) error {
	var errs []error

	for _, name := range c.names() {
		if err := c.check(name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// CheckComponents runs every check and returns the result per component.
func (c *ComponentChecker) CheckComponents() map[string]error {
	results := make(map[string]error, len(c.Checks))
	for _, name := range c.names() {
		results[name] = c.check(name)
	}

	return results
}

func (c *ComponentChecker) check(
	name string,
) error {
	fn := c.Checks[name]
	if fn == nil {
		return nil
	}

	return fn()
}

func (c *ComponentChecker) names() []string {
	names := make([]string, 0, len(c.Checks))
	for name := range c.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
