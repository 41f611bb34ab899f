// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Cycles is a budget of CPU cycles. A single *Cycles is shared by the run
// loop and every primitive it calls, so each deduction made while fetching
// or reading is visible to the loop deciding when to stop.
type Cycles int64

// Spend deducts n cycles from the budget. Spending from a nil budget is a
// no-op, which lets loaders use the budgeted helpers outside of a run.
func (c *Cycles) Spend(n int) {
	if c != nil {
		*c -= Cycles(n)
	}
}

// Exhausted returns true once the budget has reached zero or below.
func (c *Cycles) Exhausted() bool {
	return c == nil || *c <= 0
}
