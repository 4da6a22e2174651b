package dispatch

import "time"

// minimumSavingsAge gates savings withdrawals.
const minimumSavingsAge = 21

// timeNow is stubbed in tests for age checks.
var timeNow = time.Now
