// Package outcome turns attendance and grade records into safety tiers,
// attendance projections, cumulative-goal requirements and cohort comparisons.
//
// Every function is pure: inputs are taken by value, nothing is retained
// between calls and no input is mutated. Precondition failures are returned
// as *errors.Error values with code INVALID_INPUT that wrap a
// *PreconditionError naming the offending field.
package outcome
