// Package usage enforces server-side daily action quotas with fixed
// per-action limits. Counters are monotonically incremented per calendar
// day and never decremented; stale days are simply never read again.
package usage
