// Package coordinator schedules background sync cycles. It polls the
// pair table on a jittered interval and dispatches a cycle for every
// enabled pair whose own sync interval has elapsed. The engine's
// per-pair lock keeps a scheduled cycle from overlapping a manual one.
package coordinator
