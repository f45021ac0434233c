// Package sync implements the reconciliation engine that keeps issue
// trackers on two GitLab instances aligned.
//
// Work is organized in cycles. A cycle covers one project pair and runs
// one leg per direction: the forward leg propagates source changes to
// the target, and for bidirectional pairs a reverse leg propagates the
// other way. Each leg compares the current fingerprint of every
// recently updated issue against the baseline stored after the last
// successful reconciliation, classifying it as unchanged, changed on
// one side, or changed on both. Single-sided changes are applied to the
// other side; double-sided changes are recorded as conflicts and left
// alone until a human resolves them.
//
// Loop prevention rests on two mechanisms. Mirrored issues carry a
// footer naming their origin, and the footer is excluded from
// fingerprints, so the engine's own writes never register as foreign
// edits. After every write the baseline is refreshed from the remote
// state the write produced, so the next cycle sees both sides at rest.
package sync
