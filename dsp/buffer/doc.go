// Package buffer provides the grow-only sample storage used by streaming
// filters. A [Ring] keeps the most recent complex samples in an owned
// contiguous slice and hides the wrap-around arithmetic behind Push and
// newest-to-oldest traversal. [Pool] recycles rings that a reconfigured
// filter no longer needs.
package buffer
