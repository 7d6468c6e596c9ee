// Package analyze implements the edge builder, the function analyzer, and
// the variable analyzer: the three passes that turn a finalized, reachable
// node into an analyzed one, discovering further reachable entities along
// the way.
package analyze
