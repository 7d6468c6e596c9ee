// Package walker implements the reference walker: given a tree-shaped
// expression or initializer, it discovers every referenced variable and
// address-taken function and marks the corresponding node needed,
// delegating any tree shape it does not itself understand to the front
// end's analyze hook.
//
// Walking is idempotent per Walker: each Walker returned by New keeps its
// own dedup set, rather than marking the nodes it visits, so walks made
// with two different Walkers over overlapping trees never interfere with
// each other.
package walker
