// Package cdtor synthesizes artificial void/void functions for static
// initialization and teardown, giving the front end a way to register
// ordering-sensitive construction logic (e.g. module-level variable
// initializers) without having to fabricate a front-end declaration
// itself.
package cdtor
