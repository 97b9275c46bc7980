// Package spring implements the spring network that synthesizes line patterns.
//
// A [Network] owns a set of [Line] values. Each line is a chain of [Spring]
// constraints between bodies owned by an external rigid-body [Engine]. Every
// spring pulls its two bodies toward a rest length and, when it has a
// preceding body, bends the chain toward a rest angle chosen by the line's
// shape function (see package shape).
//
// # Lifecycle
//
// Building a pattern is a two-phase protocol:
//
//  1. Create lines with [Network.CreateLine] or a pattern constructor.
//  2. [Network.ConnectLines] joins coincident endpoints with pin joints and
//     records the relative angle of every joined line at each end.
//  3. [Network.InitRestAngles] evaluates each line's shape function once per
//     spring. It needs the angle lists, so it must follow ConnectLines.
//
// [Network.Init] runs steps 2 and 3. Pattern constructors such as
// [Network.CreateBox] call it before returning. After that, [Network.Step]
// applies all spring forces and advances the engine.
//
// # Topology
//
// Endpoint matching is delegated to a [Matcher]. [BruteForce] tests every pair
// of lines; [Grid] hashes endpoints by rounded coordinate for large systems.
// Both report matches in the same canonical order, so the recorded angle lists
// do not depend on the strategy.
//
// # Concurrency
//
// A Network is not safe for concurrent use. Steps are synchronous.
package spring
