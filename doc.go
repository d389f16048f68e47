// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package effect provides a deferred side-effect runtime for Go.
//
// The core type [Effect] is an inert, immutable description of a
// computation that may depend on an environment, fail, or perform side
// effects. Building an Effect never runs anything; [Run] evaluates the
// whole graph with a trampolined interpreter, so chains of any depth —
// including recursive ones — evaluate in constant goroutine stack space.
// Because values are inert and immutable, one Effect can be composed into
// several graphs and evaluated any number of times.
//
// # Two Failure Channels
//
// Recoverable, domain-level failures travel on the error channel: they are
// ordinary Go errors raised with [Throw], transformed with
// [Effect.Recover] and [ToEither], and returned as the second result
// of [Run]. Terminal failures are panics: they abort the run and propagate
// to the caller of Run, crossing goroutine boundaries of the runtime's own
// pools. [Catch] and its variants are the single deliberate bridge from
// panics back to the error channel.
//
// # Constructors
//
//   - [Success], [Throw]: settled effects
//   - [Suspend]: defer a side-effecting thunk, run inline
//   - [BlockingIO], [BlockingCPU]: defer a thunk onto a bounded pool
//   - [Depend]: require a capability from the environment
//   - [FromCallable], [FromIOCallable], [FromCPUCallable]: environment-consuming thunks
//   - [Catch], [CatchIO], [CatchCPU]: reclassify matched panics as errors
//   - [FromFuture]: adopt an externally produced [Future]
//
// # Combinators
//
//   - [AndThen], [Map], [DiscardAndThen], [MapSeq]: sequencing
//   - [Effect.Recover], [ToEither], [Absolve]: error-channel control
//   - [Effect.Ensure]: finalization regardless of outcome
//   - [Effect.Memoize]: at-most-once evaluation shared by all references
//   - [Provide]: satisfy the environment requirement, innermost wins
//
// # Concurrency
//
//   - [Gather], [GatherAsync] and their Seq variants: many effects, ordered results
//   - [ForEach], [Filter] families: effectful iteration
//   - [Lift2], [Combine2] families: n-ary application, with Async/IO/CPU dispatch
//   - [Effect.Race]: first settlement wins, loser cancelled and released
//   - [Effect.Timeout]: fail with [ErrTimeout] after a deadline
//
// Concurrent combinators always yield results in input order, never
// completion order. GatherAsync does not cancel pending siblings when one
// branch fails; only Race and Timeout cancel.
//
// # Resources
//
// [Resource] gives scoped, at-most-once acquisition per top-level run:
// every Get in one run observes the same handle, and release runs during
// run teardown in last-in-first-out order. [Bracket] and [OnError] cover
// the scoped-use and cleanup-on-error shapes directly.
//
// # Schedules
//
// A [Schedule] is a pure decision function over run history.
// [Effect.Retry] re-runs after failures and aggregates the full failure
// history into a [RetryError]; [Repeat] re-runs after successes and
// collects the values. Delays honor a [Sleeper] capability when the
// environment provides one, which makes schedule-driven code testable
// against a fake clock.
//
// # Environments
//
// An environment is any value. [Depend] asks for a capability by
// structural type assertion at evaluation time, so environments compose by
// interface embedding; an unsatisfiable requirement is a defect and panics
// with [CapabilityError]. Subpackages provide ready-made capability
// modules (console, files, clock, random, logging, HTTP, SQL, processes)
// together with real and test implementations.
package effect
