// Package state owns the process-wide folder icon guard.
//
// A [State] holds the single platform [platform.Handle] behind a mutex and
// exposes exactly one operation, [State.ExtractIconBase]. The handle is
// unreachable from outside the package, so every query goes through the
// lock and no two extractions ever observe the handle at the same time.
//
// The handle's snapshot aliases its internal scratch memory, so the
// snapshot is validated and encoded while the lock is still held; only the
// owned, serializable payload leaves the critical section.
//
// # Failures
//
//   - Construction: [New] fails with an [*InitError] (matches [ErrInit]).
//     Callers treat this as fatal; a process without a State never serves.
//   - Lock: a panic inside the critical section poisons the guard. The
//     panicking call and every later call fail with a [*LockError]
//     (matches [ErrPoisoned]) unless [WithPoisonRecovery] is set.
//   - Encoding: an [*icon.EncodeError] (matches [icon.ErrEncode]). The
//     guard stays healthy and the next call may succeed.
//
// Nothing is retried; errors go back to the caller as-is.
package state
