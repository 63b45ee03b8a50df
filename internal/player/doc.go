// Package player implements the queue coordinator: the single owner of what is
// playing, what plays next, and the [Sink] that outputs it.
//
// # States
//
//	Idle ──PlayTrack──▶ Loading ──Play ok──▶ Playing ◀──toggle──▶ Paused
//	                       └──Play rejected──────────────────────────▲
//
// A restored player is Paused when it has a current track and Idle otherwise.
//
// # Asynchronous work
//
// Lyrics fetches and autoplay extension run through an [Executor] after the
// coordinator lock is released. Lyrics are last-write-wins. Extension results
// carry the generation they were requested under; every user PlayTrack,
// JumpTo and Retreat bumps the generation, so results arriving after the user
// moved on are dropped.
//
// # Events
//
// Consumers observe the coordinator through [Coordinator.Subscribe]. Sends are
// non-blocking and a slow subscriber misses events instead of stalling playback.
package player
