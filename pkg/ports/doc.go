/*
Package ports defines the driven ports (interfaces) of the carousel controller.

These interfaces decouple the navigation state machine from the animation
engine, the timer source, persistence and item sources, so the same core can
drive a terminal demo, an HTTP session or a deterministic test.

# Key Interfaces

  - Animator: runs one transition toward a target value and reports completion.
  - Clock: the single source of timers (autoplay, apparition, cooldown, frames).
  - ReleaseStrategy, SnapStrategy, ThrottlePolicy, RepositionPolicy: substitutable behaviour.
  - PositionStore: persists snapshots so a carousel can resume where it settled.
  - DistributedLocker: coordinates snapshot writes across replicas.
  - ItemSource: yields the items of a deck.
*/
package ports
