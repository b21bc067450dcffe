/*
Package domain contains the core types of the carousel controller.

It defines the vocabulary shared by the navigation state machine and its
adapters: items, the loop layout, navigation state, gesture samples, motion
descriptors and lifecycle events. The package is pure and free of I/O,
following Hexagonal Architecture principles.

# Key Entities

  - Item: an opaque payload with a stable key, supplied by the host.
  - Layout: the loop expansion of N items with multiplier M (physical vs logical indices).
  - NavigationState: position, last committed offset and throttle bookkeeping.
  - Snapshot: a read-only view of a controller, safe to persist and stream.
  - Motion: the parameters of a release spring or a snap tween.
  - Config: the tunables of a carousel, with defaults.
*/
package domain
