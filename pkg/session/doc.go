/*
Package session hosts many carousels side by side and persists where each
one settled.

A Manager keeps live controllers keyed by id, resumes them from a
ports.PositionStore and serialises writes per id, optionally across replicas
through a ports.DistributedLocker.
*/
package session
