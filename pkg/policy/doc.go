// Package policy holds the default strategies plugged into the controller:
// a critically damped release spring, a 200ms ease-out snap, an N-periodic
// throttle and the mid-block loop reposition.
package policy
