// Package automation holds the presence-to-music rules.
//
// The rules are pure functions over zone state: the same occupancy
// snapshot always yields the same command. Side effects (publishing,
// auditing) live in the command router; keeping derivation pure makes
// the behaviour trivially testable.
package automation
