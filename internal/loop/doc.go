// Package loop defines the single-executor scheduling model shared by the
// overlay animators, the topology watcher and the coordinator. All callbacks
// scheduled through a Scheduler run on one logical executor, so the state
// they touch needs no locking.
package loop
