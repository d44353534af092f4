// Package handoff implements the one-shot delivery channel used to hand
// startup tasks from a pool builder to externally spawned worker contexts,
// and the handle table through which those contexts reach the channel.
//
// The channel is bounded: its capacity equals the number of workers, so a
// complete burst of sends never blocks, whether or not receivers are already
// waiting. Each successful receive removes exactly one item.
//
// Handles are opaque integers standing in for a reference to the receiving
// end. The owner registers a value and releases it once no context can still
// resolve the handle; resolving an unknown handle fails instead of reaching
// freed state.
package handoff
