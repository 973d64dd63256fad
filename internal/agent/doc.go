// Package agent provides the mobile agents that move on the 2D plane.
//
// Two capability sets are defined:
//
//   - [Walker]: memoryless random walkers that turn then step
//   - [Vehicle]: light-seeking vehicles that sense, think, then move
//
// Walker variants differ only in how they are initialized:
//
//	rng := agent.NewRand(42)
//	w := agent.NewGridWalker(rng)
//	w.Turn()
//	w.Step()
//
// # Randomness
//
// Every constructor takes an explicit [Rand]. Nothing in this package
// touches the process-wide generator, so a run is reproducible from its
// seed alone.
package agent
