// Package sim owns the shared simulation state and drives it.
//
//   - [Registry]: the ordered, lock-guarded collection of bodies
//   - [Driver]: fixed-interval tick loop with a request inbox
//
// # Thread Safety
//
// Every Registry method takes the same mutex for its whole critical
// section, so a Step never sees a body added halfway through and a
// Snapshot never mixes pre- and post-tick bodies. Bodies are never removed
// and index 0 is always the focus body.
//
// # Example
//
//	reg := sim.NewRegistry(integrators.NewGravity(60000, 1), false)
//	drv := sim.NewDriver(reg, 1, logger)
//	go drv.Run(ctx)
//	drv.Submit(sim.AddBody{Body: b})
//	bodies := reg.Snapshot()
package sim
