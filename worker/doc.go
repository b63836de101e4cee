// Package worker moves tessellation and thinning off the caller's
// goroutine behind an explicit message boundary.
//
// Requests and replies carry only plain value slices, so they can cross
// any transport. A Worker reads Envelopes from a channel, executes each
// request on a goroutine pool and writes a Reply tagged with the
// envelope's ID. A Client assigns IDs and matches replies to callers.
//
//	w := worker.New(worker.WithWorkers(4))
//	c := w.Start(ctx)
//	defer c.Close()
//	zoom, err := worker.Call[[]uint8](ctx, c, worker.ThinUnstructuredRequest{Xs: xs, Ys: ys, ThinFac: 4})
//
// Running computations are not cancelled. A caller that gives up through
// its context gets ctx.Err() immediately and the late reply is discarded.
package worker
