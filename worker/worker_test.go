package worker

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/gogpu/geofield/tess"
	"github.com/gogpu/geofield/thin"
)

type slowRequest struct {
	clock *clockwork.FakeClock
	d     time.Duration
}

func (slowRequest) Op() Op { return "slow" }

func (r slowRequest) execute() (any, error) {
	r.clock.Advance(r.d)
	return "done", nil
}

type panicRequest struct{}

func (panicRequest) Op() Op { return "panic" }

func (panicRequest) execute() (any, error) { panic("boom") }

func TestHandle(t *testing.T) {
	w := New()
	line := tess.LineString{Vertices: []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}}}

	tests := []struct {
		name    string
		req     Request
		op      Op
		check   func(t *testing.T, res any)
		wantErr error
	}{
		{
			name: "polyline",
			req:  PolylineRequest{Lines: []tess.LineString{line}},
			op:   OpPolyline,
			check: func(t *testing.T, res any) {
				d, ok := res.(*tess.LineData)
				if !ok || d.VertexCount != 6 {
					t.Errorf("result = %#v, want 6 vertices", res)
				}
			},
		},
		{
			name:    "degenerate polyline",
			req:     PolylineRequest{Lines: []tess.LineString{{Vertices: []r2.Vec{{}}}}},
			op:      OpPolyline,
			wantErr: tess.ErrDegenerateLine,
		},
		{
			name: "billboard",
			req:  BillboardRequest{Lons: []float64{1, 2}, Lats: []float64{3, 4}, Zoom: []uint8{0, 1}, Ni: 2, Nj: 1, MaxZoom: 24},
			op:   OpBillboard,
			check: func(t *testing.T, res any) {
				d, ok := res.(*tess.BillboardData)
				if !ok || d.Count != 2 {
					t.Errorf("result = %#v, want 2 billboards", res)
				}
			},
		},
		{
			name:    "billboard shape",
			req:     BillboardRequest{Lons: []float64{1}, Lats: []float64{3, 4}, Zoom: []uint8{0}, Ni: 1, Nj: 1},
			op:      OpBillboard,
			wantErr: tess.ErrShapeMismatch,
		},
		{
			name: "domain mesh",
			req: DomainMeshRequest{
				Lons: []float64{0, 1, 0, 1}, Lats: []float64{0, 0, 1, 1},
				Ni: 2, Nj: 2, DataNi: 2, DataNj: 2,
			},
			op: OpDomainMesh,
			check: func(t *testing.T, res any) {
				m, ok := res.(*tess.Mesh)
				if !ok || m.VertexCount != tess.MeshVertexCount(2, 2) {
					t.Errorf("result = %#v, want %d vertices", res, tess.MeshVertexCount(2, 2))
				}
			},
		},
		{
			name: "thin structured",
			req:  ThinStructuredRequest{Ni: 8, Nj: 4, ThinFac: 2},
			op:   OpThinStructured,
			check: func(t *testing.T, res any) {
				want, _ := thin.Structured(8, 4, 2)
				if got, ok := res.([]uint8); !ok || !slices.Equal(got, want) {
					t.Errorf("result = %v, want %v", res, want)
				}
			},
		},
		{
			name:    "thin structured bad factor",
			req:     ThinStructuredRequest{Ni: 8, Nj: 4, ThinFac: 0},
			op:      OpThinStructured,
			wantErr: thin.ErrInvalidThinFactor,
		},
		{
			name: "thin unstructured",
			req:  ThinUnstructuredRequest{Xs: []float64{0.1, 0.5, 0.9}, Ys: []float64{0.5, 0.5, 0.5}, ThinFac: 1},
			op:   OpThinUnstructured,
			check: func(t *testing.T, res any) {
				got, ok := res.([]uint8)
				if !ok || len(got) != 3 || got[1] != 0 {
					t.Errorf("result = %v, want 3 zooms with the centre point at 0", res)
				}
			},
		},
		{
			name: "glyph",
			req:  GlyphRequest{U: []float32{10}, V: []float32{0}, Atlas: tess.DefaultBarbAtlas},
			op:   OpGlyph,
			check: func(t *testing.T, res any) {
				if _, ok := res.(*tess.GlyphData); !ok {
					t.Errorf("result = %T, want *tess.GlyphData", res)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := w.Handle(tt.req)
			if reply.Op != tt.op {
				t.Errorf("Op = %q, want %q", reply.Op, tt.op)
			}
			if tt.wantErr != nil {
				if !errors.Is(reply.Err, tt.wantErr) {
					t.Fatalf("Err = %v, want %v", reply.Err, tt.wantErr)
				}
				if reply.Result != nil {
					t.Errorf("Result = %v on error, want nil", reply.Result)
				}
				return
			}
			if reply.Err != nil {
				t.Fatalf("Err = %v", reply.Err)
			}
			tt.check(t, reply.Result)
		})
	}
}

func TestHandleNilRequest(t *testing.T) {
	if reply := New().Handle(nil); !errors.Is(reply.Err, ErrNilRequest) {
		t.Errorf("Err = %v, want ErrNilRequest", reply.Err)
	}
}

func TestHandlePanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	w := New(WithMetrics(m))

	reply := w.Handle(panicRequest{})
	if !errors.Is(reply.Err, ErrPanic) {
		t.Fatalf("Err = %v, want ErrPanic", reply.Err)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("panic", "error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.InFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
}

func TestHandleMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	clock := clockwork.NewFakeClock()
	w := New(WithMetrics(m), WithClock(clock))

	w.Handle(slowRequest{clock: clock, d: 250 * time.Millisecond})
	w.Handle(ThinStructuredRequest{Ni: 4, Nj: 4, ThinFac: 2})
	w.Handle(ThinStructuredRequest{Ni: 4, Nj: 4, ThinFac: -1})

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("slow", "ok")); got != 1 {
		t.Errorf("slow ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues(string(OpThinStructured), "ok")); got != 1 {
		t.Errorf("thin ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues(string(OpThinStructured), "error")); got != 1 {
		t.Errorf("thin error = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.DispatchDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var found bool
	for _, mf := range families {
		if mf.GetName() != "geofield_worker_dispatch_duration_seconds" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() != "op" || lp.GetValue() != "slow" {
					continue
				}
				found = true
				h := metric.GetHistogram()
				if h.GetSampleCount() != 1 || h.GetSampleSum() != 0.25 {
					t.Errorf("slow histogram count=%d sum=%v, want 1 and 0.25", h.GetSampleCount(), h.GetSampleSum())
				}
			}
		}
	}
	if !found {
		t.Error("no duration histogram for op=slow")
	}
}

func TestHandleAll(t *testing.T) {
	w := New(WithWorkers(3))
	reqs := make([]Request, 20)
	for i := range reqs {
		reqs[i] = ThinStructuredRequest{Ni: i + 1, Nj: 1, ThinFac: 1}
	}

	replies := w.HandleAll(reqs)
	if len(replies) != len(reqs) {
		t.Fatalf("got %d replies, want %d", len(replies), len(reqs))
	}
	for i, r := range replies {
		if r.Err != nil {
			t.Fatalf("reply %d: %v", i, r.Err)
		}
		if r.ID != uint64(i) {
			t.Errorf("reply %d ID = %d", i, r.ID)
		}
		if got := len(r.Result.([]uint8)); got != i+1 {
			t.Errorf("reply %d has %d zooms, want %d", i, got, i+1)
		}
	}
}

func TestRun(t *testing.T) {
	t.Run("closed input", func(t *testing.T) {
		in := make(chan Envelope, 2)
		out := make(chan Reply, 2)
		in <- Envelope{ID: 7, Request: ThinStructuredRequest{Ni: 2, Nj: 2, ThinFac: 1}}
		in <- Envelope{ID: 9}
		close(in)

		if err := New(WithWorkers(2)).Run(context.Background(), in, out); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(out) != 2 {
			t.Fatalf("got %d replies, want 2", len(out))
		}
		got := map[uint64]error{}
		for range 2 {
			r := <-out
			got[r.ID] = r.Err
		}
		if err, ok := got[7]; !ok || err != nil {
			t.Errorf("reply 7: present=%v err=%v", ok, err)
		}
		if err := got[9]; !errors.Is(err, ErrNilRequest) {
			t.Errorf("reply 9 err = %v, want ErrNilRequest", err)
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := New().Run(ctx, make(chan Envelope), make(chan Reply))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	})
}

func TestClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c := New(WithWorkers(4)).Start(ctx)
	t.Cleanup(c.Close)

	want, err := thin.Structured(16, 8, 4)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Call[[]uint8](ctx, c, ThinStructuredRequest{Ni: 16, Nj: 8, ThinFac: 4})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !slices.Equal(got, want) {
		t.Errorf("zoom = %v, want %v", got, want)
	}

	if _, err := Call[string](ctx, c, ThinStructuredRequest{Ni: 2, Nj: 2, ThinFac: 1}); err == nil {
		t.Error("Call with wrong result type: want error")
	}
	if _, err := c.Do(ctx, ThinStructuredRequest{Ni: 2, Nj: 2}); !errors.Is(err, thin.ErrInvalidThinFactor) {
		t.Errorf("Do err = %v, want ErrInvalidThinFactor", err)
	}
}

func TestClientConcurrent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c := New(WithWorkers(3)).Start(ctx)
	t.Cleanup(c.Close)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			zoom, err := Call[[]uint8](ctx, c, ThinStructuredRequest{Ni: i + 1, Nj: 2, ThinFac: 1})
			if err != nil {
				errs <- err
				return
			}
			if len(zoom) != 2*(i+1) {
				errs <- errors.New("reply routed to the wrong caller")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestClientAbandonedReply(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	in := make(chan Envelope)
	out := make(chan Reply)
	c := newClient(in, out, m)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Do(ctx, ThinStructuredRequest{Ni: 1, Nj: 1, ThinFac: 1})
		done <- err
	}()

	env := <-in
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Do = %v, want context.Canceled", err)
	}

	out <- Reply{ID: env.ID, Result: []uint8{0}}
	close(out)
	c.Wait()

	if got := testutil.ToFloat64(m.DiscardedReplies); got != 1 {
		t.Errorf("discarded = %v, want 1", got)
	}
}

func TestClientClosed(t *testing.T) {
	in := make(chan Envelope)
	out := make(chan Reply)
	c := NewClient(in, out)

	close(out)
	c.Wait()

	if _, err := c.Do(context.Background(), ThinStructuredRequest{Ni: 1, Nj: 1, ThinFac: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("Do after close = %v, want ErrClosed", err)
	}
	if _, err := c.Do(context.Background(), nil); !errors.Is(err, ErrNilRequest) {
		t.Errorf("Do(nil) = %v, want ErrNilRequest", err)
	}
}

func TestClientCloseDuringDo(t *testing.T) {
	in := make(chan Envelope)
	out := make(chan Reply)
	c := NewClient(in, out)
	t.Cleanup(func() { close(out) })

	const callers = 8
	errs := make(chan error, callers)
	var started sync.WaitGroup
	for range callers {
		started.Add(1)
		go func() {
			started.Done()
			_, err := c.Do(context.Background(), ThinStructuredRequest{Ni: 1, Nj: 1, ThinFac: 1})
			errs <- err
		}()
	}
	started.Wait()
	c.Close()
	c.Close()

	for range callers {
		if err := <-errs; !errors.Is(err, ErrClosed) {
			t.Errorf("Do = %v, want ErrClosed", err)
		}
	}
	if _, err := c.Do(context.Background(), ThinStructuredRequest{Ni: 1, Nj: 1, ThinFac: 1}); !errors.Is(err, ErrClosed) {
		t.Errorf("Do after Close = %v, want ErrClosed", err)
	}
}
