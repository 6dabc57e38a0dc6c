package harness

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/khalidelboray/convos/internal/cookie"
	"github.com/khalidelboray/convos/internal/loop"
	"github.com/khalidelboray/convos/internal/reactive"
	"github.com/khalidelboray/convos/internal/store"
	"github.com/khalidelboray/convos/internal/testutil"
)

// InstanceID is the fixed id given to every scenario's reactive object.
const InstanceID = "harness"

// Harness runs one scenario. Every task runs on the calling goroutine when
// the loop is drained, so the trace needs no locking.
type Harness struct {
	r       *reactive.Reactive
	loop    *loop.Loop
	seq     *testutil.Sequence
	durable reactive.DurableStore
	session reactive.SessionStore
	result  *Result
	closers []func() error
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against fresh stores for isolation.
//
// Execution flow:
// 1. Open the backend and apply the seed
// 2. Declare properties, checking expected declaration errors
// 3. Execute steps, draining the loop on flush steps
// 4. Drain the loop and check expectations
func Run(scenario *Scenario) (*Result, error) {
	h, err := newHarness(scenario)
	if err != nil {
		return nil, err
	}
	defer h.close()

	if err := h.declare(scenario.Declare); err != nil {
		return nil, err
	}
	h.listen(scenario.Steps)

	for i, step := range scenario.Steps {
		if err := h.step(step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	h.loop.Drain()

	h.result.Values = h.r.Snapshot()
	h.check(scenario.Expect)
	return h.result, nil
}

func newHarness(scenario *Scenario) (*Harness, error) {
	h := &Harness{
		loop:   loop.New(),
		seq:    testutil.NewSequence(),
		result: NewResult(),
	}

	switch scenario.Backend {
	case "", BackendMemory:
		h.durable = testutil.NewMemoryDurable(scenario.Seed.Durable)
		h.session = testutil.NewMemorySession(scenario.Seed.Session)
	case BackendSQLite:
		st, err := store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		h.closers = append(h.closers, st.Close)
		h.durable = st.Durable(store.DefaultNamespace)
		h.session = cookie.NewStore(st.Cookies(), cookie.WithCache(cookie.NewCache()))
		if err := h.seed(scenario.Seed); err != nil {
			h.close()
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown backend %q", scenario.Backend)
	}

	h.r = reactive.New(
		reactive.WithName(scenario.Name),
		reactive.WithScheduler(h.loop),
		reactive.WithDurableStore(recordingDurable{inner: h.durable, h: h}),
		reactive.WithSessionStore(recordingSession{inner: h.session, h: h}),
		reactive.WithIDGenerator(reactive.NewFixedGenerator(InstanceID)),
		reactive.WithLogger(slog.New(slog.DiscardHandler)),
	)
	return h, nil
}

func (h *Harness) seed(s Seed) error {
	for _, key := range sortedKeys(s.Durable) {
		if err := h.durable.Set(key, []byte(s.Durable[key])); err != nil {
			return fmt.Errorf("seed durable %q: %w", key, err)
		}
	}
	for _, key := range sortedKeys(s.Session) {
		if err := h.session.Set(key, []byte(s.Session[key]), reactive.DefaultSessionTTLDays); err != nil {
			return fmt.Errorf("seed session %q: %w", key, err)
		}
	}
	return nil
}

func (h *Harness) close() {
	for _, c := range h.closers {
		_ = c()
	}
}

func (h *Harness) declare(decls []Declaration) error {
	for _, d := range decls {
		err := h.declareOne(d)
		switch {
		case d.ExpectError == "" && err != nil:
			return fmt.Errorf("declare %q: %w", d.Name, err)
		case d.ExpectError == "":
		case err == nil:
			h.result.AddError(fmt.Sprintf("declare %q: expected error %s, got none", d.Name, d.ExpectError))
		default:
			code := errorCode(err)
			h.record(TraceEvent{Type: TraceError, Name: d.Name, Error: code})
			if code != d.ExpectError {
				h.result.AddError(fmt.Sprintf("declare %q: expected error %s, got %s", d.Name, d.ExpectError, code))
			}
		}
	}
	return nil
}

func (h *Harness) declareOne(d Declaration) error {
	kind, err := reactive.ParseKind(d.Kind)
	if err != nil {
		return err
	}
	var opts []reactive.PropOption
	if d.Key != "" {
		opts = append(opts, reactive.WithKey(d.Key))
	}
	if d.Lazy {
		opts = append(opts, reactive.Lazy())
	}
	return h.r.Declare(kind, d.Name, d.Value, opts...)
}

// listen records update events and every custom event the steps emit.
func (h *Harness) listen(steps []Step) {
	h.r.On(reactive.EventUpdate, func(args ...any) {
		e := TraceEvent{Type: TraceUpdate}
		if len(args) > 1 {
			e.Changed, _ = args[1].(map[string]bool)
		}
		h.record(e)
	})

	seen := map[string]bool{reactive.EventUpdate: true}
	for _, step := range steps {
		if step.Emit == "" || seen[step.Emit] {
			continue
		}
		seen[step.Emit] = true
		name := step.Emit
		h.r.On(name, func(args ...any) {
			h.record(TraceEvent{Type: TraceEmit, Event: name, Args: args})
		})
	}
}

func (h *Harness) step(s Step) error {
	switch {
	case s.Update != nil:
		h.r.Update(s.Update)
	case s.Flush:
		h.loop.Drain()
	case s.Emit != "":
		h.r.Emit(s.Emit, s.Args...)
	case s.Read != "":
		v, err := h.r.Read(s.Read)
		if err != nil {
			h.record(TraceEvent{Type: TraceError, Name: s.Read, Error: errorCode(err)})
			return nil
		}
		h.record(TraceEvent{Type: TraceRead, Name: s.Read, Value: v})
	}
	return nil
}

func (h *Harness) record(e TraceEvent) {
	e.Seq = h.seq.Next()
	h.result.Trace = append(h.result.Trace, e)
}

func errorCode(err error) string {
	var re *reactive.Error
	if errors.As(err, &re) {
		return string(re.Code)
	}
	return err.Error()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type recordingDurable struct {
	inner reactive.DurableStore
	h     *Harness
}

func (d recordingDurable) Get(key string) ([]byte, bool, error) {
	return d.inner.Get(key)
}

func (d recordingDurable) Set(key string, raw []byte) error {
	d.h.record(TraceEvent{Type: TracePersist, Store: "durable", Key: key, Raw: string(raw)})
	return d.inner.Set(key, raw)
}

type recordingSession struct {
	inner reactive.SessionStore
	h     *Harness
}

func (s recordingSession) Get(key string) ([]byte, bool, error) {
	return s.inner.Get(key)
}

func (s recordingSession) Set(key string, raw []byte, ttlDays int) error {
	s.h.record(TraceEvent{Type: TracePersist, Store: "session", Key: key, Raw: string(raw)})
	return s.inner.Set(key, raw, ttlDays)
}
