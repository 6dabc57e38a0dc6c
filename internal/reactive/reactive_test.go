package reactive

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khalidelboray/convos/internal/testutil"
)

type fixture struct {
	r       *Reactive
	sched   *testutil.ManualScheduler
	durable *testutil.MemoryDurable
	session *testutil.MemorySession
}

func newFixture(t *testing.T, durableSeed, sessionSeed map[string]string) *fixture {
	t.Helper()
	f := &fixture{
		sched:   testutil.NewManualScheduler(),
		durable: testutil.NewMemoryDurable(durableSeed),
		session: testutil.NewMemorySession(sessionSeed),
	}
	f.r = New(
		WithName("Viewport"),
		WithScheduler(f.sched),
		WithDurableStore(f.durable),
		WithSessionStore(f.session),
		WithLogger(slog.New(slog.DiscardHandler)),
		WithIDGenerator(NewFixedGenerator("r-1")),
	)
	return f
}

// recordUpdates collects every changed map emitted as "update".
func recordUpdates(r *Reactive) *[]map[string]bool {
	var got []map[string]bool
	r.On(EventUpdate, func(args ...any) {
		got = append(got, args[1].(map[string]bool))
	})
	return &got
}

func TestNew_Defaults(t *testing.T) {
	r := New(WithIDGenerator(NewFixedGenerator("fixed")))

	assert.Equal(t, "fixed", r.ID())
	assert.Empty(t, r.Names())
	assert.IsType(t, &TimerScheduler{}, r.scheduler)
	assert.Equal(t, DefaultSessionTTLDays, r.ttlDays)
}

func TestWithSessionTTL(t *testing.T) {
	tests := []struct {
		name string
		days int
		want int
	}{
		{"positive", 30, 30},
		{"zero keeps default", 0, DefaultSessionTTLDays},
		{"negative keeps default", -1, DefaultSessionTTLDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(WithSessionTTL(tt.days))
			assert.Equal(t, tt.want, r.ttlDays)
		})
	}
}

func TestDeclare_Volatile(t *testing.T) {
	f := newFixture(t, nil, nil)

	require.NoError(t, f.r.Declare(Volatile, "options", []string{"auto", "light", "dark"}))

	got, err := f.r.Read("options")
	require.NoError(t, err)
	assert.Equal(t, []string{"auto", "light", "dark"}, got)
}

func TestDeclare_VolatileAccessorEvaluatedOnRead(t *testing.T) {
	f := newFixture(t, nil, nil)
	require.NoError(t, f.r.Declare(Mutable, "width", 0))

	isWide := func() any {
		w, _ := f.r.Read("width")
		return w.(int) > 800
	}
	require.NoError(t, f.r.Declare(Volatile, "isWide", isWide))

	got, err := f.r.Read("isWide")
	require.NoError(t, err)
	assert.Equal(t, false, got)

	f.r.Update(map[string]any{"width": 1024})
	got, err = f.r.Read("isWide")
	require.NoError(t, err)
	assert.Equal(t, true, got)
}

func TestDeclare_WithAccessorOption(t *testing.T) {
	f := newFixture(t, nil, nil)
	calls := 0

	require.NoError(t, f.r.Declare(Volatile, "counter", nil, WithAccessor(func() any {
		calls++
		return calls
	})))

	first, _ := f.r.Read("counter")
	second, _ := f.r.Read("counter")
	assert.Equal(t, 2, first)
	assert.Equal(t, 3, second)
}

func TestDeclare_InvalidDeclaration(t *testing.T) {
	tests := []struct {
		name  string
		value any
		opts  []PropOption
	}{
		{name: "nil value", value: nil},
		{name: "nil slice", value: []string(nil)},
		{name: "nil pointer", value: (*int)(nil)},
		{name: "accessor returns nil", value: func() any { return nil }},
		{name: "option accessor returns nil", opts: []PropOption{WithAccessor(func() any { return nil })}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, nil)

			err := f.r.Declare(Volatile, "ro", tt.value, tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDeclaration))
			assert.True(t, IsCode(err, ErrCodeInvalidDeclaration))
			assert.Contains(t, err.Error(), "[Viewport]")
			assert.NotContains(t, f.r.Names(), "ro")
		})
	}
}

func TestDeclare_UnknownKind(t *testing.T) {
	f := newFixture(t, nil, nil)

	err := f.r.Declare(Kind(42), "x", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownPropertyKind))

	var rerr *Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "x", rerr.Property)
	assert.Equal(t, "Viewport", rerr.Owner)
}

func TestDeclare_MutableAllowsAbsent(t *testing.T) {
	f := newFixture(t, nil, nil)

	require.NoError(t, f.r.Declare(Mutable, "selection", nil))
	got, err := f.r.Read("selection")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeclare_SameNameOverwrites(t *testing.T) {
	f := newFixture(t, nil, nil)

	require.NoError(t, f.r.Declare(Mutable, "x", 1))
	require.NoError(t, f.r.Declare(Volatile, "x", "fixed"))

	got, err := f.r.Read("x")
	require.NoError(t, err)
	assert.Equal(t, "fixed", got)

	k, ok := f.r.Kind("x")
	require.True(t, ok)
	assert.Equal(t, Volatile, k)
}

func TestDeclare_DurableWritesDefaultEagerly(t *testing.T) {
	f := newFixture(t, nil, nil)

	require.NoError(t, f.r.Declare(DurablyPersisted, "version", ""))

	assert.Equal(t, []testutil.Write{{Key: "version", Raw: `""`}}, f.durable.Writes())
}

func TestDeclare_StoredValueOverridesDefault(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{name: "durable", kind: DurablyPersisted},
		{name: "session", kind: SessionPersisted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := map[string]string{"theme": `"dark"`}
			f := newFixture(t, seed, seed)

			require.NoError(t, f.r.Declare(tt.kind, "theme", "convos"))

			got, err := f.r.Read("theme")
			require.NoError(t, err)
			assert.Equal(t, "dark", got)
			assert.Empty(t, f.durable.Writes())
			assert.Empty(t, f.session.Writes())
		})
	}
}

func TestDeclare_StoredValueDecodesToDefaultType(t *testing.T) {
	f := newFixture(t, map[string]string{"zoom": `150`, "tags": `["a","b"]`}, nil)

	require.NoError(t, f.r.Declare(DurablyPersisted, "zoom", 100))
	require.NoError(t, f.r.Declare(DurablyPersisted, "tags", []string{}))

	zoom, _ := f.r.Read("zoom")
	tags, _ := f.r.Read("tags")
	assert.Equal(t, 150, zoom)
	assert.Equal(t, []string{"a", "b"}, tags)
}

func TestDeclare_UntypedNilDefaultDecodesGenericJSON(t *testing.T) {
	f := newFixture(t, map[string]string{"prefs": `{"n":2,"r":1.5}`}, nil)

	require.NoError(t, f.r.Declare(DurablyPersisted, "prefs", nil, Lazy()))

	got, _ := f.r.Read("prefs")
	assert.Equal(t, map[string]any{"n": int64(2), "r": 1.5}, got)
}

func TestDeclare_WithKey(t *testing.T) {
	f := newFixture(t, map[string]string{"lastVersion": `"1.9"`}, nil)

	require.NoError(t, f.r.Declare(DurablyPersisted, "version", "", WithKey("lastVersion")))

	got, _ := f.r.Read("version")
	assert.Equal(t, "1.9", got)

	f.r.Update(map[string]any{"version": "2.0"})
	f.sched.RunPending()
	assert.Equal(t, `"2.0"`, f.durable.Data()["lastVersion"])
	assert.NotContains(t, f.durable.Data(), "version")
}

func TestDeclare_LazyLeavesStoreUntouched(t *testing.T) {
	f := newFixture(t, nil, nil)

	require.NoError(t, f.r.Declare(SessionPersisted, "colorScheme", "auto", Lazy()))
	assert.Empty(t, f.session.Writes())

	// A no-op update still does not write.
	f.r.Update(map[string]any{"colorScheme": "auto"})
	f.sched.RunPending()
	assert.Empty(t, f.session.Writes())

	f.r.Update(map[string]any{"colorScheme": "dark"})
	f.sched.RunPending()
	assert.Equal(t, []testutil.Write{{Key: "colorScheme", Raw: `"dark"`, TTLDays: DefaultSessionTTLDays}}, f.session.Writes())
}

func TestDeclare_CorruptStoredValueFallsBack(t *testing.T) {
	f := newFixture(t, map[string]string{"version": `{not json`}, nil)

	require.NoError(t, f.r.Declare(DurablyPersisted, "version", ""))

	got, err := f.r.Read("version")
	require.NoError(t, err)
	assert.Equal(t, "", got)
	// The default replaces the corrupt payload.
	assert.Equal(t, `""`, f.durable.Data()["version"])
}

func TestDeclare_WrongStoredTypeFallsBack(t *testing.T) {
	f := newFixture(t, map[string]string{"width": `"wide"`}, nil)

	require.NoError(t, f.r.Declare(DurablyPersisted, "width", 0, Lazy()))

	got, _ := f.r.Read("width")
	assert.Equal(t, 0, got)
	assert.Equal(t, `"wide"`, f.durable.Data()["width"])
}

func TestDeclare_StoreReadErrorFallsBack(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.session.GetErr = errors.New("cookie unreadable")

	require.NoError(t, f.r.Declare(SessionPersisted, "theme", "convos"))

	got, _ := f.r.Read("theme")
	assert.Equal(t, "convos", got)
	assert.Equal(t, `"convos"`, f.session.Data()["theme"])
}

func TestDeclare_NoStoreConfigured(t *testing.T) {
	sched := testutil.NewManualScheduler()
	r := New(WithScheduler(sched), WithLogger(slog.New(slog.DiscardHandler)))
	events := recordUpdates(r)

	require.NoError(t, r.Declare(DurablyPersisted, "version", ""))
	r.Update(map[string]any{"version": "2.0"})
	sched.RunPending()

	got, _ := r.Read("version")
	assert.Equal(t, "2.0", got)
	assert.Equal(t, []map[string]bool{{"version": true}}, *events)
}

func TestRead_UnknownProperty(t *testing.T) {
	f := newFixture(t, nil, nil)

	_, err := f.r.Read("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownProperty))
	assert.Equal(t, `[Viewport] UNKNOWN_PROPERTY: unknown property "missing"`, err.Error())
}

func TestNames_Sorted(t *testing.T) {
	f := newFixture(t, nil, nil)
	require.NoError(t, f.r.Declare(Mutable, "width", 0))
	require.NoError(t, f.r.Declare(Mutable, "height", 0))
	require.NoError(t, f.r.Declare(Volatile, "isWide", false))

	assert.Equal(t, []string{"height", "isWide", "width"}, f.r.Names())
	assert.Equal(t, map[string]any{"height": 0, "isWide": false, "width": 0}, f.r.Snapshot())
}
