package harness

import (
	"fmt"
	"maps"

	"github.com/khalidelboray/convos/internal/value"
)

// check compares the drained state against the scenario's expectations and
// records every mismatch on the result.
func (h *Harness) check(exp Expect) {
	if exp.Events != nil {
		h.checkEvents(exp.Events)
	}
	for _, name := range sortedKeys(exp.Values) {
		h.checkValue(name, exp.Values[name])
	}
	for _, key := range sortedKeys(exp.Durable) {
		raw, ok, err := h.durable.Get(key)
		h.checkStored("durable", key, exp.Durable[key], raw, ok, err)
	}
	for _, key := range sortedKeys(exp.Session) {
		raw, ok, err := h.session.Get(key)
		h.checkStored("session", key, exp.Session[key], raw, ok, err)
	}
}

func (h *Harness) checkEvents(want []map[string]bool) {
	got := h.result.Updates()
	if len(got) != len(want) {
		h.result.AddError(fmt.Sprintf("update events: expected %d, got %d %v", len(want), len(got), got))
		return
	}
	for i := range want {
		if !maps.Equal(got[i], want[i]) {
			h.result.AddError(fmt.Sprintf("update event %d: expected %v, got %v", i, want[i], got[i]))
		}
	}
}

func (h *Harness) checkValue(name string, want any) {
	got, err := h.r.Read(name)
	if err != nil {
		h.result.AddError(fmt.Sprintf("value %q: %v", name, err))
		return
	}
	wantJSON, err := value.Encode(want)
	if err != nil {
		h.result.AddError(fmt.Sprintf("value %q: encode expected: %v", name, err))
		return
	}
	gotJSON, err := value.Encode(got)
	if err != nil {
		h.result.AddError(fmt.Sprintf("value %q: encode actual: %v", name, err))
		return
	}
	if string(wantJSON) != string(gotJSON) {
		h.result.AddError(fmt.Sprintf("value %q: expected %s, got %s", name, wantJSON, gotJSON))
	}
}

func (h *Harness) checkStored(store, key string, want *string, raw []byte, ok bool, err error) {
	switch {
	case err != nil:
		h.result.AddError(fmt.Sprintf("%s %q: %v", store, key, err))
	case want == nil && ok:
		h.result.AddError(fmt.Sprintf("%s %q: expected absent, got %s", store, key, raw))
	case want == nil:
	case !ok:
		h.result.AddError(fmt.Sprintf("%s %q: expected %s, got absent", store, key, *want))
	case string(raw) != *want:
		h.result.AddError(fmt.Sprintf("%s %q: expected %s, got %s", store, key, *want, raw))
	}
}
