package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"width":  100,
		"height": 50,
		"theme":  "convos",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"height":50,"theme":"convos","width":100}`, string(data))
}

func TestMarshalCanonical_NestedAndTyped(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"changed": map[string]bool{"width": true, "height": true},
		"seq":     int64(3),
		"options": [][2]string{{"auto", "Auto"}},
		"none":    nil,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"changed":{"height":true,"width":true},"none":null,"options":[["auto","Auto"]],"seq":3}`, string(data))
}

func TestMarshalCanonical_NoHTMLEscape(t *testing.T) {
	data, err := MarshalCanonical("<a&b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a&b>"`, string(data))
}

func TestMarshalCanonical_LineSeparators(t *testing.T) {
	data, err := MarshalCanonical("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(data))

	literal, err := MarshalCanonical(`a\u2028b`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(literal))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	// "e" followed by a combining acute accent composes to U+00E9.
	data, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(data))
}

func TestMarshalCanonical_UTF16KeyOrder(t *testing.T) {
	// U+1F600 sorts after U+E000 in UTF-8 but before it in UTF-16.
	data, err := MarshalCanonical(map[string]int{"\U0001F600": 1, "\uE000": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":1,\"\uE000\":2}", string(data))
}

func TestMarshalCanonical_RejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"ratio": 1.5})
	assert.Error(t, err)
}
