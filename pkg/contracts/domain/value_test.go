package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		name    string
		value   Value
		kind    Kind
		class   Class
		missing bool
		display string
	}{
		{name: "zero value is missing", value: Value{}, kind: KindMissing, class: ClassNone, missing: true, display: "<missing>"},
		{name: "integer", value: Int(1005), kind: KindInteger, class: ClassNumeric, display: "1005"},
		{name: "float", value: Float(75.5), kind: KindFloat, class: ClassNumeric, display: "75.5"},
		{name: "text", value: Text("  Bob Wilson  "), kind: KindText, class: ClassText, display: "  Bob Wilson  "},
		{name: "empty text is not missing", value: Text(""), kind: KindText, class: ClassText, display: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.class, tt.value.Kind().Class())
			assert.Equal(t, tt.missing, tt.value.IsMissing())
			assert.Equal(t, tt.display, tt.value.String())
		})
	}
}

func TestValueEqualityIsKindSensitive(t *testing.T) {
	assert.Equal(t, Int(30), Int(30))
	assert.NotEqual(t, Int(30), Float(30))
	assert.NotEqual(t, Int(30), Text("30"))
	assert.True(t, Missing() == Value{})
}

func TestValueNumber(t *testing.T) {
	n, ok := Int(-5).Number()
	require.True(t, ok)
	assert.Equal(t, -5.0, n)

	_, ok = Text("30").Number()
	assert.False(t, ok)

	_, ok = Missing().Number()
	assert.False(t, ok)
}

func TestValueJSONRoundTrip(t *testing.T) {
	row := []Value{Int(1001), Float(50), Float(75.5), Text("John Doe"), Missing()}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `[1001, 50, 75.5, "John Doe", null]`, string(data))

	var decoded []Value
	require.NoError(t, json.Unmarshal([]byte(`[1001, 50.0, 75.5, "John Doe", null, 1e3]`), &decoded))
	assert.Equal(t, []Value{Int(1001), Float(50), Float(75.5), Text("John Doe"), Missing(), Float(1000)}, decoded)
}

func TestValueUnmarshalRejectsComposite(t *testing.T) {
	var v Value
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`true`), &v))
}

func TestParseClass(t *testing.T) {
	c, err := ParseClass("Numeric")
	require.NoError(t, err)
	assert.Equal(t, ClassNumeric, c)

	c, err = ParseClass("string")
	require.NoError(t, err)
	assert.Equal(t, ClassText, c)

	_, err = ParseClass("date")
	assert.Error(t, err)
}

func TestTupleKey(t *testing.T) {
	assert.Equal(t, TupleKey([]Value{Int(1), Text("a")}), TupleKey([]Value{Int(1), Text("a")}))
	assert.NotEqual(t, TupleKey([]Value{Int(1)}), TupleKey([]Value{Float(1)}))
	assert.NotEqual(t, TupleKey([]Value{Text("a|"), Text("b")}), TupleKey([]Value{Text("a"), Text("|b")}))
	assert.NotEqual(t, TupleKey([]Value{Missing()}), TupleKey([]Value{Text("")}))

	negZero := Float(math.Copysign(0, -1))
	assert.True(t, Float(0).Equal(negZero))
	assert.Equal(t, TupleKey([]Value{Float(0)}), TupleKey([]Value{negZero}))
	assert.False(t, math.Signbit(mustNumber(t, negZero)), "negative zero is stored as zero")
}

func TestKindCountsJSON(t *testing.T) {
	counts := map[Kind]int{KindInteger: 3, KindText: 1}

	data, err := json.Marshal(counts)
	require.NoError(t, err)
	assert.JSONEq(t, `{"integer": 3, "text": 1}`, string(data))

	var back map[Kind]int
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, counts, back)

	assert.Error(t, json.Unmarshal([]byte(`{"date": 1}`), &back))
}

func mustNumber(t *testing.T, v Value) float64 {
	t.Helper()
	n, ok := v.Number()
	require.True(t, ok)
	return n
}
