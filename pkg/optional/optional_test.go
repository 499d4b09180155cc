package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name Value[string] `json:"name,omitzero"`
	Age  Value[int]    `json:"age,omitzero"`
}

func TestValue_States(t *testing.T) {
	a := Absent[string]()
	assert.False(t, a.IsPresent(), "optional:optional_test - absent must not be present")
	assert.False(t, a.IsNull())
	assert.True(t, a.IsZero())

	n := Null[string]()
	assert.True(t, n.IsPresent(), "optional:optional_test - null counts as present")
	assert.True(t, n.IsNull())
	_, ok := n.Get()
	assert.False(t, ok)

	v := Of("Ann")
	got, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, "Ann", got)
	assert.Equal(t, "Ann", v.OrElse("x"))
	assert.Equal(t, "x", a.OrElse("x"))
}

func TestValue_UnmarshalDistinguishesAbsentFromNull(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		namePresent bool
		nameNull    bool
		agePresent  bool
	}{
		{name: "both absent", body: `{}`},
		{name: "name null", body: `{"name":null}`, namePresent: true, nameNull: true},
		{name: "name set", body: `{"name":"Bo"}`, namePresent: true},
		{name: "age set", body: `{"age":42}`, agePresent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, tt.namePresent, p.Name.IsPresent(), "optional:optional_test - name presence")
			assert.Equal(t, tt.nameNull, p.Name.IsNull(), "optional:optional_test - name null")
			assert.Equal(t, tt.agePresent, p.Age.IsPresent(), "optional:optional_test - age presence")
		})
	}
}

func TestValue_UnmarshalTypeMismatch(t *testing.T) {
	var p payload
	err := json.Unmarshal([]byte(`{"age":"old"}`), &p)
	assert.Error(t, err, "optional:optional_test - expected type mismatch error")
}

func TestValue_MarshalOmitsAbsentOnly(t *testing.T) {
	out, err := json.Marshal(payload{Name: Null[string]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":null}`, string(out))

	out, err = json.Marshal(payload{Age: Of(7)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"age":7}`, string(out))
}
