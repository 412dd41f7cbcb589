package action

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondition_String(t *testing.T) {
	assert.Equal(t, "visible", Visible.String())
	assert.Equal(t, `contains:"Invalid credentials"`, Contains("Invalid credentials").String())
}

func TestParseCondition(t *testing.T) {
	assert.Equal(t, Visible, ParseCondition("visible"))
	assert.Equal(t, Contains("Invalid credentials"), ParseCondition(`contains:"Invalid credentials"`))
	assert.Equal(t, Contains("hi"), ParseCondition(`contains:'hi'`))
	assert.Equal(t, Visible, ParseCondition("whatever"))
}

func TestAction_MarshalOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(Click("PIM navigation link"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"click","target":"PIM navigation link","description":"Click PIM navigation link"}`, string(data))
}

func TestAction_MarshalWaitAndAssert(t *testing.T) {
	data, err := json.Marshal(Wait(1000))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"wait","timeoutMs":1000,"description":"Wait 1000ms"}`, string(data))

	data, err = json.Marshal(Assert("error message", Contains("Invalid credentials")))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"condition":"contains:\"Invalid credentials\""`)
}

func TestAction_UnmarshalRestoresCondition(t *testing.T) {
	var a Action
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"assert","target":"dashboard page","condition":"visible","description":"x"}`), &a))
	assert.Equal(t, KindAssert, a.Kind)
	assert.Equal(t, Visible, a.Condition)
}

func TestAction_Describe(t *testing.T) {
	orig := Wait(1000)
	tagged := orig.Describe("unclassified step")
	assert.Equal(t, "unclassified step", tagged.Description)
	assert.Equal(t, "Wait 1000ms", orig.Description)
}

func TestSequence_ActionsIsACopy(t *testing.T) {
	seq := NewSequence(Navigate("https://example.com"), Wait(10))
	got := seq.Actions()
	got[0] = Wait(99)
	assert.Equal(t, KindNavigate, seq.At(0).Kind)
	assert.Equal(t, []Kind{KindNavigate, KindWait}, seq.Kinds())
}

func TestSequence_MarshalEmpty(t *testing.T) {
	data, err := json.Marshal(Sequence{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}
