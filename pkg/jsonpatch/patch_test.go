package jsonpatch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestDecodeRejectsNonArray(t *testing.T) {
	_, err := Decode([]byte(`{"op":"add","path":"/a","value":1}`))
	require.Error(t, err)
}

func TestDecodeRejectsUnknownOp(t *testing.T) {
	_, err := Decode([]byte(`[{"op":"merge","path":"/a","value":1}]`))
	require.Error(t, err)
}

func TestDecodeRejectsMissingValue(t *testing.T) {
	for _, op := range []string{"add", "replace", "test"} {
		_, err := Decode([]byte(`[{"op":"` + op + `","path":"/a"}]`))
		require.Error(t, err, op)
	}
}

func TestDecodeRejectsBadPointer(t *testing.T) {
	_, err := Decode([]byte(`[{"op":"remove","path":"a"}]`))
	require.Error(t, err)
}

func TestDecodeRejectsMissingFrom(t *testing.T) {
	_, err := Decode([]byte(`[{"op":"move","path":"/a","from":"b"}]`))
	require.Error(t, err)
}

func TestDecodeAllowsNullValue(t *testing.T) {
	patch, err := Decode([]byte(`[{"op":"replace","path":"/a","value":null}]`))
	require.NoError(t, err)
	require.Len(t, patch, 1)
}

func TestApplyEmptyPatchIsIdentity(t *testing.T) {
	doc := mustDoc(t, `{"a":1,"b":["x","y"]}`)
	patch, err := Decode([]byte(`[]`))
	require.NoError(t, err)

	out, err := patch.Apply(doc)
	require.NoError(t, err)
	require.Equal(t, doc, out)
}

func TestApplyReplace(t *testing.T) {
	doc := mustDoc(t, `{"description":"old","licenseId":"ABC-123"}`)
	patch, err := Decode([]byte(`[{"op":"replace","path":"/description","value":"new"}]`))
	require.NoError(t, err)

	out, err := patch.Apply(doc)
	require.NoError(t, err)
	require.Equal(t, mustDoc(t, `{"description":"new","licenseId":"ABC-123"}`), out)
}

func TestApplyReplaceMissingMemberFails(t *testing.T) {
	doc := mustDoc(t, `{"a":1}`)
	patch, err := Decode([]byte(`[{"op":"replace","path":"/b","value":2}]`))
	require.NoError(t, err)

	_, err = patch.Apply(doc)
	require.Error(t, err)
}

func TestApplyAddAndRemove(t *testing.T) {
	doc := mustDoc(t, `{"tags":["a","c"]}`)
	patch, err := Decode([]byte(`[
		{"op":"add","path":"/tags/1","value":"b"},
		{"op":"add","path":"/tags/-","value":"d"},
		{"op":"remove","path":"/tags/0"}
	]`))
	require.NoError(t, err)

	out, err := patch.Apply(doc)
	require.NoError(t, err)
	require.Equal(t, mustDoc(t, `{"tags":["b","c","d"]}`), out)
}

func TestApplyMoveAndCopy(t *testing.T) {
	doc := mustDoc(t, `{"a":{"x":1},"b":{}}`)
	patch, err := Decode([]byte(`[
		{"op":"copy","from":"/a/x","path":"/b/x"},
		{"op":"move","from":"/a","path":"/c"}
	]`))
	require.NoError(t, err)

	out, err := patch.Apply(doc)
	require.NoError(t, err)
	require.Equal(t, mustDoc(t, `{"b":{"x":1},"c":{"x":1}}`), out)
}

func TestApplyMoveIntoOwnChildFails(t *testing.T) {
	doc := mustDoc(t, `{"a":{"b":{}}}`)
	patch, err := Decode([]byte(`[{"op":"move","from":"/a","path":"/a/b/c"}]`))
	require.NoError(t, err)

	_, err = patch.Apply(doc)
	require.Error(t, err)
}

func TestApplyTest(t *testing.T) {
	doc := mustDoc(t, `{"a":[1,2],"b":"x"}`)

	patch, err := Decode([]byte(`[{"op":"test","path":"/a","value":[1,2]}]`))
	require.NoError(t, err)
	_, err = patch.Apply(doc)
	require.NoError(t, err)

	patch, err = Decode([]byte(`[{"op":"test","path":"/b","value":"y"}]`))
	require.NoError(t, err)
	_, err = patch.Apply(doc)
	require.Error(t, err)
}

func TestApplyIsAtomic(t *testing.T) {
	doc := mustDoc(t, `{"a":1,"b":2}`)
	patch, err := Decode([]byte(`[
		{"op":"replace","path":"/a","value":99},
		{"op":"remove","path":"/missing"}
	]`))
	require.NoError(t, err)

	_, err = patch.Apply(doc)
	require.Error(t, err)
	// the input document must be untouched even though the first op succeeded
	require.Equal(t, mustDoc(t, `{"a":1,"b":2}`), doc)
}

func TestApplyRootReplacement(t *testing.T) {
	doc := mustDoc(t, `{"a":1}`)
	patch, err := Decode([]byte(`[{"op":"add","path":"","value":{"b":2}}]`))
	require.NoError(t, err)

	out, err := patch.Apply(doc)
	require.NoError(t, err)
	require.Equal(t, mustDoc(t, `{"b":2}`), out)
}

func TestPointerEscaping(t *testing.T) {
	doc := mustDoc(t, `{"a/b":1,"m~n":2}`)
	patch, err := Decode([]byte(`[
		{"op":"replace","path":"/a~1b","value":10},
		{"op":"replace","path":"/m~0n","value":20}
	]`))
	require.NoError(t, err)

	out, err := patch.Apply(doc)
	require.NoError(t, err)
	require.Equal(t, mustDoc(t, `{"a/b":10,"m~n":20}`), out)
}

func TestArrayIndexOutOfBounds(t *testing.T) {
	doc := mustDoc(t, `{"a":[1]}`)

	patch, err := Decode([]byte(`[{"op":"add","path":"/a/2","value":9}]`))
	require.NoError(t, err)
	_, err = patch.Apply(doc)
	require.Error(t, err)

	patch, err = Decode([]byte(`[{"op":"remove","path":"/a/01"}]`))
	require.NoError(t, err)
	_, err = patch.Apply(doc)
	require.Error(t, err)
}
