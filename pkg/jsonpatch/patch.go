// Package jsonpatch is a strict RFC 6902 interpreter over generic JSON trees
// (map[string]any, []any and primitives as produced by encoding/json).
//
// Application is atomic: Apply works on a deep copy of the input document and
// either every operation succeeds or the caller's document is untouched.
package jsonpatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Operation is a single RFC 6902 operation.
type Operation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Patch is an ordered sequence of operations.
type Patch []Operation

// Decode parses and structurally validates a patch document. It rejects
// anything that is not a JSON array of operations with known op names and the
// operands each op requires.
func Decode(data []byte) (Patch, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var patch Patch
	if err := dec.Decode(&patch); err != nil {
		return nil, fmt.Errorf("decode patch document: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode patch document: trailing data")
	}

	for i, op := range patch {
		if _, err := parsePointer(op.Path); err != nil {
			return nil, fmt.Errorf("op %d (%s): %w", i, op.Op, err)
		}
		switch op.Op {
		case "add", "replace", "test":
			if op.Value == nil {
				return nil, fmt.Errorf("op %d (%s): missing value", i, op.Op)
			}
		case "move", "copy":
			if _, err := parsePointer(op.From); err != nil {
				return nil, fmt.Errorf("op %d (%s): from: %w", i, op.Op, err)
			}
		case "remove":
		default:
			return nil, fmt.Errorf("op %d: unknown op %q", i, op.Op)
		}
	}

	return patch, nil
}

// Apply runs every operation in order against a deep copy of doc and returns
// the patched tree. The first failing operation aborts the whole patch; doc
// is never modified.
func (p Patch) Apply(doc any) (any, error) {
	work, err := deepCopy(doc)
	if err != nil {
		return nil, fmt.Errorf("copy document: %w", err)
	}

	for i, op := range p {
		work, err = applyOp(work, op)
		if err != nil {
			return nil, fmt.Errorf("op %d (%s %s): %w", i, op.Op, op.Path, err)
		}
	}

	return work, nil
}

func applyOp(doc any, op Operation) (any, error) {
	path, err := parsePointer(op.Path)
	if err != nil {
		return nil, err
	}

	switch op.Op {
	case "add":
		val, err := decodeValue(op.Value)
		if err != nil {
			return nil, err
		}
		return addValue(doc, path, val)
	case "remove":
		return removeValue(doc, path)
	case "replace":
		val, err := decodeValue(op.Value)
		if err != nil {
			return nil, err
		}
		return replaceValue(doc, path, val)
	case "move":
		from, err := parsePointer(op.From)
		if err != nil {
			return nil, err
		}
		if from.isProperPrefixOf(path) {
			return nil, fmt.Errorf("cannot move %q into its own child %q", op.From, op.Path)
		}
		val, err := getValue(doc, from)
		if err != nil {
			return nil, err
		}
		doc, err = removeValue(doc, from)
		if err != nil {
			return nil, err
		}
		return addValue(doc, path, val)
	case "copy":
		from, err := parsePointer(op.From)
		if err != nil {
			return nil, err
		}
		val, err := getValue(doc, from)
		if err != nil {
			return nil, err
		}
		val, err = deepCopy(val)
		if err != nil {
			return nil, err
		}
		return addValue(doc, path, val)
	case "test":
		want, err := decodeValue(op.Value)
		if err != nil {
			return nil, err
		}
		got, err := getValue(doc, path)
		if err != nil {
			return nil, err
		}
		if !reflect.DeepEqual(got, want) {
			return nil, fmt.Errorf("test failed at %q", op.Path)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("unknown op %q", op.Op)
	}
}

func decodeValue(raw json.RawMessage) (any, error) {
	var val any
	if err := json.Unmarshal(raw, &val); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return val, nil
}

func deepCopy(doc any) (any, error) {
	if doc == nil {
		return nil, nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func getValue(doc any, ptr pointer) (any, error) {
	if len(ptr) == 0 {
		return doc, nil
	}
	tok := ptr[0]
	switch node := doc.(type) {
	case map[string]any:
		child, ok := node[tok]
		if !ok {
			return nil, fmt.Errorf("member %q not found", tok)
		}
		return getValue(child, ptr[1:])
	case []any:
		i, err := arrayIndex(tok, len(node), false)
		if err != nil {
			return nil, err
		}
		return getValue(node[i], ptr[1:])
	default:
		return nil, fmt.Errorf("cannot traverse %T with token %q", doc, tok)
	}
}

// addValue inserts val at ptr and returns the (possibly new) root. An empty
// pointer replaces the whole document, per RFC 6902.
func addValue(doc any, ptr pointer, val any) (any, error) {
	if len(ptr) == 0 {
		return val, nil
	}
	tok := ptr[0]
	switch node := doc.(type) {
	case map[string]any:
		if len(ptr) == 1 {
			node[tok] = val
			return node, nil
		}
		child, ok := node[tok]
		if !ok {
			return nil, fmt.Errorf("member %q not found", tok)
		}
		patched, err := addValue(child, ptr[1:], val)
		if err != nil {
			return nil, err
		}
		node[tok] = patched
		return node, nil
	case []any:
		if len(ptr) == 1 {
			if tok == "-" {
				return append(node, val), nil
			}
			i, err := arrayIndex(tok, len(node), true)
			if err != nil {
				return nil, err
			}
			out := make([]any, 0, len(node)+1)
			out = append(out, node[:i]...)
			out = append(out, val)
			out = append(out, node[i:]...)
			return out, nil
		}
		i, err := arrayIndex(tok, len(node), false)
		if err != nil {
			return nil, err
		}
		patched, err := addValue(node[i], ptr[1:], val)
		if err != nil {
			return nil, err
		}
		node[i] = patched
		return node, nil
	default:
		return nil, fmt.Errorf("cannot traverse %T with token %q", doc, tok)
	}
}

func removeValue(doc any, ptr pointer) (any, error) {
	if len(ptr) == 0 {
		return nil, fmt.Errorf("cannot remove the whole document")
	}
	tok := ptr[0]
	switch node := doc.(type) {
	case map[string]any:
		if len(ptr) == 1 {
			if _, ok := node[tok]; !ok {
				return nil, fmt.Errorf("member %q not found", tok)
			}
			delete(node, tok)
			return node, nil
		}
		child, ok := node[tok]
		if !ok {
			return nil, fmt.Errorf("member %q not found", tok)
		}
		patched, err := removeValue(child, ptr[1:])
		if err != nil {
			return nil, err
		}
		node[tok] = patched
		return node, nil
	case []any:
		i, err := arrayIndex(tok, len(node), false)
		if err != nil {
			return nil, err
		}
		if len(ptr) == 1 {
			out := make([]any, 0, len(node)-1)
			out = append(out, node[:i]...)
			out = append(out, node[i+1:]...)
			return out, nil
		}
		patched, err := removeValue(node[i], ptr[1:])
		if err != nil {
			return nil, err
		}
		node[i] = patched
		return node, nil
	default:
		return nil, fmt.Errorf("cannot traverse %T with token %q", doc, tok)
	}
}

// replaceValue is remove-then-add with the existence check remove gives us,
// but without the array index shifting.
func replaceValue(doc any, ptr pointer, val any) (any, error) {
	if len(ptr) == 0 {
		return val, nil
	}
	if _, err := getValue(doc, ptr); err != nil {
		return nil, err
	}

	parent := ptr[:len(ptr)-1]
	tok := ptr[len(ptr)-1]

	container, err := getValue(doc, parent)
	if err != nil {
		return nil, err
	}
	switch node := container.(type) {
	case map[string]any:
		node[tok] = val
		return doc, nil
	case []any:
		i, err := arrayIndex(tok, len(node), false)
		if err != nil {
			return nil, err
		}
		node[i] = val
		return doc, nil
	default:
		return nil, fmt.Errorf("cannot traverse %T with token %q", container, tok)
	}
}
