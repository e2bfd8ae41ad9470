package license

import (
	"bytes"
	"encoding/json"
	"fmt"

	"optimagrowth-licensing/pkg/jsonpatch"
)

// The patch pipeline is three composable pure stages: entity -> generic tree,
// RFC 6902 apply, tree -> entity. Each stage is independently testable and
// the caller only commits the result after the whole pipeline succeeds.

// toTree serializes the entity into the generic JSON tree the patch
// interpreter operates on.
func toTree(l *License) (any, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(b, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// fromTree re-materializes a typed License from a patched tree. Unknown
// members introduced by the patch are rejected.
func fromTree(tree any) (*License, error) {
	b, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var l License
	if err := dec.Decode(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

// applyPatch runs the full pipeline against a copy of current and returns the
// patched entity. current is never modified.
func applyPatch(patch jsonpatch.Patch, current *License) (*License, error) {
	tree, err := toTree(current)
	if err != nil {
		return nil, fmt.Errorf("serialize license: %w", err)
	}

	patched, err := patch.Apply(tree)
	if err != nil {
		return nil, err
	}

	next, err := fromTree(patched)
	if err != nil {
		return nil, fmt.Errorf("rebuild license: %w", err)
	}
	return next, nil
}
