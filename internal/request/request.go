// Package request reads YAML request files listing schema mutations.
//
//	namespace: p1
//	operations:
//	  - op: create_column
//	    table: User
//	    column: {name: email, type: String, required: true, unique: true}
//
// The top-level namespace is the default for entries that omit one.
package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/leapmigrate/pkg/core"
	"github.com/leapstack-labs/leapmigrate/pkg/mutation"
	"gopkg.in/yaml.v3"
)

// Request is a decoded request file.
type Request struct {
	Path       string
	Namespace  string
	Operations []mutation.Operation
}

type fileDoc struct {
	Namespace  string      `yaml:"namespace"`
	Operations []yaml.Node `yaml:"operations"`
}

// ReadFile decodes the request file at path.
func ReadFile(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes a request document. path is only used in errors.
func Parse(path string, data []byte) (*Request, error) {
	var f fileDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, &FileError{Path: path, Index: -1, Err: err}
	}

	req := &Request{Path: path, Namespace: f.Namespace}
	for i := range f.Operations {
		op, name, err := decodeEntry(&f.Operations[i], f.Namespace)
		if err != nil {
			return nil, &FileError{Path: path, Index: i, Op: name, Err: err}
		}
		req.Operations = append(req.Operations, op)
	}
	return req, nil
}

func decodeEntry(node *yaml.Node, namespace string) (mutation.Operation, string, error) {
	var head entry
	if err := node.Decode(&head); err != nil {
		return nil, "", err
	}
	if head.Op == "" {
		return nil, "", ErrMissingOp
	}
	newDoc, ok := docs[head.Op]
	if !ok {
		return nil, head.Op, fmt.Errorf("%w %q", ErrUnknownOp, head.Op)
	}

	// Node.Decode has no strict mode, so the entry is decoded again from
	// its own text to reject unknown keys.
	raw, err := yaml.Marshal(node)
	if err != nil {
		return nil, head.Op, err
	}
	d := newDoc()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(d); err != nil {
		return nil, head.Op, err
	}

	op, err := d.operation(namespace)
	if err != nil {
		return nil, head.Op, err
	}
	return op, head.Op, nil
}

// Build renders every operation with b. Errors carry the failing entry.
func (r *Request) Build(b mutation.Builder) ([]core.Action, error) {
	actions := make([]core.Action, 0, len(r.Operations))
	for i, op := range r.Operations {
		action, err := op.Build(b)
		if err != nil {
			return nil, &FileError{Path: r.Path, Index: i, Op: op.Op(), Err: err}
		}
		actions = append(actions, action)
	}
	return actions, nil
}
