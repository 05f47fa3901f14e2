package eqsearch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/eqsearch/blobstore"
	"github.com/hupe1980/eqsearch/core"
	"github.com/hupe1980/eqsearch/resource"
	"github.com/hupe1980/eqsearch/snapshot"
)

// Archive persists the most recent search session to the given store
// under name. The archive keeps the full explored graph and, on
// success, the combined step chain; proof objects stay with the caller
// and are not persisted.
func (e *Engine[E, P]) Archive(ctx context.Context, store blobstore.BlobStore, name string, optFns ...func(o *snapshot.Options)) error {
	e.mu.Lock()
	last := e.last
	e.mu.Unlock()

	if last == nil {
		return fmt.Errorf("%w: no search session to archive", ErrNotFound)
	}

	sess := buildSession(last)

	w, err := store.Create(ctx, name)
	if err != nil {
		e.opts.logger.LogArchive(ctx, name, err)
		return err
	}

	var out io.Writer = w
	if e.opts.controller != nil {
		out = resource.NewRateLimitedWriter(ctx, w, e.opts.controller)
	}

	if err := snapshot.Write(out, sess, optFns...); err != nil {
		_ = w.Close()
		e.opts.logger.LogArchive(ctx, name, err)
		return err
	}

	err = w.Close()
	e.opts.logger.LogArchive(ctx, name, err)

	return err
}

// LoadOptions configure LoadArchive.
type LoadOptions struct {
	// Controller throttles archive read bandwidth when it carries an IO
	// limit.
	Controller *resource.Controller
}

// LoadArchive reads a previously archived session from the store.
func LoadArchive(ctx context.Context, store blobstore.BlobStore, name string, optFns ...func(o *LoadOptions)) (*snapshot.Session, error) {
	var opts LoadOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	b, err := store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: archive %q", ErrNotFound, name)
		}
		return nil, err
	}
	defer func() { _ = b.Close() }()

	r, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	var in io.Reader = r
	if opts.Controller != nil {
		in = resource.NewRateLimitedReader(ctx, r, opts.Controller)
	}

	return snapshot.Read(in)
}

// buildSession dumps a finished session's state into its persisted form.
func buildSession[E, P any](last *sessionData[E, P]) *snapshot.Session {
	state := last.state

	sess := &snapshot.Session{
		Status:  last.status,
		Message: last.message,
		LHS:     last.lhs,
		RHS:     last.rhs,
	}

	tokens := state.Tokens()
	sess.Tokens = make([]snapshot.TokenRecord, tokens.Len())
	for i := range sess.Tokens {
		tok := tokens.Get(core.TokenID(i))
		sess.Tokens[i] = snapshot.TokenRecord{
			ID:    tok.ID,
			Text:  tok.Text,
			Left:  tok.Freq[core.SideLeft],
			Right: tok.Freq[core.SideRight],
		}
	}

	sess.Vertices = make([]snapshot.VertexRecord, state.VertexCount())
	for i := range sess.Vertices {
		v := state.Vertex(core.VertexID(i))
		sess.Vertices[i] = snapshot.VertexRecord{
			ID:      v.ID,
			Pretty:  v.Pretty,
			Side:    v.Side,
			Root:    v.Root,
			Visited: v.Visited,
			Parent:  v.Parent,
		}
	}

	sess.Edges = make([]snapshot.EdgeRecord, state.EdgeCount())
	for i := range sess.Edges {
		ed := state.Edge(core.EdgeID(i))
		sess.Edges[i] = snapshot.EdgeRecord{
			ID:       ed.ID,
			From:     ed.From,
			To:       ed.To,
			Rule:     ed.Rule.Name,
			Reversed: ed.Rule.Reversed,
		}
	}

	if len(last.steps) > 0 {
		sess.Steps = make([]snapshot.StepRecord, len(last.steps))
		for i, s := range last.steps {
			sess.Steps[i] = snapshot.StepRecord{
				Rule:     s.Rule.Name,
				Reversed: s.Reversed,
				From:     s.From,
				To:       s.To,
			}
		}
	}

	return sess
}
