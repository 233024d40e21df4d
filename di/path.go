package di

import "context"

type pathKey struct{}

// resolutionPath is the chain of tokens currently being resolved on behalf
// of one caller. It travels in the context so nested resolutions see it.
type resolutionPath []Token

func pathFrom(ctx context.Context) resolutionPath {
	if p, ok := ctx.Value(pathKey{}).(resolutionPath); ok {
		return p
	}
	return nil
}

func (p resolutionPath) contains(tok Token) bool {
	for _, t := range p {
		if t == tok {
			return true
		}
	}
	return false
}

// push returns a context carrying p extended with tok. p itself is not modified.
func (p resolutionPath) push(ctx context.Context, tok Token) context.Context {
	next := make(resolutionPath, len(p), len(p)+1)
	copy(next, p)
	return context.WithValue(ctx, pathKey{}, append(next, tok))
}

// labels renders the path followed by tail.
func (p resolutionPath) labels(tail Token) []string {
	out := make([]string, 0, len(p)+1)
	for _, t := range p {
		out = append(out, t.String())
	}
	return append(out, tail.String())
}
