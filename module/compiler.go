package module

import (
	"fmt"

	"github.com/kbukum/modkit/errors"
	"github.com/kbukum/modkit/logger"
)

// Compiled is the normalized form of either module shape.
type Compiled struct {
	// Type is the module identity used for deduplication.
	Type      *Definition
	Name      string
	Metadata  Metadata
	IsDynamic bool
	IsGlobal  bool
}

// Compiler normalizes module references and flattens import graphs.
type Compiler struct {
	log *logger.Logger
}

// NewCompiler creates a Compiler. A nil logger uses the compiler component logger.
func NewCompiler(log *logger.Logger) *Compiler {
	if log == nil {
		log = logger.Get(logger.ComponentCompiler)
	}
	return &Compiler{log: log}
}

// Compile normalizes ref into a Compiled module.
func (c *Compiler) Compile(ref Ref) (*Compiled, error) {
	switch m := ref.(type) {
	case nil:
		return nil, errors.InvalidModule("nil module reference")
	case *Definition:
		if m == nil {
			return nil, errors.InvalidModule("nil module definition")
		}
		return &Compiled{Type: m, Name: m.name, Metadata: m.meta}, nil
	case *Dynamic:
		if m == nil || m.Module == nil {
			return nil, errors.InvalidModule("dynamic module without a module definition")
		}
		return &Compiled{
			Type:      m.Module,
			Name:      m.Module.name,
			Metadata:  m.metadata(),
			IsDynamic: true,
			IsGlobal:  m.Global,
		}, nil
	default:
		return nil, errors.InvalidModule(fmt.Sprintf("unsupported module reference %T", ref))
	}
}

// ExtractImports flattens the import graph reachable from roots in pre-order.
// Each module identity appears once, at its first visit, so diamonds and
// import cycles both terminate.
func (c *Compiler) ExtractImports(roots ...Ref) ([]*Compiled, error) {
	var out []*Compiled
	visited := make(map[*Definition]bool)
	names := make(map[string]*Definition)
	if err := c.extract(roots, "", visited, names, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Compiler) extract(refs []Ref, parent string, visited map[*Definition]bool, names map[string]*Definition, out *[]*Compiled) error {
	for _, ref := range refs {
		cm, err := c.Compile(ref)
		if err != nil {
			if e, ok := errors.As(err); ok && parent != "" {
				e.WithModule(parent)
			}
			return err
		}
		if visited[cm.Type] {
			continue
		}
		if other, taken := names[cm.Name]; taken && other != cm.Type {
			return errors.InvalidModule(fmt.Sprintf("duplicate module name %q", cm.Name)).WithModule(parent)
		}
		visited[cm.Type] = true
		names[cm.Name] = cm.Type
		*out = append(*out, cm)

		c.log.Debug("module compiled", logger.Fields(
			logger.FieldModule, cm.Name,
			"dynamic", cm.IsDynamic,
			"global", cm.IsGlobal,
			"imports", len(cm.Metadata.Imports),
		))

		if err := c.extract(cm.Metadata.Imports, cm.Name, visited, names, out); err != nil {
			return err
		}
	}
	return nil
}
