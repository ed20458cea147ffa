package meta

import (
	_ "embed"
	"io"
	"strings"

	"github.com/cottand/rtype/internal/log"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// declFile is the TOML layout of a declaration file:
//
//	[[class]]
//	name = "util.ArrayList"
//	params = ["E"]
//	extends = "util.AbstractList<E>"
//	implements = ["util.List<E>"]
//
//	[[class.field]]
//	name = "elements"
//	type = "E[]"
type declFile struct {
	Classes []classDecl `toml:"class" validate:"dive"`
}

type classDecl struct {
	Name string `toml:"name" validate:"required"`
	Kind string `toml:"kind" validate:"omitempty,oneof=class interface"`
	// Params are type parameters, optionally bounded: "T extends Comparable<T>"
	Params     []string     `toml:"params" validate:"dive,required"`
	Extends    string       `toml:"extends"`
	Implements []string     `toml:"implements" validate:"dive,required"`
	Fields     []fieldDecl  `toml:"field" validate:"dive"`
	Methods    []methodDecl `toml:"method" validate:"dive"`
}

type fieldDecl struct {
	Name string `toml:"name" validate:"required"`
	Type string `toml:"type" validate:"required"`
}

type methodDecl struct {
	Name        string   `toml:"name" validate:"required_without=Constructor"`
	Constructor bool     `toml:"constructor"`
	TypeParams  []string `toml:"type_params" validate:"dive,required"`
	Params      []string `toml:"params" validate:"dive,required"`
	Returns     string   `toml:"returns"`
}

var validate = validator.New()

//go:embed builtin.toml
var builtinDecls string

// Builtin returns a new Universe holding Object, the primitives and the
// builtin lang, util and function classes.
func Builtin() *Universe {
	u := NewUniverse()
	if _, err := u.Load(strings.NewReader(builtinDecls), "builtin.toml"); err != nil {
		panic(errors.Wrap(err, "could not load builtin declarations"))
	}
	return u
}

// Load reads a TOML declaration file and defines its classes in u,
// replacing classes of the same name. source names the input in errors.
// When Load fails, u is left as it was.
//
// Supertypes which cannot be found are recorded with Class.Requires rather
// than failing the load, so that they surface as ErrTypeNotPresent when the
// hierarchy is walked.
func (u *Universe) Load(r io.Reader, source string) ([]*Class, error) {
	logger := log.Section("meta").With("source", source)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", source)
	}
	file := &declFile{}
	if err := toml.Unmarshal(data, file); err != nil {
		return nil, errors.Wrapf(err, "could not decode %s", source)
	}
	if err := validate.Struct(file); err != nil {
		return nil, errors.Wrapf(err, "invalid declarations in %s", source)
	}

	// declare every class in a staging copy of u before parsing any expression,
	// so that declarations may refer to each other in any order and u is only
	// changed once every class is complete
	staged := u.stage()
	classes := make([]*Class, len(file.Classes))
	for i, decl := range file.Classes {
		names := make([]string, len(decl.Params))
		for j, param := range decl.Params {
			names[j], _ = splitParam(param)
		}
		if decl.Kind == KindInterface.String() {
			classes[i] = NewInterface(decl.Name, names...)
		} else {
			classes[i] = NewClass(decl.Name, names...)
		}
		staged.Define(classes[i])
	}

	for i, decl := range file.Classes {
		if err := staged.complete(classes[i], decl); err != nil {
			return nil, errors.Wrapf(err, "in class %s of %s", decl.Name, source)
		}
	}
	for _, c := range classes {
		if previous := u.Define(c); previous != nil {
			logger.Debug("redefined class", "class", c.Name())
		}
	}
	logger.Debug("loaded declarations", "classes", len(classes))
	return classes, nil
}

func (u *Universe) complete(c *Class, decl classDecl) error {
	if err := u.bindParams(c.typeParams, decl.Params, c.typeParams); err != nil {
		return err
	}
	supertype := func(src string) (Expr, error) {
		e, err := u.Parse(src, c.typeParams...)
		if errors.Is(err, ErrUnknownType) {
			c.Requires(src)
			return nil, nil
		}
		return e, err
	}
	if decl.Extends != "" {
		super, err := supertype(decl.Extends)
		if err != nil {
			return err
		}
		if super != nil {
			c.Extends(super)
		}
	}
	for _, src := range decl.Implements {
		iface, err := supertype(src)
		if err != nil {
			return err
		}
		if iface != nil {
			c.Implements(iface)
		}
	}

	for _, fd := range decl.Fields {
		typ, err := u.Parse(fd.Type, c.typeParams...)
		if err != nil {
			return errors.Wrapf(err, "field %s", fd.Name)
		}
		c.AddField(fd.Name, typ)
	}

	for _, md := range decl.Methods {
		var m *Method
		if md.Constructor {
			m = c.AddConstructor()
		} else {
			names := make([]string, len(md.TypeParams))
			for j, param := range md.TypeParams {
				names[j], _ = splitParam(param)
			}
			m = c.AddMethod(md.Name, names...)
		}
		scope := append(append([]*Variable{}, m.TypeParams...), c.typeParams...)
		if err := u.bindParams(m.TypeParams, md.TypeParams, scope); err != nil {
			return errors.Wrapf(err, "method %s", m.Name)
		}
		for _, src := range md.Params {
			param, err := u.Parse(src, scope...)
			if err != nil {
				return errors.Wrapf(err, "method %s", m.Name)
			}
			m.Params = append(m.Params, param)
		}
		if md.Returns != "" {
			ret, err := u.Parse(md.Returns, scope...)
			if err != nil {
				return errors.Wrapf(err, "method %s", m.Name)
			}
			m.Returning(ret)
		}
	}
	return nil
}

// bindParams parses the bounds of declared parameters vars from their declarations decls
func (u *Universe) bindParams(vars []*Variable, decls []string, scope []*Variable) error {
	for i, decl := range decls {
		_, bounds := splitParam(decl)
		for _, src := range bounds {
			b, err := u.Parse(src, scope...)
			if err != nil {
				return errors.Wrapf(err, "bound of %s", vars[i].Name)
			}
			vars[i].Bounds = append(vars[i].Bounds, b)
		}
	}
	return nil
}

// splitParam splits "T extends A & B" into T and [A, B]
func splitParam(decl string) (name string, bounds []string) {
	name, rest, found := strings.Cut(strings.TrimSpace(decl), " extends ")
	if !found {
		return name, nil
	}
	for _, b := range strings.Split(rest, "&") {
		bounds = append(bounds, strings.TrimSpace(b))
	}
	return strings.TrimSpace(name), bounds
}
