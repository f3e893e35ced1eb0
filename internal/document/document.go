// Package document holds the resolved form of a composition document:
// its imports and the instantiations wired from them.
package document

import (
	"waldo/internal/ast"
	"waldo/internal/universe"
)

// ComponentImportID refers to Imports.Components. Zero is "no import".
type ComponentImportID uint32

// InstanceImportID refers to Imports.Instances. Zero is "no import".
type InstanceImportID uint32

// ComponentImport is `import name: component;`.
type ComponentImport struct {
	Name string
	// Type is the world the component targets. Always nil until
	// world-typed imports are supported.
	Type *universe.WorldID
}

// InstanceImport is `import name: interface(ns:pkg/iface);`.
type InstanceImport struct {
	Name string // ns:pkg/iface[@version]
	Type universe.InterfaceID
}

type ArgKind uint8

const (
	// ArgInstance passes a whole imported instance.
	ArgInstance ArgKind = iota
	// ArgInstanceExport passes one exported item of an imported instance.
	ArgInstanceExport
)

func (k ArgKind) String() string {
	switch k {
	case ArgInstance:
		return "instance"
	case ArgInstanceExport:
		return "instance-export"
	default:
		return "arg(?)"
	}
}

// InstantiationArg is the value bound to one named argument.
type InstantiationArg struct {
	Kind     ArgKind
	Instance InstanceImportID
	Export   string // only for ArgInstanceExport
}

// InstantiationArgs maps argument names to values in source order.
type InstantiationArgs = OrderedMap[InstantiationArg]

// Instantiation is `let name = instantiate(component, args...);`.
type Instantiation struct {
	Component ComponentImportID
	Arguments InstantiationArgs
}

// Instantiations maps instantiation names to definitions in source order.
type Instantiations = OrderedMap[*Instantiation]

// Imports are the document's imports. Components and instances live in
// separate arenas but share one name namespace.
type Imports struct {
	Components     *ast.Arena[ComponentImport]
	Instances      *ast.Arena[InstanceImport]
	ComponentNames OrderedMap[ComponentImportID]
	InstanceNames  OrderedMap[InstanceImportID]
}

// Document is the result of resolving one source file.
type Document struct {
	Imports        Imports
	Instantiations Instantiations
}

func New() *Document {
	return &Document{
		Imports: Imports{
			Components: ast.NewArena[ComponentImport](8),
			Instances:  ast.NewArena[InstanceImport](8),
		},
	}
}

func (im *Imports) AddComponent(c ComponentImport) ComponentImportID {
	id := ComponentImportID(im.Components.Allocate(c))
	im.ComponentNames.Set(c.Name, id)
	return id
}

// AddInstance stores the import under local, its name in the document.
func (im *Imports) AddInstance(local string, inst InstanceImport) InstanceImportID {
	id := InstanceImportID(im.Instances.Allocate(inst))
	im.InstanceNames.Set(local, id)
	return id
}

func (im *Imports) Component(id ComponentImportID) *ComponentImport {
	return im.Components.Get(uint32(id))
}

func (im *Imports) Instance(id InstanceImportID) *InstanceImport {
	return im.Instances.Get(uint32(id))
}

// Declared reports whether name is taken by either kind of import.
func (im *Imports) Declared(name string) bool {
	return im.ComponentNames.Has(name) || im.InstanceNames.Has(name)
}

func (im *Imports) Len() int {
	return im.ComponentNames.Len() + im.InstanceNames.Len()
}
