package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"waldo/internal/document"
	"waldo/internal/universe"
)

// FormatDocument prints a resolved document:
//
//	imports:
//	  a: component
//	  log: instance wasi:logging/logging@0.1.0 (#0)
//	instantiations:
//	  x = instantiate(a)
//	    logging: log.log
func FormatDocument(w io.Writer, doc *document.Document, u universe.Universe) error {
	namer, _ := u.(universe.Namer)
	var werr error
	printf := func(format string, args ...any) {
		if werr == nil {
			_, werr = fmt.Fprintf(w, format, args...)
		}
	}

	printf("imports:\n")
	for name := range doc.Imports.ComponentNames.All() {
		printf("  %s: component\n", name)
	}
	for name, id := range doc.Imports.InstanceNames.All() {
		inst := doc.Imports.Instance(id)
		ref := fmt.Sprintf("#%d", inst.Type)
		if namer != nil {
			if n, ok := namer.InterfaceName(inst.Type); ok {
				ref = n
			}
		}
		printf("  %s: instance %s (%s)\n", name, inst.Name, ref)
	}

	printf("instantiations:\n")
	locals := instanceLocals(doc)
	for name, inst := range doc.Instantiations.All() {
		printf("  %s = instantiate(%s)\n", name, componentName(doc, inst.Component))
		for argName, arg := range inst.Arguments.All() {
			switch arg.Kind {
			case document.ArgInstanceExport:
				printf("    %s: %s.%s\n", argName, locals[arg.Instance], arg.Export)
			default:
				printf("    %s: %s\n", argName, locals[arg.Instance])
			}
		}
	}
	return werr
}

// DocumentJSON is the machine-readable summary of a resolved document.
type DocumentJSON struct {
	Components     []string                `json:"components"`
	Instances      map[string]InstanceJSON `json:"instances"`
	Instantiations []InstantiationJSON     `json:"instantiations"`
}

type InstanceJSON struct {
	Interface string `json:"interface"`
	ID        uint32 `json:"id"`
}

type InstantiationJSON struct {
	Name      string                 `json:"name"`
	Component string                 `json:"component"`
	Args      []InstantiationArgJSON `json:"args,omitempty"`
}

type InstantiationArgJSON struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Instance string `json:"instance"`
	Export   string `json:"export,omitempty"`
}

func FormatDocumentJSON(w io.Writer, doc *document.Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDocumentJSON(doc))
}

// BuildDocumentJSON формирует структуру без сериализации.
func BuildDocumentJSON(doc *document.Document) DocumentJSON {
	out := DocumentJSON{
		Components:     append([]string{}, doc.Imports.ComponentNames.Keys()...),
		Instances:      make(map[string]InstanceJSON, doc.Imports.InstanceNames.Len()),
		Instantiations: make([]InstantiationJSON, 0, doc.Instantiations.Len()),
	}
	for name, id := range doc.Imports.InstanceNames.All() {
		inst := doc.Imports.Instance(id)
		out.Instances[name] = InstanceJSON{Interface: inst.Name, ID: uint32(inst.Type)}
	}
	locals := instanceLocals(doc)
	for name, inst := range doc.Instantiations.All() {
		entry := InstantiationJSON{Name: name, Component: componentName(doc, inst.Component)}
		for argName, arg := range inst.Arguments.All() {
			entry.Args = append(entry.Args, InstantiationArgJSON{
				Name:     argName,
				Kind:     arg.Kind.String(),
				Instance: locals[arg.Instance],
				Export:   arg.Export,
			})
		}
		out.Instantiations = append(out.Instantiations, entry)
	}
	return out
}

func componentName(doc *document.Document, id document.ComponentImportID) string {
	if c := doc.Imports.Component(id); c != nil {
		return c.Name
	}
	return fmt.Sprintf("<component %d>", id)
}

// instanceLocals: InstanceImport хранит квалифицированное имя, а печатать нужно локальное.
func instanceLocals(doc *document.Document) map[document.InstanceImportID]string {
	out := make(map[document.InstanceImportID]string, doc.Imports.InstanceNames.Len())
	for name, id := range doc.Imports.InstanceNames.All() {
		out[id] = name
	}
	return out
}
