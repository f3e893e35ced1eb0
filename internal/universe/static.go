package universe

import "fmt"

// Static is an in-memory Universe assembled by hand.
type Static struct {
	packages   []staticPackage
	byName     map[string]PackageID
	interfaces []string
}

type staticPackage struct {
	name       string
	interfaces map[string]InterfaceID
}

func NewStatic() *Static {
	return &Static{byName: make(map[string]PackageID)}
}

// AddPackage registers a package and returns its ID. Adding the same name
// twice returns the existing ID.
func (s *Static) AddPackage(name string) PackageID {
	key := packageKey(name)
	if id, ok := s.byName[key]; ok {
		return id
	}
	id := index[PackageID](len(s.packages))
	s.packages = append(s.packages, staticPackage{name: key, interfaces: make(map[string]InterfaceID)})
	s.byName[key] = id
	return id
}

// AddInterface registers an interface in pkg and returns its ID.
// Panics if pkg was not returned by AddPackage.
func (s *Static) AddInterface(pkg PackageID, name string) InterfaceID {
	p := &s.packages[pkg]
	if id, ok := p.interfaces[name]; ok {
		return id
	}
	id := index[InterfaceID](len(s.interfaces))
	s.interfaces = append(s.interfaces, p.name+"/"+name)
	p.interfaces[name] = id
	return id
}

func (s *Static) LookupPackage(name string) (PackageID, bool) {
	id, ok := s.byName[packageKey(name)]
	return id, ok
}

func (s *Static) LookupInterface(pkg PackageID, name string) (InterfaceID, bool) {
	if int(pkg) >= len(s.packages) {
		return 0, false
	}
	id, ok := s.packages[pkg].interfaces[name]
	return id, ok
}

// InterfaceName returns "ns:pkg@ver/iface" for id.
func (s *Static) InterfaceName(id InterfaceID) (string, bool) {
	if int(id) >= len(s.interfaces) {
		return "", false
	}
	return s.interfaces[id], true
}

// Digest fingerprints the registered names.
func (s *Static) Digest() [32]byte {
	names := make([]string, 0, len(s.packages)+len(s.interfaces))
	for _, p := range s.packages {
		names = append(names, p.name)
		for iface, id := range p.interfaces {
			names = append(names, fmt.Sprintf("%s/%s=%d", p.name, iface, id))
		}
	}
	return digestNames(names)
}
