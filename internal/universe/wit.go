package universe

import (
	"fmt"
	"io"
	"os"

	"go.bytecodealliance.org/wit"
)

// Wit is a Universe backed by a decoded WIT Resolve, as produced by
// `wasm-tools component wit --json`.
type Wit struct {
	res        *wit.Resolve
	packages   map[string]PackageID
	interfaces []map[string]InterfaceID
	digest     [32]byte
}

// FromResolve indexes res. PackageID is the index into res.Packages and
// InterfaceID is the index into res.Interfaces.
func FromResolve(res *wit.Resolve) *Wit {
	u := &Wit{
		res:        res,
		packages:   make(map[string]PackageID, len(res.Packages)),
		interfaces: make([]map[string]InterfaceID, len(res.Packages)),
	}
	byPtr := make(map[*wit.Package]PackageID, len(res.Packages))
	for i, p := range res.Packages {
		id := index[PackageID](i)
		byPtr[p] = id
		u.packages[packageKey(p.Name.String())] = id
		u.interfaces[i] = make(map[string]InterfaceID)
	}
	for i, iface := range res.Interfaces {
		if iface.Name == nil || iface.Package == nil {
			continue // анонимные интерфейсы миров не адресуются по имени
		}
		pkg, ok := byPtr[iface.Package]
		if !ok {
			continue
		}
		u.interfaces[pkg][*iface.Name] = index[InterfaceID](i)
	}
	u.digest = u.computeDigest()
	return u
}

// DecodeJSON decodes a Resolve in JSON form and indexes it.
func DecodeJSON(r io.Reader) (*Wit, error) {
	res, err := wit.DecodeJSON(r)
	if err != nil {
		return nil, fmt.Errorf("decode wit json: %w", err)
	}
	return FromResolve(res), nil
}

// LoadJSON reads a Resolve from a JSON file.
func LoadJSON(path string) (*Wit, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from CLI flag or manifest
	if err != nil {
		return nil, err
	}
	defer f.Close()
	u, err := DecodeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return u, nil
}

func (u *Wit) LookupPackage(name string) (PackageID, bool) {
	id, ok := u.packages[packageKey(name)]
	return id, ok
}

func (u *Wit) LookupInterface(pkg PackageID, name string) (InterfaceID, bool) {
	if int(pkg) >= len(u.interfaces) {
		return 0, false
	}
	id, ok := u.interfaces[pkg][name]
	return id, ok
}

// Resolve returns the underlying Resolve.
func (u *Wit) Resolve() *wit.Resolve {
	return u.res
}

// Interface returns the WIT interface for id, or nil.
func (u *Wit) Interface(id InterfaceID) *wit.Interface {
	if int(id) >= len(u.res.Interfaces) {
		return nil
	}
	return u.res.Interfaces[id]
}

func (u *Wit) InterfaceName(id InterfaceID) (string, bool) {
	iface := u.Interface(id)
	if iface == nil || iface.Name == nil || iface.Package == nil {
		return "", false
	}
	return packageKey(iface.Package.Name.String()) + "/" + *iface.Name, true
}

// Digest fingerprints every addressable package and interface name.
// Two universes with the same digest resolve documents identically.
func (u *Wit) Digest() [32]byte {
	return u.digest
}

func (u *Wit) computeDigest() [32]byte {
	names := make([]string, 0, len(u.packages))
	for pkg, id := range u.packages {
		names = append(names, pkg)
		for iface, ifaceID := range u.interfaces[id] {
			names = append(names, fmt.Sprintf("%s/%s=%d", pkg, iface, ifaceID))
		}
	}
	return digestNames(names)
}
