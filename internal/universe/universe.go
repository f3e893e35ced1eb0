// Package universe describes the external WIT packages a document is
// resolved against. The resolver only reads from a Universe, so one value
// can be shared by documents resolved in parallel.
package universe

import (
	"crypto/sha256"
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"
	"github.com/coreos/go-semver/semver"
)

// PackageID identifies a package inside one Universe.
type PackageID uint32

// InterfaceID identifies an interface inside one Universe.
type InterfaceID uint32

// WorldID identifies a world inside one Universe.
type WorldID uint32

// Universe answers the two questions import resolution asks.
type Universe interface {
	// LookupPackage finds a package by "namespace:package[@version]".
	LookupPackage(name string) (PackageID, bool)
	// LookupInterface finds an interface by its bare name within a package.
	LookupInterface(pkg PackageID, name string) (InterfaceID, bool)
}

// Namer is implemented by universes that can print their IDs.
type Namer interface {
	InterfaceName(id InterfaceID) (string, bool)
}

// NormalizePackageName canonicalises "ns:pkg@version" so that different
// spellings of the same semver compare equal.
func NormalizePackageName(name string) (string, error) {
	base, ver, hasVer := strings.Cut(name, "@")
	ns, pkg, ok := strings.Cut(base, ":")
	if !ok || ns == "" || pkg == "" || strings.Contains(pkg, ":") {
		return "", fmt.Errorf("malformed package name %q", name)
	}
	if !hasVer {
		return base, nil
	}
	v, err := semver.NewVersion(ver)
	if err != nil {
		return "", fmt.Errorf("package %q: %w", name, err)
	}
	return base + "@" + v.String(), nil
}

// packageKey is the map key for a package name; malformed names are kept
// verbatim so that lookups simply miss.
func packageKey(name string) string {
	if norm, err := NormalizePackageName(name); err == nil {
		return norm
	}
	return name
}

// Digester is implemented by universes that can fingerprint their contents.
type Digester interface {
	Digest() [32]byte
}

func index[T ~uint32](i int) T {
	v, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(fmt.Errorf("universe index overflow: %w", err))
	}
	return T(v)
}

func digestNames(names []string) [32]byte {
	slices.Sort(names)
	h := sha256.New()
	for _, n := range names {
		h.Write([]byte(n))
		h.Write([]byte{0})
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
