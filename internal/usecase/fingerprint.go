package usecase

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
)

// digestFields hashes length-prefixed fields so that field boundaries
// can never be confused ("ab"+"c" differs from "a"+"bc").
func digestFields(fields ...[]byte) common.Hash {
	var buf []byte
	for _, f := range fields {
		buf = binary.BigEndian.AppendUint64(buf, uint64(len(f)))
		buf = append(buf, f...)
	}
	return crypto.Keccak256Hash(buf)
}

func sortedStrings(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}

func stringFields(tag string, values []string) [][]byte {
	fields := [][]byte{[]byte(tag), binary.BigEndian.AppendUint64(nil, uint64(len(values)))}
	for _, v := range values {
		fields = append(fields, []byte(v))
	}
	return fields
}

// CatalogDigest covers every artifact name and content in the catalog
func CatalogDigest(catalog *domain.Catalog) common.Hash {
	fields := [][]byte{binary.BigEndian.AppendUint64(nil, uint64(catalog.Len()))}
	for _, a := range catalog.Artifacts {
		fields = append(fields, []byte(a.Name), a.SourceFingerprint.Bytes())
	}
	return digestFields(fields...)
}

// FilterDigest covers both name lists, even the inert exclude list
func FilterDigest(filter domain.FilterConfig) common.Hash {
	fields := stringFields("include", sortedStrings(filter.IncludedNames))
	fields = append(fields, stringFields("exclude", sortedStrings(filter.ExcludedNames))...)
	return digestFields(fields...)
}

// TargetDigest covers everything that shapes where and how wrappers are written
func TargetDigest(target domain.GenerationTarget) common.Hash {
	return digestFields(
		[]byte(target.PackageName),
		[]byte(filepath.Clean(target.OutputRoot)),
		[]byte(target.Flavor),
	)
}

// ComputeFingerprint is a pure function of the declared run inputs
func ComputeFingerprint(catalog *domain.Catalog, filter domain.FilterConfig, target domain.GenerationTarget, generatorVersion string) *domain.RunFingerprint {
	fp := &domain.RunFingerprint{
		CatalogDigest:    CatalogDigest(catalog),
		FilterDigest:     FilterDigest(filter),
		TargetDigest:     TargetDigest(target),
		GeneratorVersion: generatorVersion,
	}
	fp.Digest = digestFields(
		fp.CatalogDigest.Bytes(),
		fp.FilterDigest.Bytes(),
		fp.TargetDigest.Bytes(),
		[]byte(generatorVersion),
	)
	return fp
}

// StateKey identifies the persisted record for a (source root, output root) pair
func StateKey(sourceRoot string, target domain.GenerationTarget) string {
	h := digestFields([]byte(filepath.Clean(sourceRoot)), []byte(filepath.Clean(target.OutputRoot)))
	return fmt.Sprintf("%x", h[:16])
}

// ArtifactFingerprint hashes an artifact's ABI and bytecode
func ArtifactFingerprint(abi, bytecode []byte) common.Hash {
	return digestFields(abi, bytecode)
}

// describeChange names the first fingerprint component that differs
func describeChange(prev, next *domain.RunFingerprint) string {
	switch {
	case prev.GeneratorVersion != next.GeneratorVersion:
		return fmt.Sprintf("generator version changed (%s -> %s)", prev.GeneratorVersion, next.GeneratorVersion)
	case prev.CatalogDigest != next.CatalogDigest:
		return "contract artifacts changed"
	case prev.FilterDigest != next.FilterDigest:
		return "include/exclude lists changed"
	case prev.TargetDigest != next.TargetDigest:
		return "target package or output changed"
	default:
		return "fingerprint changed"
	}
}
