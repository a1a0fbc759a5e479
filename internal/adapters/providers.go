package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/treb-bindgen/internal/adapters/abi"
	"github.com/trebuchet-org/treb-bindgen/internal/adapters/fs"
	"github.com/trebuchet-org/treb-bindgen/internal/config"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

// ProvideGeneratorVersion provides the version mixed into run fingerprints
func ProvideGeneratorVersion() usecase.GeneratorVersion {
	return usecase.GeneratorVersion(config.GeneratorVersion())
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewArtifactCatalog,
	wire.Bind(new(usecase.ArtifactCatalog), new(*fs.ArtifactCatalog)),

	fs.NewWrapperWriterAdapter,
	wire.Bind(new(usecase.WrapperWriter), new(*fs.WrapperWriterAdapter)),

	fs.NewFingerprintStoreAdapter,
	wire.Bind(new(usecase.FingerprintStore), new(*fs.FingerprintStoreAdapter)),
)

// BinderSet provides the abigen-backed binder
var BinderSet = wire.NewSet(
	abi.NewBinder,
	wire.Bind(new(usecase.WrapperBinder), new(*abi.Binder)),
	wire.Bind(new(usecase.ABIInspector), new(*abi.Binder)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ProvideGeneratorVersion,

	FSSet,
	BinderSet,
)
