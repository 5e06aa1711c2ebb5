package artic

// DefaultDensity is the density assumed for parts that specify neither an
// explicit mass nor a density, in kg/m³ (water).
const DefaultDensity = 1000.0

// MassSpec is the tagged union over the two ways a part's mass can be
// specified. Exactly one concrete form is active per part; the marker method
// restricts implementations to this package.
type MassSpec interface {
	massSpec()
}

// ManualMass is an explicit mass in kilograms. The compiler emits the value
// verbatim and leaves density unspecified.
type ManualMass float64

func (ManualMass) massSpec() {}

// AutoDensity is a density in kg/m³. The compiler emits density only; the
// downstream engine derives mass from density and mesh volume at load time.
type AutoDensity float64

func (AutoDensity) massSpec() {}
