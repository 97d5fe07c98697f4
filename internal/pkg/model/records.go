package model

// Record is one flat query result. Values may arrive as strings,
// numbers or booleans depending on the store.
type Record map[string]interface{}

// Every required field is a pointer so an absent or null value stays
// distinguishable from a zero value until validation.

// PhaseImpedanceConfig is one (row, col) cell of the per-length phase
// impedance matrix of a line config, in ohms per metre
type PhaseImpedanceConfig struct {
	LineConfig *string  `record:"line_config" validate:"required"`
	Count      *int     `record:"count" validate:"required"`
	Row        *int     `record:"row" validate:"required"`
	Col        *int     `record:"col" validate:"required"`
	R          *float64 `record:"r_ohm_per_m" validate:"required"`
	X          *float64 `record:"x_ohm_per_m" validate:"required"`
}

// PhaseImpedanceLine is one phase of a line using a phase impedance config
type PhaseImpedanceLine struct {
	LineName   *string  `record:"line_name" validate:"required"`
	Bus1       *string  `record:"bus1" validate:"required"`
	Bus2       *string  `record:"bus2" validate:"required"`
	Length     *float64 `record:"length" validate:"required"`
	LineConfig *string  `record:"line_config" validate:"required"`
	Phase      *string  `record:"phase" validate:"required"`
}

// SequenceImpedanceConfig holds per-length positive and zero sequence
// impedances
type SequenceImpedanceConfig struct {
	LineConfig *string  `record:"line_config" validate:"required"`
	R1         *float64 `record:"r1_ohm_per_m" validate:"required"`
	X1         *float64 `record:"x1_ohm_per_m" validate:"required"`
	R0         *float64 `record:"r0_ohm_per_m" validate:"required"`
	X0         *float64 `record:"x0_ohm_per_m" validate:"required"`
}

// SequenceImpedanceLine is a three-phase line using a sequence config
type SequenceImpedanceLine struct {
	LineName   *string  `record:"line_name" validate:"required"`
	Bus1       *string  `record:"bus1" validate:"required"`
	Bus2       *string  `record:"bus2" validate:"required"`
	Length     *float64 `record:"length" validate:"required"`
	LineConfig *string  `record:"line_config" validate:"required"`
}

// RXLine is an ACLineSegment carrying its own sequence parameters
type RXLine struct {
	LineName *string  `record:"line_name" validate:"required"`
	Bus1     *string  `record:"bus1" validate:"required"`
	Bus2     *string  `record:"bus2" validate:"required"`
	Length   *float64 `record:"length" validate:"required"`
	R1       *float64 `record:"r1_Ohm" validate:"required"`
	X1       *float64 `record:"x1_Ohm" validate:"required"`
	R0       *float64 `record:"r0_Ohm" validate:"required"`
	X0       *float64 `record:"x0_Ohm" validate:"required"`
}

// WireSpacing is one conductor position of a spacing, in metres
type WireSpacing struct {
	WireSpacingInfo *string  `record:"wire_spacing_info" validate:"required"`
	Cable           *bool    `record:"cable" validate:"required"`
	Seq             *int     `record:"seq" validate:"required"`
	X               *float64 `record:"xCoord" validate:"required"`
	Y               *float64 `record:"yCoord" validate:"required"`
}

// OverheadWire is a bare conductor
type OverheadWire struct {
	Wire *string  `record:"wire_cn_ts" validate:"required"`
	GMR  *float64 `record:"gmr" validate:"required"`
	R25  *float64 `record:"r25" validate:"required"`
}

// ConcentricNeutralCable is an underground cable with a stranded neutral
type ConcentricNeutralCable struct {
	Wire           *string  `record:"wire_cn_ts" validate:"required"`
	GMR            *float64 `record:"gmr" validate:"required"`
	R25            *float64 `record:"r25" validate:"required"`
	DiameterJacket *float64 `record:"diameter_jacket" validate:"required"`
	StrandCount    *int     `record:"strand_count" validate:"required"`
	StrandRadius   *float64 `record:"strand_radius" validate:"required"`
	StrandGMR      *float64 `record:"strand_gmr" validate:"required"`
	StrandRDC      *float64 `record:"strand_rdc" validate:"required"`
}

// TapeShieldCable is an underground cable with a copper tape shield
type TapeShieldCable struct {
	Wire           *string  `record:"wire_cn_ts" validate:"required"`
	GMR            *float64 `record:"gmr" validate:"required"`
	R25            *float64 `record:"r25" validate:"required"`
	DiameterScreen *float64 `record:"diameter_screen" validate:"required"`
	TapeThickness  *float64 `record:"tapethickness" validate:"required"`
}

// WireInfoLine binds one conductor of a geometry-based line
type WireInfoLine struct {
	LineName        *string  `record:"line_name" validate:"required"`
	Length          *float64 `record:"length" validate:"required"`
	Bus1            *string  `record:"bus1" validate:"required"`
	Bus2            *string  `record:"bus2" validate:"required"`
	WireSpacingInfo *string  `record:"wire_spacing_info" validate:"required"`
	Wire            *string  `record:"wire_cn_ts" validate:"required"`
	Phase           *string  `record:"phase" validate:"required"`
	WireInfo        *string  `record:"wireinfo" validate:"required"`
}

// EndImpedance is the mesh reactance of a PowerTransformerEnd transformer
type EndImpedance struct {
	XfmrName *string  `record:"xfmr_name" validate:"required"`
	MeshX    *float64 `record:"mesh_x_ohm" validate:"required"`
}

// EndName is one winding of a PowerTransformerEnd transformer
type EndName struct {
	XfmrName   *string  `record:"xfmr_name" validate:"required"`
	EndNumber  *int     `record:"end_number" validate:"required"`
	Bus        *string  `record:"bus" validate:"required"`
	Connection *string  `record:"connection" validate:"required"`
	RatedS     *float64 `record:"ratedS" validate:"required"`
	RatedU     *float64 `record:"ratedU" validate:"required"`
	R          *float64 `record:"r_ohm" validate:"required"`
}

// EndAdmittance is the core admittance of a PowerTransformerEnd
// transformer, in siemens
type EndAdmittance struct {
	XfmrName *string  `record:"xfmr_name" validate:"required"`
	B        *float64 `record:"b_S" validate:"required"`
	G        *float64 `record:"g_S" validate:"required"`
}

// TankRated is the rating of one winding of a TransformerTank
type TankRated struct {
	XfmrName   *string  `record:"xfmr_name" validate:"required"`
	EndNumber  *int     `record:"enum" validate:"required"`
	Connection *string  `record:"connection" validate:"required"`
	RatedS     *float64 `record:"ratedS" validate:"required"`
	RatedU     *float64 `record:"ratedU" validate:"required"`
	R          *float64 `record:"r_ohm" validate:"required"`
}

// TankShortCircuit is keyed by the energised end
type TankShortCircuit struct {
	XfmrName    *string  `record:"xfmr_name" validate:"required"`
	EndNumber   *int     `record:"enum" validate:"required"`
	GroundedEnd *int     `record:"gnum" validate:"required"`
	LeakageZ    *float64 `record:"leakage_z" validate:"required"`
}

// TankName binds one winding of a TransformerTank to a bus and phase
type TankName struct {
	XfmrName  *string  `record:"xfmr_name" validate:"required"`
	EndNumber *int     `record:"enum" validate:"required"`
	Bus       *string  `record:"bus" validate:"required"`
	BaseV     *float64 `record:"baseV" validate:"required"`
	Phase     *string  `record:"phase" validate:"required"`
}

// TankNoLoad is the no-load test of a TransformerTank
type TankNoLoad struct {
	XfmrName     *string  `record:"xfmr_name" validate:"required"`
	NoLoadLossKW *float64 `record:"noloadloss_kW" validate:"required"`
	IExciting    *float64 `record:"i_exciting" validate:"required"`
}

// Switch carries an empty PhasesSide1 for a switch with no phase list
type Switch struct {
	Name        *string `record:"sw_name" validate:"required"`
	Kind        *string `record:"sw_type"`
	IsOpen      *bool   `record:"is_Open" validate:"required"`
	Bus1        *string `record:"bus1" validate:"required"`
	Bus2        *string `record:"bus2" validate:"required"`
	PhasesSide1 *string `record:"phases_side1" validate:"required"`
}

// Capacitor with a nil Phase is a three-phase bank
type Capacitor struct {
	Name        *string  `record:"cap_name" validate:"required"`
	BPerSection *float64 `record:"b_per_section" validate:"required"`
	Bus         *string  `record:"bus" validate:"required"`
	Phase       *string  `record:"phase"`
}

// String returns a pointer to v, for building records in code
func String(v string) *string { return &v }

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v
func Int(v int) *int { return &v }

// Bool returns a pointer to v
func Bool(v bool) *bool { return &v }
