package model

// Category names one element query. Stores use the category as the
// collection or table discriminator.
type Category string

const (
	PhaseImpedanceLineConfigs    Category = "PhaseImpedanceLineConfigs"
	PhaseImpedanceLineNames      Category = "PhaseImpedanceLineNames"
	SequenceImpedanceLineConfigs Category = "SequenceImpedanceLineConfigs"
	SequenceImpedanceLineNames   Category = "SequenceImpedanceLineNames"
	ACLineSegmentLineNames       Category = "ACLineSegmentLineNames"

	WireInfoSpacing           Category = "WireInfoSpacing"
	WireInfoOverhead          Category = "WireInfoOverhead"
	WireInfoConcentricNeutral Category = "WireInfoConcentricNeutral"
	WireInfoTapeShield        Category = "WireInfoTapeShield"
	WireInfoLineNames         Category = "WireInfoLineNames"

	PowerTransformerEndXfmrImpedances  Category = "PowerTransformerEndXfmrImpedances"
	PowerTransformerEndXfmrNames       Category = "PowerTransformerEndXfmrNames"
	PowerTransformerEndXfmrAdmittances Category = "PowerTransformerEndXfmrAdmittances"

	TransformerTankXfmrRated Category = "TransformerTankXfmrRated"
	TransformerTankXfmrSct   Category = "TransformerTankXfmrSct"
	TransformerTankXfmrNames Category = "TransformerTankXfmrNames"
	TransformerTankXfmrNlt   Category = "TransformerTankXfmrNlt"

	SwitchingEquipmentSwitchNames Category = "SwitchingEquipmentSwitchNames"
	ShuntElementCapNames          Category = "ShuntElementCapNames"
)

// Categories lists every category in query order
var Categories = []Category{
	PhaseImpedanceLineConfigs,
	PhaseImpedanceLineNames,
	SequenceImpedanceLineConfigs,
	SequenceImpedanceLineNames,
	ACLineSegmentLineNames,
	WireInfoSpacing,
	WireInfoOverhead,
	WireInfoConcentricNeutral,
	WireInfoTapeShield,
	WireInfoLineNames,
	PowerTransformerEndXfmrImpedances,
	PowerTransformerEndXfmrNames,
	PowerTransformerEndXfmrAdmittances,
	TransformerTankXfmrRated,
	TransformerTankXfmrSct,
	TransformerTankXfmrNames,
	TransformerTankXfmrNlt,
	SwitchingEquipmentSwitchNames,
	ShuntElementCapNames,
}
