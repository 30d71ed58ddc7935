package specification

import "ceramiqc/service/models"

type defaultSpec struct {
	param     string
	format    string
	enamel    string
	min       *float64
	max       *float64
	target    *float64
	unit      string
	symmetric bool
	desc      string
}

func fp(v float64) *float64 { return &v }

func spec(param string, min, max, target *float64, unit, desc string) defaultSpec {
	return defaultSpec{param: param, min: min, max: max, target: target, unit: unit, desc: desc}
}

func (d defaultSpec) forFormat(format string) defaultSpec { d.format = format; return d }
func (d defaultSpec) forEnamel(enamel string) defaultSpec { d.enamel = enamel; return d }
func (d defaultSpec) sym() defaultSpec                     { d.symmetric = true; return d }

// defect limits shared by press and dryer
func pressDefectLimits() []defaultSpec {
	return []defaultSpec{
		spec("defect_grains", nil, fp(15), fp(7.5), "%", "Maximum grains defects"),
		spec("defect_cracks", nil, fp(1), fp(0.5), "%", "Maximum cracks defects"),
		spec("defect_cleaning", nil, fp(1), fp(0.5), "%", "Maximum cleaning defects"),
		spec("defect_foliage", nil, fp(1), fp(0.5), "%", "Maximum foliage defects"),
		spec("defect_chipping", nil, fp(1), fp(0.5), "%", "Maximum chipping defects"),
	}
}

func enamelGrammage() []defaultSpec {
	var out []defaultSpec
	for _, enamel := range []string{"engobe", "email", "mate"} {
		out = append(out,
			spec("enamel_grammage", fp(20), fp(23), fp(21.5), "g", "Enamel grammage for 20x20").forFormat("20x20").forEnamel(enamel),
			spec("enamel_grammage", fp(50), fp(55), fp(52.5), "g", "Enamel grammage for 25x40").forFormat("25x40").forEnamel(enamel),
			spec("enamel_grammage", fp(70), fp(75), fp(72.5), "g", "Enamel grammage for 25x50").forFormat("25x50").forEnamel(enamel),
		)
	}
	return out
}

// defaultSpecs is the factory default set, keyed by control type.
var defaultSpecs = map[string][]defaultSpec{
	"clay": {
		spec("humidity_before_prep", fp(2.5), fp(4.1), fp(3.3), "%", "Humidity before preparation"),
		spec("humidity_after_sieving", fp(2.0), fp(3.5), fp(2.75), "%", "Humidity after sieving"),
		spec("humidity_after_prep", fp(5.3), fp(6.3), fp(5.8), "%", "Humidity after preparation"),
		spec("granulometry_refusal", fp(10), fp(20), fp(15), "%", "Granulometry refusal percentage"),
		spec("calcium_carbonate", fp(15), fp(25), fp(20), "%", "Calcium carbonate content"),
	},
	"press": append([]defaultSpec{
		spec("thickness", fp(6.2), fp(7.2), fp(6.7), "mm", "Thickness for 20x20 format").forFormat("20x20"),
		spec("thickness", fp(6.8), fp(7.4), fp(7.1), "mm", "Thickness for 25x40 format").forFormat("25x40"),
		spec("thickness", fp(7.1), fp(7.7), fp(7.4), "mm", "Thickness for 25x50 format").forFormat("25x50"),
		spec("wet_weight", fp(480), fp(580), fp(530), "g", "Wet weight for 20x20 format").forFormat("20x20"),
		spec("wet_weight", fp(1150), fp(1550), fp(1350), "g", "Wet weight for 25x40 format").forFormat("25x40"),
		spec("wet_weight", fp(1800), fp(2000), fp(1900), "g", "Wet weight for 25x50 format").forFormat("25x50"),
	}, pressDefectLimits()...),
	"dryer": append([]defaultSpec{
		spec("residual_humidity", fp(0.1), fp(1.5), fp(0.8), "%", "Residual humidity after drying"),
	}, pressDefectLimits()...),
	"biscuit_kiln": {
		spec("defect_cracks", nil, fp(5), fp(2.5), "%", "Maximum cracks defects in biscuit"),
		spec("defect_chipping", nil, fp(5), fp(2.5), "%", "Maximum chipping defects in biscuit"),
		spec("defect_cooking", nil, fp(1), fp(0.5), "%", "Maximum cooking defects"),
		spec("defect_foliage", nil, fp(1), fp(0.5), "%", "Maximum foliage defects"),
		spec("defect_flatness", nil, fp(5), fp(2.5), "%", "Maximum flatness defects"),
		spec("shrinkage_expansion", fp(-0.2), fp(0.4), fp(0.1), "%", "Shrinkage/expansion range"),
		spec("fire_loss", fp(10), fp(19), fp(14.5), "%", "Fire loss percentage"),
	},
	"email_kiln": {
		spec("thermal_shock", nil, fp(5), fp(2.5), "%", "Maximum thermal shock defects"),
		spec("rupture_resistance_thick", fp(600), nil, nil, "N", "Rupture resistance for thickness >=7.5mm"),
		spec("rupture_resistance_thin", fp(200), nil, nil, "N", "Rupture resistance for thickness <7.5mm"),
		spec("rupture_module_thick", fp(12), nil, nil, "N/mm²", "Rupture module for thickness >=7.5mm"),
		spec("rupture_module_thin", fp(15), nil, nil, "N/mm²", "Rupture module for thickness <7.5mm"),
		spec("length_deviation", nil, fp(0.5), fp(0), "%", "Length deviation tolerance").sym(),
		spec("width_deviation", nil, fp(0.5), fp(0), "%", "Width deviation tolerance").sym(),
		spec("thickness_deviation", nil, fp(10), fp(0), "%", "Thickness deviation tolerance").sym(),
		spec("water_absorption", fp(9), nil, fp(12), "%", "Water absorption minimum"),
		spec("color_nuance", nil, fp(1), fp(0.5), "%", "Maximum color nuance defects"),
		spec("cooking_defects", nil, fp(1), fp(0.5), "%", "Maximum cooking defects"),
		spec("flatness_defects", nil, fp(5), fp(2.5), "%", "Maximum flatness defects"),
	},
	"dimensional": {
		spec("central_curvature", nil, fp(2), fp(0), "mm", "Central curvature tolerance").sym(),
		spec("veil", nil, fp(2), fp(0), "mm", "Veil tolerance").sym(),
		spec("angularity", nil, fp(2), fp(0), "mm", "Angularity tolerance").sym(),
		spec("edge_straightness", nil, fp(1.5), fp(0), "mm", "Edge straightness tolerance").sym(),
		spec("lateral_curvature", nil, fp(2), fp(0), "mm", "Lateral curvature tolerance").sym(),
		spec("surface_quality", fp(95), nil, fp(98), "%", "Minimum surface quality (defect-free)"),
		spec("tiles_tested", fp(30), nil, fp(50), "pieces", "Minimum tiles to test"),
		spec("surface_area_tested", fp(1), nil, fp(2), "m²", "Minimum surface area to test"),
		spec("lighting_level", fp(300), nil, fp(500), "lux", "Minimum lighting level"),
	},
	"enamel": append([]defaultSpec{
		spec("density", fp(1780), fp(1830), fp(1805), "g/l", "Density for engobe").forEnamel("engobe"),
		spec("density", fp(1730), fp(1780), fp(1755), "g/l", "Density for email").forEnamel("email"),
		spec("density", fp(1780), fp(1830), fp(1805), "g/l", "Density for mate").forEnamel("mate"),
		spec("viscosity", fp(25), fp(55), fp(40), "seconds", "Viscosity range for all enamel types"),
		spec("water_grammage", fp(0.5), fp(3), fp(1.75), "g", "Water grammage for 20x20").forFormat("20x20"),
		spec("water_grammage", fp(1), fp(5), fp(3), "g", "Water grammage for 25x40").forFormat("25x40"),
		spec("water_grammage", fp(3), fp(7), fp(5), "g", "Water grammage for 25x50").forFormat("25x50"),
	}, enamelGrammage()...),
}

// DefaultControlTypes lists the control types with a factory default set, in seeding order.
var DefaultControlTypes = []string{"clay", "press", "dryer", "biscuit_kiln", "email_kiln", "dimensional", "enamel"}

func (d defaultSpec) model(controlType string) *models.Specification {
	return &models.Specification{
		ControlType:   controlType,
		ParameterName: d.param,
		FormatType:    models.StrPtr(d.format),
		EnamelType:    models.StrPtr(d.enamel),
		MinValue:      d.min,
		MaxValue:      d.max,
		TargetValue:   d.target,
		Unit:          d.unit,
		Symmetric:     d.symmetric,
		IsActive:      true,
		Description:   d.desc,
		CreatedBy:     "system",
	}
}

// DefaultSpecifications returns fresh models of the default set for one
// control type, or for all when controlType is empty.
func DefaultSpecifications(controlType string) []*models.Specification {
	types := DefaultControlTypes
	if controlType != "" {
		types = []string{controlType}
	}
	var out []*models.Specification
	for _, ct := range types {
		for _, d := range defaultSpecs[ct] {
			out = append(out, d.model(ct))
		}
	}
	return out
}
