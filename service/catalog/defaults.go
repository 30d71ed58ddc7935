package catalog

import "ceramiqc/service/models"

type stageSeed struct {
	code  string
	name  string
	order int
}

var defaultStages = []stageSeed{
	{"CLAY", "Clay control", 1},
	{"PRESS", "Press control", 2},
	{"DRYER", "Dryer control", 3},
	{"BISCUIT", "Biscuit kiln control", 4},
	{"EMAIL", "Glaze kiln control", 5},
	{"ENAMEL", "Enamel control", 6},
	{"TESTS", "Tests and inspections", 7},
}

type parameterSeed struct {
	stage string
	param models.ControlParameter
}

func num(v float64) *float64 { return &v }

func link(controlType, parameterName string) (*string, *string) {
	return &controlType, &parameterName
}

func defaultParameters() []parameterSeed {
	humBeforeCT, humBeforeName := link("clay", "humidity_before_prep")
	humSieveCT, humSieveName := link("clay", "humidity_after_sieving")
	dryerCT, dryerName := link("dryer", "residual_humidity")
	granuloCT, granuloName := link("clay", "granulometry_refusal")
	caco3CT, caco3Name := link("clay", "calcium_carbonate")

	return []parameterSeed{
		{"CLAY", models.ControlParameter{
			Code: "CLAY_HUM_BEFORE", Name: "Humidity before preparation",
			SpecificationText: "2.5% - 4.1%", Unit: "%", FrequencyPerDay: 6,
			ControlType: models.ControlTypeNumeric,
			MinValue: num(2.5), MaxValue: num(4.1), TargetValue: num(3.3),
			SpecControlType: humBeforeCT, SpecParameterName: humBeforeName,
		}},
		{"CLAY", models.ControlParameter{
			Code: "CLAY_HUM_AFTER_SIEVE", Name: "Humidity after sieving",
			SpecificationText: "2% - 3.5%", Unit: "%", FrequencyPerDay: 6,
			ControlType: models.ControlTypeNumeric,
			MinValue: num(2.0), MaxValue: num(3.5), TargetValue: num(2.75),
			SpecControlType: humSieveCT, SpecParameterName: humSieveName,
		}},
		{"CLAY", models.ControlParameter{
			Code: "CLAY_GRANULOMETRY", Name: "Granulometry refusal",
			SpecificationText: "10% - 20%", Unit: "%", Weekly: true, FrequencyDescription: "weekly",
			ControlType: models.ControlTypeNumeric,
			MinValue: num(10), MaxValue: num(20), TargetValue: num(15),
			SpecControlType: granuloCT, SpecParameterName: granuloName,
		}},
		{"CLAY", models.ControlParameter{
			Code: "CLAY_CACO3", Name: "Calcium carbonate",
			SpecificationText: "15% - 25%", Unit: "%", Weekly: true, FrequencyDescription: "weekly",
			ControlType: models.ControlTypeNumeric,
			MinValue: num(15), MaxValue: num(25), TargetValue: num(20),
			SpecControlType: caco3CT, SpecParameterName: caco3Name,
		}},
		{"DRYER", models.ControlParameter{
			Code: "DRYER_RESIDUAL_HUM", Name: "Dryer residual humidity",
			SpecificationText: "0.1% - 1.5%", Unit: "%", FrequencyPerDay: 4,
			ControlType: models.ControlTypeNumeric,
			MinValue: num(0.1), MaxValue: num(1.5), TargetValue: num(0.8),
			MethodReference: "R2-MA-LABO-02",
			SpecControlType: dryerCT, SpecParameterName: dryerName,
		}},
		{"PRESS", models.ControlParameter{
			Code: "PRESS_DEFECTS", Name: "Press surface defects",
			SpecificationText: "Grains <=15%, others <=1%", Unit: "%", FrequencyPerDay: 12,
			ControlType: models.ControlTypeVisual,
			DefectCategories: models.DefectMap{
				"grains":   15,
				"cracks":   1,
				"cleaning": 1,
				"foliage":  1,
				"chipping": 1,
			},
		}},
	}
}
