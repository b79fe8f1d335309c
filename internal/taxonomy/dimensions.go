package taxonomy

// Dimension names as used in logs and facet policy lookups.
const (
	DimSpecialty       = "specialty"
	DimJobType         = "job_type"
	DimShiftType       = "shift_type"
	DimExperienceLevel = "experience_level"
)

// specialtyValues is the canonical nursing specialty vocabulary. Specialty is
// single-valued store-side: ingestion writes the display form, so DBValues
// carry one variant each and synonyms live in the alias table.
var specialtyValues = []Value{
	{Display: "ICU", Slug: "icu", DBValues: []string{"ICU"}},
	{Display: "Emergency Room", Slug: "emergency-room", DBValues: []string{"Emergency Room"}},
	{Display: "Medical-Surgical", Slug: "medical-surgical", DBValues: []string{"Medical-Surgical"}},
	{Display: "Telemetry", Slug: "telemetry", DBValues: []string{"Telemetry"}},
	{Display: "Labor & Delivery", Slug: "labor-delivery", DBValues: []string{"Labor & Delivery"}},
	{Display: "Operating Room", Slug: "operating-room", DBValues: []string{"Operating Room"}},
	{Display: "PACU", Slug: "pacu", DBValues: []string{"PACU"}},
	{Display: "NICU", Slug: "nicu", DBValues: []string{"NICU"}},
	{Display: "Pediatrics", Slug: "pediatrics", DBValues: []string{"Pediatrics"}},
	{Display: "Oncology", Slug: "oncology", DBValues: []string{"Oncology"}},
	{Display: "Cath Lab", Slug: "cath-lab", DBValues: []string{"Cath Lab"}},
	{Display: "Dialysis", Slug: "dialysis", DBValues: []string{"Dialysis"}},
	{Display: "Home Health", Slug: "home-health", DBValues: []string{"Home Health"}},
	{Display: "Hospice", Slug: "hospice", DBValues: []string{"Hospice"}},
	{Display: "Psychiatric", Slug: "psychiatric", DBValues: []string{"Psychiatric"}},
	{Display: "Rehabilitation", Slug: "rehabilitation", DBValues: []string{"Rehabilitation"}},
	{Display: "Long Term Care", Slug: "long-term-care", DBValues: []string{"Long Term Care"}},
	{Display: "Case Management", Slug: "case-management", DBValues: []string{"Case Management"}},
	{Display: "Stepdown", Slug: "stepdown", DBValues: []string{"Stepdown"}},
	{Display: "Ambulatory Care", Slug: "ambulatory-care", DBValues: []string{"Ambulatory Care"}},
}

var specialtyAliases = map[string]string{
	"intensive care":        "ICU",
	"intensive care unit":   "ICU",
	"critical care":         "ICU",
	"micu":                  "ICU",
	"sicu":                  "ICU",
	"er":                    "Emergency Room",
	"ed":                    "Emergency Room",
	"emergency":             "Emergency Room",
	"emergency department":  "Emergency Room",
	"emergency dept":        "Emergency Room",
	"med surg":              "Medical-Surgical",
	"med-surg":              "Medical-Surgical",
	"med/surg":              "Medical-Surgical",
	"medsurg":               "Medical-Surgical",
	"medical surgical":      "Medical-Surgical",
	"tele":                  "Telemetry",
	"l&d":                   "Labor & Delivery",
	"labor and delivery":    "Labor & Delivery",
	"or":                    "Operating Room",
	"surgery":               "Operating Room",
	"perioperative":         "Operating Room",
	"post anesthesia":       "PACU",
	"recovery room":         "PACU",
	"neonatal icu":          "NICU",
	"neonatal intensive care": "NICU",
	"peds":                  "Pediatrics",
	"pediatric":             "Pediatrics",
	"onc":                   "Oncology",
	"cardiac cath":          "Cath Lab",
	"catheterization lab":   "Cath Lab",
	"renal":                 "Dialysis",
	"nephrology":            "Dialysis",
	"home care":             "Home Health",
	"palliative":            "Hospice",
	"palliative care":       "Hospice",
	"psych":                 "Psychiatric",
	"behavioral health":     "Psychiatric",
	"mental health":         "Psychiatric",
	"rehab":                 "Rehabilitation",
	"ltc":                   "Long Term Care",
	"skilled nursing":       "Long Term Care",
	"snf":                   "Long Term Care",
	"case manager":          "Case Management",
	"care coordination":     "Case Management",
	"step down":             "Stepdown",
	"progressive care":      "Stepdown",
	"pcu":                   "Stepdown",
	"outpatient":            "Ambulatory Care",
	"clinic":                "Ambulatory Care",
}

// jobTypeValues is multi-valued: the store holds several raw variants per
// canonical value, so filters and grouped counts must span the whole set.
var jobTypeValues = []Value{
	{Display: "Travel", Slug: "travel", DBValues: []string{"travel", "travel nurse", "traveler"}},
	{Display: "Staff", Slug: "staff", DBValues: []string{"staff", "permanent", "full-time permanent"}},
	{Display: "Per Diem", Slug: "per-diem", DBValues: []string{"per-diem", "per diem", "prn"}},
	{Display: "Contract", Slug: "contract", DBValues: []string{"contract", "contractor"}},
	{Display: "Local Contract", Slug: "local-contract", DBValues: []string{"local-contract", "local contract"}},
}

var jobTypeAliases = map[string]string{
	"travel nursing": "Travel",
	"traveling":      "Travel",
	"perm":           "Staff",
	"direct hire":    "Staff",
	"perdiem":        "Per Diem",
	"local":          "Local Contract",
}

var shiftValues = []Value{
	{Display: "Day", Slug: "day", DBValues: []string{"day", "days", "day shift"}},
	{Display: "Night", Slug: "night", DBValues: []string{"night", "nights", "noc"}},
	{Display: "Evening", Slug: "evening", DBValues: []string{"evening", "evenings", "mid shift"}},
	{Display: "Rotating", Slug: "rotating", DBValues: []string{"rotating", "rotation", "variable"}},
	{Display: "Weekend", Slug: "weekend", DBValues: []string{"weekend", "weekends"}},
}

var shiftAliases = map[string]string{
	"7a-7p":           "Day",
	"am":              "Day",
	"overnight":       "Night",
	"7p-7a":           "Night",
	"graveyard":       "Night",
	"pm":              "Evening",
	"swing":           "Evening",
	"rotate":          "Rotating",
	"weekend program": "Weekend",
	"baylor":          "Weekend",
}

var experienceValues = []Value{
	{Display: "New Grad", Slug: "new-grad", DBValues: []string{"new grad", "new graduate"}},
	{Display: "Entry Level", Slug: "entry-level", DBValues: []string{"entry level", "entry-level"}},
	{Display: "Mid Level", Slug: "mid-level", DBValues: []string{"mid level", "mid-level", "intermediate"}},
	{Display: "Senior", Slug: "senior", DBValues: []string{"senior", "experienced"}},
}

var experienceAliases = map[string]string{
	"graduate nurse": "New Grad",
	"rn new grad":    "New Grad",
	"junior":         "Entry Level",
	"0-2 years":      "Entry Level",
	"2-5 years":      "Mid Level",
	"5+ years":       "Senior",
	"lead":           "Senior",
}
