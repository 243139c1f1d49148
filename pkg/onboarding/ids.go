package onboarding

// Element ids and classes of the onboarding page.
const (
	ClassFormStep   = "form-step"
	ClassStepMarker = "step"
	ClassFieldGroup = "field-group"
	ClassHasError   = "has-error"
	ClassError      = "error"
	ClassErrorBox   = "error-box"
	ClassActive     = "active"
	ClassCompleted  = "completed"
	ClassForm       = "onboarding-form"

	IDPrevButton   = "prevBtn"
	IDNextButton   = "nextBtn"
	IDSubmitButton = "submitBtn"

	IDSpecialTaxpayerSelect = "is_special_taxpayer"
	IDSpecialTaxpayerGroup  = "special_taxpayer_number_group"
	IDSpecialTaxpayerNumber = "special_taxpayer_number"
	IDSpecialTaxpayerHidden = "id_special_taxpayer"

	IDMainAddress          = "id_main_address"
	IDEstablishmentAddress = "id_establishment_address"
	IDTaxPercentage        = "id_tax_percentage"
	IDTax                  = "id_tax"

	// IDWizardStep is an optional hidden input mirroring the active step so
	// clients without scripting can post their position back.
	IDWizardStep = "id_wizard_step"

	AttrStep = "data-step"
)

// Special taxpayer indicator values and the sentinel stored when the company
// is not a special taxpayer.
const (
	SpecialTaxpayerYes      = "yes"
	SpecialTaxpayerNo       = "no"
	SpecialTaxpayerSentinel = "000"
)

// DefaultTotalSteps is the number of onboarding steps.
const DefaultTotalSteps = 5

// DefaultRequiredIDs are forced required on Init regardless of markup.
var DefaultRequiredIDs = []string{
	"id_ruc",
	"id_company_name",
	"id_commercial_name",
	"id_main_address",
	"id_establishment_code",
	"id_issuing_point_code",
	"id_email",
}

const (
	displayShown   = "flex"
	displayHidden  = "none"
	pulseAnimation = "pulse 0.5s ease-in-out 3"
)
