package company

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-onboarding/pkg/taxcode"
)

// Regimes accepted by RegimenRimpe.
const (
	RegimeGeneral           = "CONTRIBUYENTE RÉGIMEN GENERAL"
	RegimeRimpeEntrepreneur = "CONTRIBUYENTE RÉGIMEN RIMPE"
	RegimeRimpePopular      = "CONTRIBUYENTE NEGOCIO POPULAR - RÉGIMEN RIMPE"
)

// Yes/no flags stored by ObligatedAccounting and RetentionAgent.
const (
	FlagYes = "SI"
	FlagNo  = "NO"
)

// Owner identifies the user who registered the company.
type Owner struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
}

// Display renders the owner as "name (username)", falling back to whichever
// part is present.
func (o Owner) Display() string {
	name := strings.TrimSpace(o.Name)
	username := strings.TrimSpace(o.Username)
	switch {
	case name != "" && username != "":
		return name + " (" + username + ")"
	case name != "":
		return name
	default:
		return username
	}
}

// Company is a registered business.
type Company struct {
	ID                   int64  `json:"id" yaml:"id"`
	RUC                  string `json:"ruc" yaml:"ruc"`
	CompanyName          string `json:"company_name" yaml:"company_name"`
	CommercialName       string `json:"commercial_name" yaml:"commercial_name"`
	MainAddress          string `json:"main_address" yaml:"main_address"`
	EstablishmentAddress string `json:"establishment_address" yaml:"establishment_address"`
	EstablishmentCode    string `json:"establishment_code" yaml:"establishment_code"`
	IssuingPointCode     string `json:"issuing_point_code" yaml:"issuing_point_code"`
	SpecialTaxpayer      string `json:"special_taxpayer" yaml:"special_taxpayer"`
	ObligatedAccounting  string `json:"obligated_accounting" yaml:"obligated_accounting"`
	RetentionAgent       string `json:"retention_agent" yaml:"retention_agent"`
	RegimenRimpe         string `json:"regimen_rimpe" yaml:"regimen_rimpe"`
	Mobile               string `json:"mobile,omitempty" yaml:"mobile,omitempty"`
	Phone                string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email                string `json:"email" yaml:"email"`
	Website              string `json:"website,omitempty" yaml:"website,omitempty"`
	Description          string `json:"description,omitempty" yaml:"description,omitempty"`
	TaxPercentage        string `json:"tax_percentage" yaml:"tax_percentage"`
	Tax                  int    `json:"tax" yaml:"tax"`
	Owner                Owner  `json:"owner" yaml:"owner"`
}

// WithDefaults fills the values the registration form preselects.
func (c Company) WithDefaults() Company {
	if c.EstablishmentCode == "" {
		c.EstablishmentCode = "001"
	}
	if c.IssuingPointCode == "" {
		c.IssuingPointCode = "001"
	}
	if c.ObligatedAccounting == "" {
		c.ObligatedAccounting = FlagNo
	}
	if c.RetentionAgent == "" {
		c.RetentionAgent = FlagNo
	}
	if c.RegimenRimpe == "" {
		c.RegimenRimpe = RegimeGeneral
	}
	if c.TaxPercentage == "" {
		c.TaxPercentage = string(taxcode.DefaultCode)
	}
	if c.SpecialTaxpayer == "" {
		c.SpecialTaxpayer = "000"
	}
	c.Tax = taxcode.Resolve(c.TaxPercentage)
	return c
}

// IsSpecialTaxpayer reports whether a resolution number is on file.
func (c Company) IsSpecialTaxpayer() bool {
	value := strings.TrimSpace(c.SpecialTaxpayer)
	return value != "" && value != "000"
}

// FromValues builds a company from submitted form values keyed by field name.
func FromValues(values map[string]string) Company {
	get := func(key string) string { return strings.TrimSpace(values[key]) }
	c := Company{
		RUC:                  get("ruc"),
		CompanyName:          get("company_name"),
		CommercialName:       get("commercial_name"),
		MainAddress:          get("main_address"),
		EstablishmentAddress: get("establishment_address"),
		EstablishmentCode:    get("establishment_code"),
		IssuingPointCode:     get("issuing_point_code"),
		SpecialTaxpayer:      get("special_taxpayer"),
		ObligatedAccounting:  get("obligated_accounting"),
		RetentionAgent:       get("retention_agent"),
		RegimenRimpe:         get("regimen_rimpe"),
		Mobile:               get("mobile"),
		Phone:                get("phone"),
		Email:                get("email"),
		Website:              get("website"),
		Description:          get("description"),
		TaxPercentage:        get("tax_percentage"),
	}
	if tax, err := strconv.Atoi(get("tax")); err == nil {
		c.Tax = tax
	}
	if c.EstablishmentAddress == "" {
		c.EstablishmentAddress = c.MainAddress
	}
	return c
}

// Values flattens the company into form values keyed by field name.
func (c Company) Values() map[string]string {
	return map[string]string{
		"ruc":                   c.RUC,
		"company_name":          c.CompanyName,
		"commercial_name":       c.CommercialName,
		"main_address":          c.MainAddress,
		"establishment_address": c.EstablishmentAddress,
		"establishment_code":    c.EstablishmentCode,
		"issuing_point_code":    c.IssuingPointCode,
		"special_taxpayer":      c.SpecialTaxpayer,
		"obligated_accounting":  c.ObligatedAccounting,
		"retention_agent":       c.RetentionAgent,
		"regimen_rimpe":         c.RegimenRimpe,
		"mobile":                c.Mobile,
		"phone":                 c.Phone,
		"email":                 c.Email,
		"website":               c.Website,
		"description":           c.Description,
		"tax_percentage":        c.TaxPercentage,
		"tax":                   strconv.Itoa(c.Tax),
	}
}

// Row is the listing projection returned by the search action.
type Row struct {
	ID             int64  `json:"id"`
	RUC            string `json:"ruc"`
	CompanyName    string `json:"company_name"`
	CommercialName string `json:"commercial_name"`
	Email          string `json:"email"`
	TaxPercentage  string `json:"tax_percentage"`
	Tax            int    `json:"tax"`
	OwnerName      string `json:"owner_name"`
	OwnerUsername  string `json:"owner_username"`
}

// Row projects the company for the listing.
func (c Company) Row() Row {
	return Row{
		ID:             c.ID,
		RUC:            c.RUC,
		CompanyName:    c.CompanyName,
		CommercialName: c.CommercialName,
		Email:          c.Email,
		TaxPercentage:  c.TaxPercentage,
		Tax:            c.Tax,
		OwnerName:      c.Owner.Name,
		OwnerUsername:  c.Owner.Username,
	}
}

// OwnerDisplay renders the owner column.
func (r Row) OwnerDisplay() string {
	return Owner{Name: r.OwnerName, Username: r.OwnerUsername}.Display()
}

// Actions are the per-row links of the listing.
type Actions struct {
	Edit   string `json:"edit"`
	Delete string `json:"delete"`
}

// ActionsFor builds the edit and delete links for id relative to the
// listing path.
func ActionsFor(listPath string, id int64) Actions {
	base := listPath
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	idPart := strconv.FormatInt(id, 10)
	return Actions{
		Edit:   base + "update/" + idPart + "/",
		Delete: base + "delete/" + idPart + "/",
	}
}
