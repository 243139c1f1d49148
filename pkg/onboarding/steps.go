package onboarding

import (
	"github.com/goliatone/go-onboarding/pkg/company"
	"github.com/goliatone/go-onboarding/pkg/taxcode"
	"github.com/goliatone/go-onboarding/pkg/wizard"
)

// Steps returns the onboarding field catalogue. Field names match the form
// names posted to the server; ids follow the id_<name> convention except for
// the special taxpayer controls, which are not model fields.
func Steps() []wizard.Step {
	return []wizard.Step{
		{
			Number: 1,
			Title:  "Identificación",
			Fields: []wizard.Field{
				{Name: "ruc", ID: "id_ruc", Label: "Número de RUC", Kind: wizard.FieldText, Required: true, Placeholder: "Ingrese un número de RUC"},
				{Name: "company_name", ID: "id_company_name", Label: "Razón social", Kind: wizard.FieldText, Required: true, Placeholder: "Ingrese la razón social"},
				{Name: "commercial_name", ID: "id_commercial_name", Label: "Nombre comercial", Kind: wizard.FieldText, Required: true, Placeholder: "Ingrese el nombre comercial"},
			},
		},
		{
			Number: 2,
			Title:  "Establecimiento",
			Fields: []wizard.Field{
				{Name: "main_address", ID: IDMainAddress, Label: "Dirección del establecimiento matriz", Kind: wizard.FieldText, Required: true},
				{Name: "establishment_code", ID: "id_establishment_code", Label: "Código del establecimiento emisor", Kind: wizard.FieldText, Required: true, Default: "001"},
				{Name: "issuing_point_code", ID: "id_issuing_point_code", Label: "Código del punto de emisión", Kind: wizard.FieldText, Required: true, Default: "001"},
			},
		},
		{
			Number: 3,
			Title:  "Información tributaria",
			Fields: []wizard.Field{
				{Name: "tax_percentage", ID: IDTaxPercentage, Label: "Porcentaje del impuesto IVA", Kind: wizard.FieldSelect, Default: string(taxcode.DefaultCode), Options: taxOptions()},
				{Name: "obligated_accounting", ID: "id_obligated_accounting", Label: "Obligado a llevar contabilidad", Kind: wizard.FieldSelect, Default: company.FlagNo, Options: yesNoOptions()},
				{Name: "retention_agent", ID: "id_retention_agent", Label: "Agente de retención", Kind: wizard.FieldSelect, Default: company.FlagNo, Options: yesNoOptions()},
				{Name: "regimen_rimpe", ID: "id_regimen_rimpe", Label: "Régimen tributario", Kind: wizard.FieldSelect, Default: company.RegimeGeneral, Options: []wizard.Option{
					{Value: company.RegimeGeneral, Label: "Régimen General"},
					{Value: company.RegimeRimpeEntrepreneur, Label: "Rimpe Emprendedor"},
					{Value: company.RegimeRimpePopular, Label: "Rimpe Negocio Popular"},
				}},
				{Name: IDSpecialTaxpayerSelect, ID: IDSpecialTaxpayerSelect, Label: "¿Es contribuyente especial?", Kind: wizard.FieldSelect, Default: SpecialTaxpayerNo, Options: []wizard.Option{
					{Value: SpecialTaxpayerNo, Label: "No"},
					{Value: SpecialTaxpayerYes, Label: "Sí"},
				}},
				{Name: IDSpecialTaxpayerNumber, ID: IDSpecialTaxpayerNumber, Label: "Número de resolución", Kind: wizard.FieldNumber, Placeholder: "Ingrese el número de resolución del contribuyente especial"},
			},
			Conditionals: []wizard.Conditional{
				{Indicator: IDSpecialTaxpayerSelect, Equals: SpecialTaxpayerYes, Field: IDSpecialTaxpayerNumber},
			},
		},
		{
			Number: 4,
			Title:  "Contacto",
			Fields: []wizard.Field{
				{Name: "email", ID: "id_email", Label: "Email", Kind: wizard.FieldEmail, Required: true, Placeholder: "Ingrese la dirección de correo electrónico"},
				{Name: "mobile", ID: "id_mobile", Label: "Teléfono celular", Kind: wizard.FieldText},
				{Name: "phone", ID: "id_phone", Label: "Teléfono convencional", Kind: wizard.FieldText},
				{Name: "website", ID: "id_website", Label: "Página web", Kind: wizard.FieldText},
				{Name: "description", ID: "id_description", Label: "Descripción", Kind: wizard.FieldArea},
			},
		},
		{
			Number: 5,
			Title:  "Firma electrónica",
			Fields: []wizard.Field{
				{Name: "electronic_signature", ID: "id_electronic_signature", Label: "Firma electrónica (archivo P12)", Kind: wizard.FieldFile},
				{Name: "electronic_signature_key", ID: "id_electronic_signature_key", Label: "Clave de firma electrónica", Kind: wizard.FieldSecret},
				{Name: "image", ID: "id_image", Label: "Logotipo", Kind: wizard.FieldFile},
			},
		},
	}
}

func taxOptions() []wizard.Option {
	entries := taxcode.Entries()
	out := make([]wizard.Option, 0, len(entries))
	for _, entry := range entries {
		out = append(out, wizard.Option{Value: string(entry.Code), Label: entry.Label})
	}
	return out
}

func yesNoOptions() []wizard.Option {
	return []wizard.Option{{Value: company.FlagYes, Label: "Si"}, {Value: company.FlagNo, Label: "No"}}
}
