package onboarding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStepsCatalogue(t *testing.T) {
	steps := Steps()
	if len(steps) != DefaultTotalSteps {
		t.Fatalf("expected %d steps, got %d", DefaultTotalSteps, len(steps))
	}

	var required []string
	for i, step := range steps {
		if step.Number != i+1 {
			t.Fatalf("step %d numbered %d", i+1, step.Number)
		}
		for _, name := range step.Required() {
			field, _ := step.Field(name)
			required = append(required, field.ElementID())
		}
	}
	if diff := cmp.Diff(DefaultRequiredIDs, required); diff != "" {
		t.Fatalf("required ids mismatch (-want +got):\n%s", diff)
	}

	third := steps[2]
	if len(third.Conditionals) != 1 || third.Conditionals[0].Field != IDSpecialTaxpayerNumber {
		t.Fatalf("expected special taxpayer conditional on step 3, got %+v", third.Conditionals)
	}
	tax, ok := third.Field("tax_percentage")
	if !ok || tax.Default != "4" || len(tax.Options) == 0 {
		t.Fatalf("unexpected tax field %+v", tax)
	}
}
