package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/tc108/internal/form"
	"github.com/stwalsh4118/tc108/internal/form/formtest"
)

func TestFieldFormats(t *testing.T) {
	tests := []struct {
		path  string
		value string
		code  string // empty when the value is accepted
	}{
		{path: "property.borough", value: "5"},
		{path: "property.borough", value: "6", code: form.CodeInvalidEnum},
		{path: "property.borough", value: "", code: form.CodeRequired},
		{path: "property.block", value: "12345"},
		{path: "property.block", value: " 7 "},
		{path: "property.block", value: "123456", code: form.CodePattern},
		{path: "property.block", value: "12a", code: form.CodePattern},
		{path: "property.block", value: "", code: form.CodeRequired},
		{path: "property.lot", value: "1234"},
		{path: "property.lot", value: "12345", code: form.CodePattern},
		{path: "property.fullAddress", value: "1 Main St, Queens, NY 11375-1234"},
		{path: "property.fullAddress", value: "1 Main St, Queens, NY", code: form.CodePattern},
		{path: "property.fullAddress", value: "1 Main St 113755", code: form.CodePattern},
		{path: "property.fullAddress", value: "  ", code: form.CodeRequired},

		{path: "applicant.applicantDescription", value: "landlord", code: form.CodeInvalidEnum},
		{path: "applicant.applicantDescription", value: "", code: form.CodeInvalidEnum},
		{path: "applicant.boardAuthority", value: "minutes", code: form.CodeInvalidEnum},

		{path: "contact.phone", value: "718-555-0100"},
		{path: "contact.phone", value: "718.555.0100"},
		{path: "contact.phone", value: "7185550100"},
		{path: "contact.phone", value: " 718 555 0100 "},
		{path: "contact.phone", value: "555-0100", code: form.CodePattern},
		{path: "contact.phone", value: "+1 718 555 0100", code: form.CodePattern},
		{path: "contact.phone", value: "", code: form.CodePattern},
		{path: "contact.email", value: "not-an-email", code: form.CodeInvalidEmail},
		{path: "contact.email", value: "", code: form.CodeInvalidEmail},
		{path: "contact.hasRepresentative", value: "maybe", code: form.CodeInvalidEnum},

		{path: "valuation.assessedValue", value: "abc", code: form.CodeInvalidNumber},
		{path: "valuation.assessedValue", value: "", code: form.CodeRequired},

		{path: "hearing.request", value: "video"},
		{path: "hearing.request", value: "carrier_pigeon", code: form.CodeInvalidEnum},

		{path: "propertyDescription.yearOfConstruction", value: ""},
		{path: "propertyDescription.yearOfConstruction", value: "1931"},
		{path: "propertyDescription.yearOfConstruction", value: "c.19"},
		{path: "propertyDescription.yearOfConstruction", value: "150", code: form.CodeOutOfRange},
		{path: "propertyDescription.yearOfConstruction", value: "30000", code: form.CodeOutOfRange},
		{path: "propertyDescription.yearOfConstruction", value: "1850.5", code: form.CodeOutOfRange},
		{path: "propertyDescription.numBaths", value: "1.5"},
		{path: "propertyDescription.numBaths", value: ""},
		{path: "propertyDescription.numBaths", value: "two", code: form.CodeInvalidNumber},
		{path: "propertyDescription.parkingOutdoor", value: "-2", code: form.CodeTooSmall},
		{path: "propertyDescription.basement", value: "partial", code: form.CodeInvalidEnum},

		{path: "nonresidential.wasRented", value: "", code: form.CodeRequired},

		{path: "saleConstruction.refinancedSince2023", value: "", code: form.CodeRequired},
		{path: "saleConstruction.totalCost", value: "-100", code: form.CodeTooSmall},

		{path: "support.sales.2.salesPrice", value: "x", code: form.CodeInvalidNumber},

		{path: "signature.signerName", value: "", code: form.CodeRequired},
		{path: "signature.role", value: "notary", code: form.CodeInvalidEnum},
	}

	for _, tt := range tests {
		t.Run(tt.path+"="+tt.value, func(t *testing.T) {
			r := formtest.Valid()
			require.NoError(t, form.Set(&r, tt.path, tt.value))

			issues := schema.Validate(r).For(tt.path)

			if tt.code == "" {
				assert.Empty(t, issues)
				return
			}
			require.Len(t, issues, 1)
			assert.Equal(t, tt.code, issues[0].Code)
			assert.NotEmpty(t, issues[0].Message)
		})
	}
}

func TestFieldMessages(t *testing.T) {
	tests := []struct {
		path    string
		value   string
		message string
	}{
		{path: "property.block", value: "", message: "Block is required"},
		{path: "property.block", value: "123456", message: "Block must be 1 to 5 digits"},
		{path: "property.fullAddress", value: "Queens", message: "Address must include a ZIP code"},
		{path: "contact.phone", value: "555", message: "Invalid phone number"},
		{path: "valuation.marketValue", value: "", message: "Enter the market value"},
		{path: "valuation.marketValue", value: "-5", message: "Value must be 0 or greater"},
		{path: "support.sales.1.totalDwellingUnits", value: "-1", message: "Dwelling units must be a number 0 or greater"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			r := formtest.Valid()
			require.NoError(t, form.Set(&r, tt.path, tt.value))
			form.Derive(&r)

			issues := schema.Validate(r).For(tt.path)
			require.Len(t, issues, 1)
			assert.Equal(t, tt.message, issues[0].Message)
		})
	}
}
