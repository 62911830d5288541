// Package formtest provides records for tests of packages built on form.
package formtest

import (
	"bytes"
	"testing"

	"github.com/stwalsh4118/tc108/internal/form"
)

// Valid returns a record that passes full validation: an owner-occupied
// one-family house with no representative, no recent sale or work, and
// one comparable sale.
func Valid() form.Record {
	r := form.Defaults()

	r.Property = form.Property{
		Borough:     "3",
		Block:       "1234",
		Lot:         "56",
		FullAddress: "123 Main St, Brooklyn, NY 11201",
	}
	r.Applicant.ApplicantName = "Jane Doe"
	r.Contact = form.Contact{
		ContactName:       "Jane Doe",
		Phone:             "(718) 555-0100",
		MailingAddress:    "123 Main St, Brooklyn, NY 11201",
		Email:             "jane@example.com",
		HasRepresentative: form.No,
	}
	r.Valuation = form.Valuation{
		MarketValue:   "100000",
		AssessedValue: "6000",
	}
	r.Hearing.Request = "paper"
	r.PropertyDescription = form.PropertyDescription{
		NumKitchens:        "1",
		NumBaths:           "2",
		NumBedrooms:        "3",
		YearOfConstruction: "1931",
		PropertyType:       form.PropertyOneFamily,
		Basement:           "finished",
	}
	r.Nonresidential.WasRented = form.No
	r.SaleConstruction = form.SaleConstruction{
		BoughtAfter2023:          form.No,
		SignedContractToSell:     form.No,
		OfferedForSaleNow:        form.No,
		RefinancedSince2023:      form.No,
		ConstructionOrDemolition: form.No,
	}
	r.Support.Sales[0] = form.SaleEntry{
		SaleDate:   "2024-03-01",
		SalesPrice: "95000",
		Address:    "125 Main St",
		BlockLot:   "1234/57",
	}
	r.Signature = form.Signature{
		SignerName: "Jane Doe",
		Role:       form.RoleIndividualApplicant,
	}

	form.Derive(&r)
	return r
}

// JSON encodes r the way an exported record file holds it.
func JSON(t testing.TB, r form.Record) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := form.Encode(&buf, r); err != nil {
		t.Fatalf("encode record: %v", err)
	}
	return buf.Bytes()
}
