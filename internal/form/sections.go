package form

// propertySchema identifies the tax lot. Format checks only.
func propertySchema(fv *fieldValidator) *SectionSchema[Property] {
	return newSectionSchema[Property](fv, SectionProperty, nil, map[string]string{
		"borough":         "Select a borough",
		"block":           "Block must be 1 to 5 digits",
		"block.notblank":  "Block is required",
		"lot":             "Lot must be 1 to 4 digits",
		"lot.notblank":    "Lot is required",
		"fullAddress":     "Full address is required",
		"fullAddress.zip": "Address must include a ZIP code",
	})
}

func applicantSchema(fv *fieldValidator) *SectionSchema[Applicant] {
	rules := []Rule{
		{
			When:     When("applicantDescription", ApplicantOther),
			Field:    "applicantOther",
			Presence: Blank,
			Message:  "Specify applicant when Other is selected",
		},
		{
			When:     When("isCondoBoardAgent", true),
			Field:    "boardAuthority",
			Presence: Unselected,
			Message:  "Select the source of Board's authority",
		},
	}
	return newSectionSchema[Applicant](fv, SectionApplicant, rules, map[string]string{
		"applicantName":        "Applicant's name is required",
		"applicantDescription": "Select owner, tenant or other",
		"boardAuthority":       "Select bylaws, individual or power of attorney",
	})
}

func contactSchema(fv *fieldValidator) *SectionSchema[Contact] {
	rules := []Rule{
		{
			When:     When("hasRepresentative", Yes),
			Field:    "representativeType",
			Presence: Unselected,
			Message:  "Select representative type",
		},
		{
			When: []Condition{
				{Field: "hasRepresentative", Equals: Yes},
				{Field: "representativeType", Equals: RepresentativeOther},
			},
			Field:    "representativeOther",
			Presence: Blank,
			Message:  "Specify the type of representative",
		},
	}
	return newSectionSchema[Contact](fv, SectionContact, rules, map[string]string{
		"contactName":       "Contact name is required",
		"phone":             "Invalid phone number",
		"mailingAddress":    "Mailing address is required",
		"email":             "Invalid email address",
		"hasRepresentative": "Select yes or no",
	})
}

// valuationSchema also enforces line c >= line b.
func valuationSchema(fv *fieldValidator) *SectionSchema[Valuation] {
	return newSectionSchema[Valuation](fv, SectionValuation, nil, map[string]string{
		"marketValue":            "Value must be 0 or greater",
		"marketValue.notblank":   "Enter the market value",
		"sixPercent":             "Value must be 0 or greater",
		"assessedValue":          "Value must be 0 or greater",
		"assessedValue.notblank": "Enter the assessed value",
	}, assessedNotBelowSixPercent)
}

func assessedNotBelowSixPercent(v *Valuation) []Issue {
	assessed, ok := v.AssessedValue.Float()
	if !ok || assessed >= v.SixPercent {
		return nil
	}
	return []Issue{{
		Path:    "assessedValue",
		Code:    CodeBusinessRule,
		Message: "Line c must be greater than or equal to line b (0.06 × a)",
	}}
}

func hearingSchema(fv *fieldValidator) *SectionSchema[Hearing] {
	return newSectionSchema[Hearing](fv, SectionHearing, nil, map[string]string{
		"request": "Select one hearing option",
	})
}

func propertyDescriptionSchema(fv *fieldValidator) *SectionSchema[PropertyDescription] {
	rules := []Rule{
		{
			When:     When("propertyType", PropertyOther),
			Field:    "otherDescription",
			Presence: Blank,
			Message:  "Describe other property type",
		},
		{
			When:     When("propertyType", PropertyOther),
			Field:    "residentialUnits",
			Presence: Unset,
			Message:  "Enter number of residential units",
		},
		{
			When:     When("propertyType", PropertyOther),
			Field:    "commercialUnits",
			Presence: Unset,
			Message:  "Enter number of commercial units",
		},
	}
	return newSectionSchema[PropertyDescription](fv, SectionPropertyDescription, rules, map[string]string{
		"yearOfConstruction": "Enter a 4-digit year between 1700 and 3000",
		"propertyType":       "Select a property type",
		"basement":           "Select a basement option",
	})
}

func nonresidentialSchema(fv *fieldValidator) *SectionSchema[Nonresidential] {
	return newSectionSchema[Nonresidential](fv, SectionNonresidential, nil, map[string]string{
		"wasRented": "Select yes or no",
	})
}

func saleConstructionSchema(fv *fieldValidator) *SectionSchema[SaleConstruction] {
	rules := []Rule{
		{When: When("boughtAfter2023", Yes), Field: "sellerName", Presence: Blank, Message: "Enter seller's name"},
		{When: When("boughtAfter2023", Yes), Field: "closingDate", Presence: Blank, Message: "Enter closing date"},
		{When: When("boughtAfter2023", Yes), Field: "purchasePrice", Presence: Unset, Message: "Enter price"},

		{When: When("signedContractToSell", Yes), Field: "buyerName", Presence: Blank, Message: "Enter buyer's name"},
		{When: When("signedContractToSell", Yes), Field: "contractDate", Presence: Blank, Message: "Enter contract date"},
		{When: When("signedContractToSell", Yes), Field: "contractPrice", Presence: Unset, Message: "Enter price"},

		{When: When("offeredForSaleNow", Yes), Field: "offeringDetails", Presence: Blank, Message: "Enter offering details and asking price"},

		{When: When("refinancedSince2023", Yes), Field: "refinanceNotice", Presence: Display},

		{When: When("constructionOrDemolition", Yes), Field: "workDescription", Presence: Blank, Message: "Describe the work"},
		{When: When("constructionOrDemolition", Yes), Field: "workStartDate", Presence: Blank, Message: "Enter start date"},
		{When: When("constructionOrDemolition", Yes), Field: "workCompleteDate", Presence: Blank, Message: "Enter completion date"},
		{When: When("constructionOrDemolition", Yes), Field: "totalCost", Presence: Unset, Message: "Enter total cost"},
	}
	return newSectionSchema[SaleConstruction](fv, SectionSaleConstruction, rules, map[string]string{
		"boughtAfter2023":          "Select yes or no",
		"signedContractToSell":     "Select yes or no",
		"offeredForSaleNow":        "Select yes or no",
		"refinancedSince2023":      "Select yes or no",
		"constructionOrDemolition": "Select yes or no",
	})
}

// supportSchema requires one complete comparable sale unless proof of
// value is attached.
func supportSchema(fv *fieldValidator) *SectionSchema[Support] {
	return newSectionSchema[Support](fv, SectionSupport, nil, map[string]string{
		"sales":                    "Provide exactly 3 sale entries",
		"sales.salesPrice":         "Sales price must be a number 0 or greater",
		"sales.totalDwellingUnits": "Dwelling units must be a number 0 or greater",
	}, comparableSaleOrProof)
}

func comparableSaleOrProof(v *Support) []Issue {
	if v.AttachedProof {
		return nil
	}
	for _, sale := range v.Sales {
		if sale.complete() {
			return nil
		}
	}
	return []Issue{{
		Path:    "sales",
		Code:    CodeAggregateViolation,
		Message: "Provide at least one sale with date and price or check the attachment box.",
	}}
}

func signatureSchema(fv *fieldValidator) *SectionSchema[Signature] {
	rules := []Rule{
		{When: When("role", RoleFiduciary), Field: "fiduciaryRelationship", Presence: Blank, Message: "Specify fiduciary's relationship to Applicant"},
		{When: When("role", RoleFiduciary), Field: "entityName", Presence: Display},
		{When: When("role", RoleCorpOfficer), Field: "corpOfficerTitle", Presence: Blank, Message: "Enter corporate officer title"},
		{When: When("role", RoleCondoOfficer), Field: "condoOfficerTitle", Presence: Blank, Message: "Enter condominium board title"},
		{When: When("role", RoleLLCMemberOrOfficer), Field: "llcSignerTitle", Presence: Blank, Message: "Enter signer's title"},
	}
	return newSectionSchema[Signature](fv, SectionSignature, rules, map[string]string{
		"signerName": "Enter the name of the person signing",
		"role":       "Select the signer's role",
	})
}
