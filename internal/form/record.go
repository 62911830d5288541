package form

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Section keys of the record, in the order the sections appear on TC108.
const (
	SectionProperty            = "property"
	SectionApplicant           = "applicant"
	SectionContact             = "contact"
	SectionValuation           = "valuation"
	SectionHearing             = "hearing"
	SectionPropertyDescription = "propertyDescription"
	SectionNonresidential      = "nonresidential"
	SectionSaleConstruction    = "saleConstruction"
	SectionSupport             = "support"
	SectionSignature           = "signature"
)

// SaleEntryCount is the fixed number of comparable sales on the form.
const SaleEntryCount = 3

// Enumerated values shared by several sections.
const (
	Yes = "yes"
	No  = "no"
)

// Applicant descriptions.
const (
	ApplicantOwner  = "owner"
	ApplicantTenant = "tenant"
	ApplicantOther  = "other"
)

// Representative types.
const (
	RepresentativeAttorney = "attorney"
	RepresentativeOther    = "other"
)

// Property types.
const (
	PropertyOneFamily   = "one_family"
	PropertyTwoFamily   = "two_family"
	PropertyThreeFamily = "three_family"
	PropertyVacantLot   = "vacant_lot"
	PropertyCondo       = "condo"
	PropertyOther       = "other"
)

// Signer roles.
const (
	RoleIndividualApplicant = "individual_applicant"
	RoleFiduciary           = "fiduciary"
	RoleCorpOfficer         = "corp_officer"
	RoleCondoOfficer        = "condo_officer"
	RoleGeneralPartner      = "general_partner"
	RoleLLCMemberOrOfficer  = "llc_member_or_officer"
	RoleAgentOther          = "agent_other"
)

// Number is the raw text of a numeric input. Blank text means the value
// is absent; anything else is coerced to a float64 when validated.
type Number string

// Float parses the number. ok is false for blank, unparsable or
// non-finite text.
func (n Number) Float() (float64, bool) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsBlank reports whether the input holds no text.
func (n Number) IsBlank() bool {
	return strings.TrimSpace(string(n)) == ""
}

// NumberOf formats f the way a numeric input would hold it.
func NumberOf(f float64) Number {
	return Number(strconv.FormatFloat(f, 'f', -1, 64))
}

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')) && json.Valid(data):
		*n = Number(data)
		return nil
	default:
		return fmt.Errorf("numeric field: expected a number or text, got %s", data)
	}
}

// Record is the complete TC108 form. Each section owns one top-level key.
type Record struct {
	Property            Property            `json:"property"`
	Applicant           Applicant           `json:"applicant"`
	Contact             Contact             `json:"contact"`
	Valuation           Valuation           `json:"valuation"`
	Hearing             Hearing             `json:"hearing"`
	PropertyDescription PropertyDescription `json:"propertyDescription"`
	Nonresidential      Nonresidential      `json:"nonresidential"`
	SaleConstruction    SaleConstruction    `json:"saleConstruction"`
	Support             Support             `json:"support"`
	Signature           Signature           `json:"signature"`
}

// Property identifies the tax lot (part 1).
type Property struct {
	Borough     string `json:"borough" validate:"notblank,oneof=1 2 3 4 5"`
	Block       string `json:"block" validate:"notblank,block"`
	Lot         string `json:"lot" validate:"notblank,lot"`
	FullAddress string `json:"fullAddress" validate:"notblank,zip"`
}

// Applicant describes who files the application (part 2).
type Applicant struct {
	ApplicantName        string `json:"applicantName" validate:"notblank"`
	ApplicantDescription string `json:"applicantDescription" validate:"oneof=owner tenant other"`
	ApplicantOther       string `json:"applicantOther"`
	IsCondoBoardAgent    bool   `json:"isCondoBoardAgent"`
	BoardAuthority       string `json:"boardAuthority" validate:"omitempty,oneof=bylaws individual poa"`
}

// Contact is the person the Tax Commission corresponds with (part 3).
type Contact struct {
	ContactName         string `json:"contactName" validate:"notblank"`
	GroupNumber         string `json:"groupNumber"`
	Phone               string `json:"phone" validate:"nanp"`
	MailingAddress      string `json:"mailingAddress" validate:"notblank"`
	Email               string `json:"email" validate:"email"`
	HasRepresentative   string `json:"hasRepresentative" validate:"oneof=yes no"`
	RepresentativeType  string `json:"representativeType" validate:"omitempty,oneof=attorney other"`
	RepresentativeOther string `json:"representativeOther"`
}

// Valuation is the applicant's claim (part 4). SixPercent is derived from
// MarketValue and is never edited directly.
type Valuation struct {
	MarketValue   Number  `json:"marketValue" validate:"notblank,numtext,nonneg"`
	SixPercent    float64 `json:"sixPercent" validate:"gte=0"`
	AssessedValue Number  `json:"assessedValue" validate:"notblank,numtext,nonneg"`
}

// Hearing is the requested hearing type (part 5).
type Hearing struct {
	Request string `json:"request" validate:"notblank,oneof=paper in_person telephone video"`
}

// PropertyDescription describes the building (part 6).
type PropertyDescription struct {
	NumKitchens             Number `json:"numKitchens" validate:"numtext,nonneg"`
	NumBaths                Number `json:"numBaths" validate:"numtext,nonneg"`
	NumBedrooms             Number `json:"numBedrooms" validate:"numtext,nonneg"`
	NumOtherRooms           Number `json:"numOtherRooms" validate:"numtext,nonneg"`
	NumStoriesAboveBasement Number `json:"numStoriesAboveBasement" validate:"numtext,nonneg"`
	YearOfConstruction      string `json:"yearOfConstruction" validate:"yearbuilt"`
	ParkingIndoor           Number `json:"parkingIndoor" validate:"numtext,nonneg"`
	ParkingOutdoor          Number `json:"parkingOutdoor" validate:"numtext,nonneg"`
	LastAlteration          string `json:"lastAlteration"`
	PropertyType            string `json:"propertyType" validate:"oneof=one_family two_family three_family vacant_lot condo other"`
	OtherDescription        string `json:"otherDescription"`
	ResidentialUnits        Number `json:"residentialUnits" validate:"numtext,nonneg"`
	CommercialUnits         Number `json:"commercialUnits" validate:"numtext,nonneg"`
	Basement                string `json:"basement" validate:"oneof=no unfinished finished"`
}

// Nonresidential covers rental of nonresidential space (part 7).
type Nonresidential struct {
	WasRented string `json:"wasRented" validate:"notblank,oneof=yes no"`
}

// SaleConstruction covers sales, contracts, refinancing and work since
// January 5, 2023 (part 8).
type SaleConstruction struct {
	BoughtAfter2023 string `json:"boughtAfter2023" validate:"notblank,oneof=yes no"`
	SellerName      string `json:"sellerName"`
	ClosingDate     string `json:"closingDate"`
	PurchasePrice   Number `json:"purchasePrice" validate:"numtext,nonneg"`

	SignedContractToSell string `json:"signedContractToSell" validate:"notblank,oneof=yes no"`
	BuyerName            string `json:"buyerName"`
	ContractDate         string `json:"contractDate"`
	ContractPrice        Number `json:"contractPrice" validate:"numtext,nonneg"`

	OfferedForSaleNow string `json:"offeredForSaleNow" validate:"notblank,oneof=yes no"`
	OfferingDetails   string `json:"offeringDetails"`

	RefinancedSince2023 string `json:"refinancedSince2023" validate:"notblank,oneof=yes no"`

	ConstructionOrDemolition string `json:"constructionOrDemolition" validate:"notblank,oneof=yes no"`
	WorkDescription          string `json:"workDescription"`
	WorkStartDate            string `json:"workStartDate"`
	WorkCompleteDate         string `json:"workCompleteDate"`
	TotalCost                Number `json:"totalCost" validate:"numtext,nonneg"`
}

// SaleEntry is one comparable sale offered as evidence of value.
type SaleEntry struct {
	SaleDate           string `json:"saleDate"`
	SalesPrice         Number `json:"salesPrice" validate:"numtext,nonneg"`
	Address            string `json:"address"`
	BlockLot           string `json:"blockLot"`
	TotalDwellingUnits Number `json:"totalDwellingUnits" validate:"numtext,nonneg"`
}

// complete reports whether the entry carries both a date and a price.
func (e SaleEntry) complete() bool {
	_, priced := e.SalesPrice.Float()
	return strings.TrimSpace(e.SaleDate) != "" && priced
}

// Support is the supporting evidence of value (part 9).
type Support struct {
	AttachedProof bool        `json:"attachedProof"`
	Sales         []SaleEntry `json:"sales" validate:"len=3,dive"`
}

// Signature is the certification (part 10).
type Signature struct {
	SignerName            string `json:"signerName" validate:"notblank"`
	Role                  string `json:"role" validate:"oneof=individual_applicant fiduciary corp_officer condo_officer general_partner llc_member_or_officer agent_other"`
	FiduciaryRelationship string `json:"fiduciaryRelationship"`
	EntityName            string `json:"entityName"`
	CorpOfficerTitle      string `json:"corpOfficerTitle"`
	CondoOfficerTitle     string `json:"condoOfficerTitle"`
	LLCSignerTitle        string `json:"llcSignerTitle"`
}

// Defaults returns the blank record a new form starts from.
func Defaults() Record {
	return Record{
		Applicant: Applicant{
			ApplicantDescription: ApplicantOwner,
		},
		Support: Support{
			Sales: make([]SaleEntry, SaleEntryCount),
		},
	}
}

// Clone returns a copy that shares no mutable state with r.
func (r Record) Clone() Record {
	out := r
	if r.Support.Sales != nil {
		out.Support.Sales = make([]SaleEntry, len(r.Support.Sales))
		copy(out.Support.Sales, r.Support.Sales)
	}
	return out
}
