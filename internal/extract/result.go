package extract

import (
	"time"

	"ladinglens/internal/domain"
)

// Result is the candidate produced by the deterministic extraction pass.
// A nil field means the corresponding pattern did not match.
type Result struct {
	DocType         domain.DocType
	BLNumber        *string
	ShipperName     *string
	ConsigneeName   *string
	NotifyPartyName *string
	CarrierName     *string
	PortOfLoading   *string
	PortOfDischarge *string
	PlaceOfReceipt  *string
	PlaceOfDelivery *string
	ETD             *time.Time
	ETA             *time.Time
	Containers      []domain.ContainerInfo
	RawTextExcerpt  *string
}

// NullFields returns the names of the fields the deterministic pass failed to
// fill, over the set that matters for the fallback decision.
func (r *Result) NullFields() []string {
	var nulls []string
	if r.DocType == domain.DocTypeUnknown {
		nulls = append(nulls, "doc_type")
	}
	if r.BLNumber == nil {
		nulls = append(nulls, "bl_number")
	}
	if r.ShipperName == nil {
		nulls = append(nulls, "shipper_name")
	}
	if r.ConsigneeName == nil {
		nulls = append(nulls, "consignee_name")
	}
	if r.CarrierName == nil {
		nulls = append(nulls, "carrier_name")
	}
	if r.PortOfLoading == nil {
		nulls = append(nulls, "port_of_loading")
	}
	if r.PortOfDischarge == nil {
		nulls = append(nulls, "port_of_discharge")
	}
	if len(r.Containers) == 0 {
		nulls = append(nulls, "containers")
	}
	return nulls
}

// ToExtraction converts the candidate into the engine's output contract.
func (r *Result) ToExtraction() *domain.DocumentExtraction {
	containers := make(domain.ContainerList, len(r.Containers))
	copy(containers, r.Containers)
	return &domain.DocumentExtraction{
		DocType:         r.DocType,
		BLNumber:        r.BLNumber,
		EmailStatus:     domain.EmailStatusUnknown,
		ShipperName:     r.ShipperName,
		ConsigneeName:   r.ConsigneeName,
		NotifyPartyName: r.NotifyPartyName,
		CarrierName:     r.CarrierName,
		PortOfLoading:   r.PortOfLoading,
		PortOfDischarge: r.PortOfDischarge,
		PlaceOfReceipt:  r.PlaceOfReceipt,
		PlaceOfDelivery: r.PlaceOfDelivery,
		ETD:             r.ETD,
		ETA:             r.ETA,
		Containers:      containers,
		RawTextExcerpt:  r.RawTextExcerpt,
	}
}

// All runs every pattern extractor plus the container resolver over one page
// of markdown text.
func All(markdown string) *Result {
	return &Result{
		DocType:         DocType(markdown),
		BLNumber:        BLNumber(markdown),
		ShipperName:     Shipper(markdown),
		ConsigneeName:   Consignee(markdown),
		NotifyPartyName: NotifyParty(markdown),
		CarrierName:     Carrier(markdown),
		PortOfLoading:   PortOfLoading(markdown),
		PortOfDischarge: PortOfDischarge(markdown),
		PlaceOfReceipt:  PlaceOfReceipt(markdown),
		PlaceOfDelivery: PlaceOfDelivery(markdown),
		ETD:             ETD(markdown),
		ETA:             ETA(markdown),
		Containers:      Containers(markdown),
		RawTextExcerpt:  RawTextExcerpt(markdown),
	}
}
