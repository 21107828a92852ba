package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"ladinglens/internal/domain"
	"ladinglens/internal/extract"
)

// wireExtraction is the lenient shape models actually return: dates arrive as
// strings and optional fields as null.
type wireExtraction struct {
	DocType         string  `json:"doc_type"`
	BLNumber        *string `json:"bl_number"`
	ShipperName     *string `json:"shipper_name"`
	ConsigneeName   *string `json:"consignee_name"`
	NotifyPartyName *string `json:"notify_party_name"`
	CarrierName     *string `json:"carrier_name"`
	PortOfLoading   *string `json:"port_of_loading"`
	PortOfDischarge *string `json:"port_of_discharge"`
	PlaceOfReceipt  *string `json:"place_of_receipt"`
	PlaceOfDelivery *string `json:"place_of_delivery"`
	ETD             *string `json:"etd"`
	ETA             *string `json:"eta"`
	LegalExcerpt    *string `json:"legal_excerpt"`
	Containers      []struct {
		Number    string   `json:"number"`
		WeightKG  *float64 `json:"weight_kg"`
		VolumeCBM *float64 `json:"volume_cbm"`
	} `json:"containers"`
}

// DecodeExtraction validates a model's raw JSON output against the extraction
// schema and converts it into a DocumentExtraction. Unparseable dates and
// empty strings decode to nil rather than failing the whole result.
func DecodeExtraction(raw []byte) (*domain.DocumentExtraction, error) {
	if err := ValidateExtractionJSON(raw); err != nil {
		return nil, err
	}

	var wire wireExtraction
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decoding extraction json: %w", err)
	}

	out := &domain.DocumentExtraction{
		DocType:         domain.DocType(wire.DocType),
		BLNumber:        cleanString(wire.BLNumber),
		EmailStatus:     domain.EmailStatusUnknown,
		ShipperName:     cleanString(wire.ShipperName),
		ConsigneeName:   cleanString(wire.ConsigneeName),
		NotifyPartyName: cleanString(wire.NotifyPartyName),
		CarrierName:     cleanString(wire.CarrierName),
		PortOfLoading:   cleanString(wire.PortOfLoading),
		PortOfDischarge: cleanString(wire.PortOfDischarge),
		PlaceOfReceipt:  cleanString(wire.PlaceOfReceipt),
		PlaceOfDelivery: cleanString(wire.PlaceOfDelivery),
		RawTextExcerpt:  cleanString(wire.LegalExcerpt),
		Containers:      domain.ContainerList{},
	}

	switch out.DocType {
	case domain.DocTypeHBL, domain.DocTypeMBL, domain.DocTypeUnknown:
	default:
		out.DocType = domain.DocTypeUnknown
	}

	if wire.ETD != nil {
		out.ETD = extract.ParseDate(*wire.ETD)
	}
	if wire.ETA != nil {
		out.ETA = extract.ParseDate(*wire.ETA)
	}

	for _, c := range wire.Containers {
		number := strings.ToUpper(strings.TrimSpace(c.Number))
		if number == "" {
			continue
		}
		out.Containers = append(out.Containers, domain.ContainerInfo{
			Number: number,
			Weight: c.WeightKG,
			Volume: c.VolumeCBM,
		})
	}

	return out, nil
}

func cleanString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
