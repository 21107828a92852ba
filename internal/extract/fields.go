package extract

import (
	"regexp"
	"strings"
	"time"

	"ladinglens/internal/domain"
)

var (
	hblRefRe = regexp.MustCompile(`\bHBL-\d+`)
	mblRefRe = regexp.MustCompile(`\bMBL-\d+`)

	blTokenRe   = regexp.MustCompile(`\b([HM]BL-\d+)\b`)
	blLabeledRe = regexp.MustCompile(`(?i)B/L\s*(?:NO\.?|NUMBER)[:\s]*\n*([A-Z0-9-]+)`)

	shipperRe     = regexp.MustCompile(`\*\*SHIPPER\*\*\s*\n(?:Shipper:?\s*\n)?([^\n*]+)`)
	consigneeRe   = regexp.MustCompile(`\*\*CONSIGNEE\*\*\s*\n(?:Consignee:?\s*\n)?([^\n*]+)`)
	notifyPartyRe = regexp.MustCompile(`\*\*NOTIFY PARTY\*\*\s*\n(?:Notify Party:?\s*\n)?([^\n*]+)`)

	carrierRe = regexp.MustCompile(`Carrier:\s*\|?\s*([A-Za-z][^\n|]+)`)

	portOfLoadingRe   = regexp.MustCompile(`\*\*PORT OF LOADING\*\*\s*\n([^\n*]+)`)
	portOfDischargeRe = regexp.MustCompile(`\*\*PORT OF DISCHARGE\*\*\s*\n([^\n*]+)`)
	placeOfReceiptRe  = regexp.MustCompile(`\*\*PLACE OF RECEIPT\*\*\s*\n([^\n*]+)`)
	placeOfDeliveryRe = regexp.MustCompile(`\*\*PLACE OF DELIVERY\*\*\s*\n([^\n*]+)`)

	etdRe = regexp.MustCompile(`ETD:\s*([^\n]+)`)
	etaRe = regexp.MustCompile(`ETA:\s*([^\n]+)`)
)

// DocType classifies the Bill of Lading variant from headings, falling back
// to the reference number prefix. Headings win.
func DocType(markdown string) domain.DocType {
	upper := strings.ToUpper(markdown)

	if strings.Contains(upper, "HOUSE BILL OF LADING") {
		return domain.DocTypeHBL
	}
	if strings.Contains(upper, "MASTER BILL OF LADING") {
		return domain.DocTypeMBL
	}
	if hblRefRe.MatchString(markdown) {
		return domain.DocTypeHBL
	}
	if mblRefRe.MatchString(markdown) {
		return domain.DocTypeMBL
	}

	return domain.DocTypeUnknown
}

// BLNumber prefers an HBL-/MBL- token, then a labeled "B/L NO." field.
func BLNumber(markdown string) *string {
	if m := blTokenRe.FindStringSubmatch(markdown); m != nil {
		return strptr(m[1])
	}
	if m := blLabeledRe.FindStringSubmatch(markdown); m != nil {
		return strptr(strings.TrimSpace(m[1]))
	}
	return nil
}

// Shipper captures the first line after the **SHIPPER** heading.
func Shipper(markdown string) *string {
	return partyName(shipperRe, markdown, "shipper:")
}

// Consignee captures the first line after the **CONSIGNEE** heading.
func Consignee(markdown string) *string {
	return partyName(consigneeRe, markdown, "consignee:")
}

// NotifyParty captures the first line after the **NOTIFY PARTY** heading.
func NotifyParty(markdown string) *string {
	return partyName(notifyPartyRe, markdown, "notify party:")
}

// partyName applies the shared party capture rules: drop captures that are
// just the repeated label or too short to be a name, then keep only the
// portion before the first comma (the address tail is noise downstream).
func partyName(re *regexp.Regexp, markdown, label string) *string {
	m := re.FindStringSubmatch(markdown)
	if m == nil {
		return nil
	}
	name := strings.TrimSpace(m[1])
	if name == "" || strings.ToLower(name) == label || len(name) <= 2 {
		return nil
	}
	if i := strings.Index(name, ","); i != -1 {
		name = strings.TrimSpace(name[:i])
	}
	if name == "" {
		return nil
	}
	return strptr(name)
}

// Carrier looks for a "Carrier:" label followed by a table cell value.
func Carrier(markdown string) *string {
	m := carrierRe.FindStringSubmatch(markdown)
	if m == nil {
		return nil
	}
	carrier := strings.TrimSpace(m[1])
	carrier = strings.TrimRight(carrier, "| \t")
	if i := strings.Index(carrier, ","); i != -1 {
		carrier = strings.TrimSpace(carrier[:i])
	}
	if carrier == "" {
		return nil
	}
	return strptr(carrier)
}

// PortOfLoading captures the line after the heading, rejecting misaligned
// captures that are actually the ETD line.
func PortOfLoading(markdown string) *string {
	m := portOfLoadingRe.FindStringSubmatch(markdown)
	if m == nil {
		return nil
	}
	port := strings.TrimSpace(m[1])
	if port == "" || strings.HasPrefix(strings.ToUpper(port), "ETD") {
		return nil
	}
	return strptr(port)
}

// PortOfDischarge captures the line after the heading, rejecting ETA lines.
func PortOfDischarge(markdown string) *string {
	m := portOfDischargeRe.FindStringSubmatch(markdown)
	if m == nil {
		return nil
	}
	port := strings.TrimSpace(m[1])
	if port == "" || strings.HasPrefix(strings.ToUpper(port), "ETA") {
		return nil
	}
	return strptr(port)
}

// PlaceOfReceipt captures the line after the **PLACE OF RECEIPT** heading.
func PlaceOfReceipt(markdown string) *string {
	if m := placeOfReceiptRe.FindStringSubmatch(markdown); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			return strptr(v)
		}
	}
	return nil
}

// PlaceOfDelivery captures the line after the **PLACE OF DELIVERY** heading.
func PlaceOfDelivery(markdown string) *string {
	if m := placeOfDeliveryRe.FindStringSubmatch(markdown); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			return strptr(v)
		}
	}
	return nil
}

// dateLayouts is the ordered list of accepted date formats; first parse wins.
var dateLayouts = []string{
	"02-Jan-2006", // 02-Jan-2026
	"2006-01-02",  // 2026-01-02
	"02/01/2006",  // 02/01/2026
	"01/02/2006",  // 01/02/2026
}

// ParseDate tries each accepted layout in order. Unparseable input yields nil,
// never a partially-wrong value.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ETD extracts the estimated time of departure.
func ETD(markdown string) *time.Time {
	if m := etdRe.FindStringSubmatch(markdown); m != nil {
		return ParseDate(m[1])
	}
	return nil
}

// ETA extracts the estimated time of arrival.
func ETA(markdown string) *time.Time {
	if m := etaRe.FindStringSubmatch(markdown); m != nil {
		return ParseDate(m[1])
	}
	return nil
}

func strptr(s string) *string {
	return &s
}
