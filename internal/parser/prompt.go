package parser

// MaxInputChars caps the page text sent to a model provider. Bill of Lading
// pages render well under this, so anything longer is boilerplate tail.
const MaxInputChars = 15000

// BuildShipmentPrompt returns the extraction prompt for one page of
// markdown-rendered shipping document text.
func BuildShipmentPrompt(pageText string) string {
	return `You are a shipping document data extraction assistant. The text below is one page of a shipping document (a House or Master Bill of Lading, a booking confirmation, or a pre-alert email body) rendered as markdown.

IMPORTANT INSTRUCTIONS:
- Classify the document: "hbl" for a House Bill of Lading, "mbl" for a Master Bill of Lading, "unknown" if neither applies.
- Extract every container number you can find. Container numbers are four letters followed by seven digits (e.g. MSKU1234567).
- Weights are gross weights in kilograms. Volumes are in cubic meters. Use numbers, not strings.
- Dates must be in YYYY-MM-DD format. If only a partial or ambiguous date is present, omit the field.
- Party names are the company name only. Drop the address lines that follow.
- If a field is not present on this page, use null. Never invent values.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation.

The JSON object must follow this schema:
{
  "doc_type": "hbl",
  "bl_number": "",
  "shipper_name": "",
  "consignee_name": "",
  "notify_party_name": "",
  "carrier_name": "",
  "port_of_loading": "",
  "port_of_discharge": "",
  "place_of_receipt": "",
  "place_of_delivery": "",
  "etd": "",
  "eta": "",
  "legal_excerpt": "",
  "containers": [
    {"number": "", "weight_kg": 0, "volume_cbm": 0}
  ]
}

Document page:
---
` + Truncate(pageText, MaxInputChars)
}

// Truncate cuts s to at most maxLen bytes with an ellipsis marker.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
