package pattern

import "regexp"

// Field keys for the rule table.
const (
	fieldBLNumber        = "bl_number"
	fieldBookingNumber   = "booking_number"
	fieldContainerNumber = "container_number"
	fieldVesselName      = "vessel_name"
	fieldVoyageNumber    = "voyage_number"
	fieldPortOfLoading   = "port_of_loading"
	fieldPortOfDischarge = "port_of_discharge"
	fieldShipper         = "shipper"
	fieldConsignee       = "consignee"
	fieldNotifyParty     = "notify_party"
	fieldCargoDesc       = "cargo_description"
	fieldFreightTerms    = "freight_terms"
	fieldIssueDate       = "issue_date"
	fieldWeight          = "weight"
	fieldVolume          = "volume"
)

// fieldPatterns maps each field to its ordered rule list. The first rule that
// matches anywhere in the normalized text wins for that field; later rules are
// not tried. Rule order encodes label priority: primary English labels first,
// then abbreviations and French synonyms. French labels are unaccented because
// normalization strips accented characters before matching.
//
// All patterns assume normalized input: uppercase, single-spaced, restricted
// to the normalization allow-list.
var fieldPatterns = map[string][]*regexp.Regexp{
	fieldBLNumber: {
		regexp.MustCompile(`(?:B/L|BL|BILL OF LADING)[\s\w]*:?\s*([A-Z0-9]{8,20})`),
		regexp.MustCompile(`(?:BILL OF LADING|BL)\s*(?:NO|NUMBER|#):?\s*([A-Z0-9]{8,20})`),
		regexp.MustCompile(`(?:CONNAISSEMENT|CONNAISSANCE)[\s\w]*:?\s*([A-Z0-9]{8,20})`),
	},
	fieldBookingNumber: {
		regexp.MustCompile(`(?:BOOKING|RESERVATION)[\s\w]*:?\s*([A-Z0-9]{8,20})`),
		regexp.MustCompile(`(?:BOOKING|BKG)\s*(?:NO|NUMBER|#):?\s*([A-Z0-9]{8,20})`),
	},
	fieldContainerNumber: {
		regexp.MustCompile(`(?:CONTAINER|CONTENEUR)[\s\w]*:?\s*([A-Z]{4}[0-9]{7})`),
		regexp.MustCompile(`(?:CNTR|CTR)\s*(?:NO|NUMBER|#):?\s*([A-Z]{4}[0-9]{7})`),
	},
	fieldVesselName: {
		regexp.MustCompile(`(?:VESSEL|NAVIRE|SHIP)[\s\w]*:?\s*([A-Z\s]{3,30})`),
		regexp.MustCompile(`(?:VESSEL|NAVIRE)\s*(?:NAME|NOM):?\s*([A-Z\s]{3,30})`),
	},
	fieldVoyageNumber: {
		regexp.MustCompile(`(?:VOYAGE|VOY)[\s\w]*:?\s*([A-Z0-9]{3,15})`),
		regexp.MustCompile(`(?:VOYAGE|VOY)\s*(?:NO|NUMBER|#):?\s*([A-Z0-9]{3,15})`),
	},
	fieldPortOfLoading: {
		regexp.MustCompile(`(?:PORT OF LOADING|POL|PORT DE CHARGEMENT)[\s\w]*:?\s*([A-Z\s,]{5,40})`),
		regexp.MustCompile(`(?:LOADED ON BOARD|CHARGE A BORD)[\s\w]*:?\s*([A-Z\s,]{5,40})`),
	},
	fieldPortOfDischarge: {
		regexp.MustCompile(`(?:PORT OF DISCHARGE|POD|PORT DE DECHARGEMENT)[\s\w]*:?\s*([A-Z\s,]{5,40})`),
		regexp.MustCompile(`(?:DISCHARGE|DECHARGEMENT)[\s\w]*:?\s*([A-Z\s,]{5,40})`),
	},
	fieldShipper: {
		regexp.MustCompile(`(?:SHIPPER|EXPEDITEUR|CHARGEUR)[\s\w]*:?\s*([A-Z0-9\s,.\-/]{10,100})`),
		regexp.MustCompile(`(?:SHIPPER|EXPEDITEUR)\s*:?\s*([A-Z0-9\s,.\-/]{10,100})`),
	},
	fieldConsignee: {
		regexp.MustCompile(`(?:CONSIGNEE|DESTINATAIRE|RECEPTIONNAIRE)[\s\w]*:?\s*([A-Z0-9\s,.\-/]{10,100})`),
		regexp.MustCompile(`(?:CONSIGNEE|DESTINATAIRE)\s*:?\s*([A-Z0-9\s,.\-/]{10,100})`),
	},
	fieldNotifyParty: {
		regexp.MustCompile(`(?:NOTIFY|NOTIFIER|PARTIE A NOTIFIER)[\s\w]*:?\s*([A-Z0-9\s,.\-/]{10,100})`),
		regexp.MustCompile(`(?:NOTIFY PARTY|PARTIE A NOTIFIER)\s*:?\s*([A-Z0-9\s,.\-/]{10,100})`),
	},
	fieldCargoDesc: {
		regexp.MustCompile(`(?:DESCRIPTION|GOODS|MARCHANDISES)[\s\w]*:?\s*([A-Z0-9\s,.\-]{10,200})`),
		regexp.MustCompile(`(?:COMMODITY|PRODUIT)[\s\w]*:?\s*([A-Z0-9\s,.\-]{10,200})`),
	},
	fieldFreightTerms: {
		regexp.MustCompile(`(?:FREIGHT|FRET|PAYABLE)[\s\w]*:?\s*(PREPAID|COLLECT|PAYABLE|PREPAYE)`),
		regexp.MustCompile(`(?:FREIGHT PAYABLE|FRET PAYABLE)\s*:?\s*(PREPAID|COLLECT|PAYABLE|PREPAYE)`),
	},
	fieldIssueDate: {
		regexp.MustCompile(`(?:ISSUE|EMISSION|DATE)[\s\w]*:?\s*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
		regexp.MustCompile(`(?:ISSUED|EMIS)\s*:?\s*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
	},
	fieldWeight: {
		regexp.MustCompile(`(?:WEIGHT|POIDS)[\s\w]*:?\s*(\d+(?:\.\d+)?)\s*(?:KG|LB|MT|T)`),
		regexp.MustCompile(`(?:GROSS|BRUT)\s*(?:WEIGHT|POIDS)\s*:?\s*(\d+(?:\.\d+)?)\s*(?:KG|LB|MT|T)`),
	},
	fieldVolume: {
		regexp.MustCompile(`(?:VOLUME|CBM|M3)[\s\w]*:?\s*(\d+(?:\.\d+)?)\s*(?:CBM|M3)`),
		regexp.MustCompile(`(?:MEASUREMENT|MESURE)\s*:?\s*(\d+(?:\.\d+)?)\s*(?:CBM|M3)`),
	},
}
