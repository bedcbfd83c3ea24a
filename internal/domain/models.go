package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExtractionRecord is the structured result of extracting a single shipping
// document. It is created fresh per request and populated by exactly one
// winning strategy; it is never mutated after being returned.
type ExtractionRecord struct {
	// Reference numbers
	BLNumber      string `json:"bl_number,omitempty"`
	BookingNumber string `json:"booking_number,omitempty"`

	// Parties
	Shipper     *Party `json:"shipper,omitempty"`
	Consignee   *Party `json:"consignee,omitempty"`
	NotifyParty *Party `json:"notify_party,omitempty"`

	// Ports
	PortOfLoading   *Port `json:"port_of_loading,omitempty"`
	PortOfDischarge *Port `json:"port_of_discharge,omitempty"`
	PortOfDelivery  *Port `json:"port_of_delivery,omitempty"`

	// Transport
	Transport *TransportDetails `json:"transport_details,omitempty"`

	// Goods
	Cargo      []Cargo     `json:"cargo,omitempty"`
	Containers []Container `json:"containers,omitempty"`

	// Terms
	FreightTerms string `json:"freight_terms,omitempty"`
	IssueDate    string `json:"issue_date,omitempty"`

	// Extraction metadata
	Confidence float64 `json:"extraction_confidence"`
	Method     string  `json:"extraction_method,omitempty"`
	RawText    string  `json:"raw_text,omitempty"`
}

// Party is one of the parties named on a bill of lading (shipper, consignee,
// notify party).
type Party struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// NewParty returns a Party, or nil when both fields are empty. A party with no
// name and no address is absent, not an empty object; presence counting in
// the scorer depends on this.
func NewParty(name, address string) *Party {
	if name == "" && address == "" {
		return nil
	}
	return &Party{Name: name, Address: address}
}

// Port is a port of loading, discharge, or delivery.
type Port struct {
	Name    string `json:"name,omitempty"`
	Code    string `json:"code,omitempty"`
	Country string `json:"country,omitempty"`
}

// NewPort returns a Port, or nil when all fields are empty.
func NewPort(name, code, country string) *Port {
	if name == "" && code == "" && country == "" {
		return nil
	}
	return &Port{Name: name, Code: code, Country: country}
}

// Cargo is a single goods line on the document.
type Cargo struct {
	Description string `json:"description,omitempty"`
	Quantity    string `json:"quantity,omitempty"`
	Weight      string `json:"weight,omitempty"`
	Volume      string `json:"volume,omitempty"`
}

// NewCargo returns a Cargo, or nil when all fields are empty.
func NewCargo(description, quantity, weight, volume string) *Cargo {
	if description == "" && quantity == "" && weight == "" && volume == "" {
		return nil
	}
	return &Cargo{Description: description, Quantity: quantity, Weight: weight, Volume: volume}
}

// Container is a single container listed on the document.
type Container struct {
	Number     string `json:"number,omitempty"`
	Size       string `json:"size,omitempty"`
	Type       string `json:"type,omitempty"`
	SealNumber string `json:"seal_number,omitempty"`
}

// NewContainer returns a Container, or nil when all fields are empty.
func NewContainer(number, size, containerType, sealNumber string) *Container {
	if number == "" && size == "" && containerType == "" && sealNumber == "" {
		return nil
	}
	return &Container{Number: number, Size: size, Type: containerType, SealNumber: sealNumber}
}

// TransportDetails holds vessel and voyage information.
type TransportDetails struct {
	VesselName    string `json:"vessel_name,omitempty"`
	VoyageNumber  string `json:"voyage_number,omitempty"`
	BLNumber      string `json:"bl_number,omitempty"`
	BookingNumber string `json:"booking_number,omitempty"`
	DepartureDate string `json:"departure_date,omitempty"`
	ArrivalDate   string `json:"arrival_date,omitempty"`
}

// NewTransportDetails returns TransportDetails, or nil when all fields are empty.
func NewTransportDetails(vessel, voyage, blNumber, bookingNumber, departure, arrival string) *TransportDetails {
	if vessel == "" && voyage == "" && blNumber == "" && bookingNumber == "" && departure == "" && arrival == "" {
		return nil
	}
	return &TransportDetails{
		VesselName:    vessel,
		VoyageNumber:  voyage,
		BLNumber:      blNumber,
		BookingNumber: bookingNumber,
		DepartureDate: departure,
		ArrivalDate:   arrival,
	}
}

// Extraction is a persisted extraction-history row. The full record is stored
// as JSON; the flat columns carry the fields used for listing and export.
type Extraction struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	FileName   string          `db:"file_name" json:"file_name"`
	FileType   FileType        `db:"file_type" json:"file_type"`
	FileSize   int64           `db:"file_size" json:"file_size"`
	S3Bucket   string          `db:"s3_bucket" json:"-"`
	S3Key      string          `db:"s3_key" json:"-"`
	Method     string          `db:"method" json:"method"`
	Confidence float64         `db:"confidence" json:"confidence"`
	Record     json.RawMessage `db:"record" json:"record"`
	RawText    string          `db:"raw_text" json:"-"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
