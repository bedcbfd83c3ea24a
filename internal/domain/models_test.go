package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParty_CollapsesToAbsent(t *testing.T) {
	assert.Nil(t, NewParty("", ""))
	assert.NotNil(t, NewParty("ACME", ""))
	assert.NotNil(t, NewParty("", "HAMBURG"))
}

func TestNewPort_CollapsesToAbsent(t *testing.T) {
	assert.Nil(t, NewPort("", "", ""))
	assert.NotNil(t, NewPort("HAMBURG", "", ""))
	assert.NotNil(t, NewPort("", "DEHAM", ""))
}

func TestNewCargo_CollapsesToAbsent(t *testing.T) {
	assert.Nil(t, NewCargo("", "", "", ""))
	assert.NotNil(t, NewCargo("MACHINERY", "", "", ""))
	assert.NotNil(t, NewCargo("", "", "18500", ""))
}

func TestNewContainer_CollapsesToAbsent(t *testing.T) {
	assert.Nil(t, NewContainer("", "", "", ""))
	assert.NotNil(t, NewContainer("MSCU1234567", "", "", ""))
}

func TestNewTransportDetails_CollapsesToAbsent(t *testing.T) {
	assert.Nil(t, NewTransportDetails("", "", "", "", "", ""))
	assert.NotNil(t, NewTransportDetails("MSC OSCAR", "", "", "", "", ""))
	assert.NotNil(t, NewTransportDetails("", "", "", "4501234567", "", ""))
}

func TestExtractionRecord_JSONOmitsAbsentFields(t *testing.T) {
	rec := ExtractionRecord{BLNumber: "MAEU12345678", Confidence: 0.5}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Contains(t, decoded, "bl_number")
	assert.Contains(t, decoded, "extraction_confidence")
	assert.NotContains(t, decoded, "shipper")
	assert.NotContains(t, decoded, "containers")
}

func TestStructuredHint_CompleteSections(t *testing.T) {
	assert.Equal(t, 0, (&StructuredHint{}).CompleteSections())
	assert.Equal(t, 1, (&StructuredHint{Header: []string{"x"}}).CompleteSections())
	assert.Equal(t, 2, (&StructuredHint{Header: []string{"x"}, Ports: []string{"y"}}).CompleteSections())
	assert.Equal(t, 3, (&StructuredHint{
		Header:  []string{"x"},
		Parties: []string{"y"},
		Ports:   []string{"z"},
	}).CompleteSections())

	// Cargo and transport fragments do not count toward the gate.
	assert.Equal(t, 0, (&StructuredHint{
		CargoInfo: []string{"x"},
		Transport: []string{"y"},
		Other:     []string{"z"},
	}).CompleteSections())
}

func TestStructuredHint_Empty(t *testing.T) {
	assert.True(t, (&StructuredHint{}).Empty())
	assert.False(t, (&StructuredHint{Other: []string{"x"}}).Empty())
}
