package spclient

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listNotFoundFault = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <soap:Fault>
      <faultcode>soap:Server</faultcode>
      <faultstring>Exception of type 'Microsoft.SharePoint.SoapServer.SoapServerException' was thrown.</faultstring>
      <detail>
        <errorstring xmlns="http://schemas.microsoft.com/sharepoint/soap/">List does not exist.</errorstring>
        <errorcode xmlns="http://schemas.microsoft.com/sharepoint/soap/">0x82000006</errorcode>
      </detail>
    </soap:Fault>
  </soap:Body>
</soap:Envelope>`

func TestParseFault(t *testing.T) {
	t.Run("sharepoint_fault", func(t *testing.T) {
		fault, ok := parseFault([]byte(listNotFoundFault))
		require.True(t, ok)
		assert.Equal(t, "soap:Server", fault.Code)
		assert.Equal(t, "List does not exist.", fault.ErrorString)
		assert.Equal(t, "0x82000006", fault.ErrorCode)
		assert.Contains(t, fault.Message, "SoapServerException")
	})

	t.Run("no_fault", func(t *testing.T) {
		_, ok := parseFault([]byte(getListItemsResponse))
		assert.False(t, ok)
	})

	t.Run("not_xml", func(t *testing.T) {
		_, ok := parseFault([]byte("<html><body>Service Unavailable"))
		assert.False(t, ok)
	})
}

func TestFaultError_Error(t *testing.T) {
	tests := []struct {
		name     string
		fault    *FaultError
		expected string
	}{
		{
			name:     "sharepoint_detail_preferred",
			fault:    &FaultError{StatusCode: 500, Code: "soap:Server", Message: "Exception", ErrorString: "List does not exist.", ErrorCode: "0x82000006"},
			expected: "sharepoint fault (status 500): soap:Server: List does not exist. [0x82000006]",
		},
		{
			name:     "status_only",
			fault:    &FaultError{StatusCode: 503, Message: "503 Service Unavailable"},
			expected: "sharepoint fault (status 503): 503 Service Unavailable",
		},
		{
			name:     "transport_error",
			fault:    &FaultError{Err: errors.New("connection reset")},
			expected: "sharepoint fault: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.fault.Error())
		})
	}
}

func TestFaultError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := fmt.Errorf("get list items %q: %w", "Tasks", &FaultError{StatusCode: 500, Err: inner})

	var fault *FaultError
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, 500, fault.StatusCode)
	assert.ErrorIs(t, err, inner)
}
