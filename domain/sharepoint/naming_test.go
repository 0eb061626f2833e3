package sharepoint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelCaseNamer(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "title", expected: "Title"},
		{input: "due_date", expected: "DueDate"},
		{input: "assigned_to_user", expected: "AssignedToUser"},
		{input: "Title", expected: "Title"},
		{input: "percent_Complete", expected: "PercentComplete"},
		{input: "leading__double", expected: "LeadingDouble"},
		{input: "_hidden", expected: "Hidden"},
		{input: "élan_vital", expected: "ÉlanVital"},
		{input: "", expected: ""},
	}

	namer := CamelCaseNamer{}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, namer.FieldName(tt.input))
		})
	}
}

func TestIdentityNamer(t *testing.T) {
	assert.Equal(t, "due_date", IdentityNamer.FieldName("due_date"))
}

func TestFieldNamerFunc(t *testing.T) {
	namer := FieldNamerFunc(strings.ToUpper)
	assert.Equal(t, "DUE_DATE", namer.FieldName("due_date"))
}
