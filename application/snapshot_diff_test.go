package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"spws/domain/sharepoint"
)

func item(fields ...string) sharepoint.ListItem {
	var fs sharepoint.FieldSet
	for i := 0; i+1 < len(fields); i += 2 {
		fs = append(fs, sharepoint.Field{Name: fields[i], Value: fields[i+1]})
	}
	return sharepoint.NewListItem(fs)
}

func TestDiffItems(t *testing.T) {
	tests := []struct {
		name            string
		before          []sharepoint.ListItem
		after           []sharepoint.ListItem
		expectedAdded   []string
		expectedRemoved []string
		expectedChanged []ItemChange
	}{
		{
			name:            "identical",
			before:          []sharepoint.ListItem{item("ows_ID", "1", "ows_Title", "A")},
			after:           []sharepoint.ListItem{item("ows_Title", "A", "ows_ID", "1")},
			expectedAdded:   []string{},
			expectedRemoved: []string{},
			expectedChanged: []ItemChange{},
		},
		{
			name:            "field_added_and_dropped",
			before:          []sharepoint.ListItem{item("ows_ID", "1", "ows_Status", "Open")},
			after:           []sharepoint.ListItem{item("ows_ID", "1", "ows_Owner", "kim")},
			expectedAdded:   []string{},
			expectedRemoved: []string{},
			expectedChanged: []ItemChange{{ID: "1", Fields: []FieldChange{
				{Name: "ows_Owner", Old: "", New: "kim"},
				{Name: "ows_Status", Old: "Open", New: ""},
			}}},
		},
		{
			name:            "items_without_id_ignored",
			before:          []sharepoint.ListItem{item("ows_Title", "orphan")},
			after:           []sharepoint.ListItem{item("ows_Title", "other"), item("ows_ID", "5")},
			expectedAdded:   []string{"5"},
			expectedRemoved: []string{},
			expectedChanged: []ItemChange{},
		},
		{
			name:            "all_removed",
			before:          []sharepoint.ListItem{item("ows_ID", "1"), item("ows_ID", "2")},
			after:           nil,
			expectedAdded:   []string{},
			expectedRemoved: []string{"1", "2"},
			expectedChanged: []ItemChange{},
		},
	}

	ids := func(items []sharepoint.ListItem) []string {
		out := []string{}
		for _, i := range items {
			out = append(out, i.ID())
		}
		return out
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := DiffItems(tt.before, tt.after)

			assert.Equal(t, tt.expectedAdded, ids(diff.Added))
			assert.Equal(t, tt.expectedRemoved, ids(diff.Removed))
			assert.Equal(t, tt.expectedChanged, diff.Changed)
		})
	}
}
