package sharepoint

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldSet(t *testing.T) {
	fs := FieldSet{{Name: "ows_ID", Value: "1"}, {Name: "ows_Title", Value: "Budget"}}

	v, ok := fs.Get("ows_Title")
	assert.True(t, ok)
	assert.Equal(t, "Budget", v)

	_, ok = fs.Get("ows_Missing")
	assert.False(t, ok)
	assert.Equal(t, "", fs.Value("ows_Missing"))

	fs = fs.Set("ows_Title", "Forecast")
	fs = fs.Set("ows_Status", "Open")
	assert.Equal(t, []string{"ows_ID", "ows_Title", "ows_Status"}, fs.Names())
	assert.Equal(t, map[string]string{"ows_ID": "1", "ows_Title": "Forecast", "ows_Status": "Open"}, fs.Map())
}

func TestFieldSet_MarshalJSON_KeepsOrder(t *testing.T) {
	fs := FieldSet{{Name: "z", Value: "1"}, {Name: "a", Value: "<2>"}, {Name: "m", Value: ""}}

	data, err := json.Marshal(fs)

	require.NoError(t, err)
	assert.Equal(t, `{"z":"1","a":"<2>","m":""}`, string(data))
}

func TestListItem_Title(t *testing.T) {
	tests := []struct {
		name     string
		fields   FieldSet
		expected string
	}{
		{name: "title_present", fields: FieldSet{{Name: FieldOwsTitle, Value: "Budget"}}, expected: "Budget"},
		{name: "file_leaf_fallback", fields: FieldSet{{Name: FieldOwsFileLeafRef, Value: "2;#Plan.docx"}}, expected: "Plan.docx"},
		{name: "empty_title_falls_back", fields: FieldSet{{Name: FieldOwsTitle, Value: ""}, {Name: FieldOwsFileLeafRef, Value: "a.txt"}}, expected: "a.txt"},
		{name: "nothing", fields: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewListItem(tt.fields).Title())
		})
	}
}

func TestLookupValue(t *testing.T) {
	assert.Equal(t, "sites/x/Shared Documents/a.docx", LookupValue("12;#sites/x/Shared Documents/a.docx"))
	assert.Equal(t, "plain", LookupValue("plain"))
	assert.Equal(t, "", LookupValue("3;#"))
	assert.Equal(t, "a;b", LookupValue("a;b"))
}

func TestList(t *testing.T) {
	l := NewList(FieldSet{
		{Name: "ID", Value: "{3F7A2B1C-0000-4000-8000-000000000001}"},
		{Name: "Title", Value: "Shared Documents"},
		{Name: "ServerTemplate", Value: "101"},
		{Name: "Hidden", Value: "true"},
		{Name: "ItemCount", Value: "3"},
	})

	guid, err := l.GUID()
	require.NoError(t, err)
	assert.Equal(t, "3f7a2b1c-0000-4000-8000-000000000001", guid.String())
	assert.Equal(t, "Shared Documents", l.Title())
	assert.True(t, l.Hidden())
	assert.True(t, l.IsDocumentLibrary())
	assert.Equal(t, "3", l.ItemCount())

	_, err = NewList(nil).GUID()
	assert.Error(t, err)
}

func TestUpdateResult(t *testing.T) {
	tests := []struct {
		name        string
		result      UpdateResult
		succeeded   bool
		index       int
		indexExists bool
	}{
		{name: "generated_success", result: UpdateResult{MethodID: "VP_IDX3", ErrorCode: ErrorCodeSuccess}, succeeded: true, index: 3, indexExists: true},
		{name: "generated_failure", result: UpdateResult{MethodID: "VP_IDX0", ErrorCode: "0x81020016"}, succeeded: false, index: 0, indexExists: true},
		{name: "caller_method", result: UpdateResult{MethodID: "custom-1"}, succeeded: true},
		{name: "bad_suffix", result: UpdateResult{MethodID: "VP_IDXa"}, succeeded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.succeeded, tt.result.Succeeded())
			idx, ok := tt.result.Index()
			assert.Equal(t, tt.indexExists, ok)
			assert.Equal(t, tt.index, idx)
		})
	}

	assert.Equal(t, "VP_IDX12", BatchMethodID(12))
}

func TestBatchOptions_EffectiveOnError(t *testing.T) {
	assert.Equal(t, OnErrorContinue, BatchOptions{}.EffectiveOnError())
	assert.Equal(t, OnErrorReturn, BatchOptions{OnError: OnErrorReturn}.EffectiveOnError())
	assert.Equal(t, OnErrorContinue, DefaultBatchOptions().OnError)

	q := DefaultQueryOptions()
	assert.True(t, q.Recursive)
	assert.True(t, q.DateInUTC)
	assert.Zero(t, q.RowLimit)
}
