package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spws/application"
	"spws/domain/contracts"
	"spws/domain/sharepoint"
	"spws/infrastructure/spclient"
	"spws/interfaces/web/presenters"
	"spws/test/helpers"
)

func newTestRouter(m *helpers.MockDependencies) http.Handler {
	service := application.NewListItemsService(m.Client, m.Snapshots, m.Writer)
	r := chi.NewRouter()
	NewListHandlers(service, presenters.NewListPresenter()).RegisterRoutes(r)
	return r
}

func serve(t *testing.T, h http.Handler, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListHandlers_GetItems_QueryOptions(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		expectedOpts sharepoint.QueryOptions
		expectsQuery bool
	}{
		{
			name:         "defaults",
			query:        "",
			expectedOpts: sharepoint.QueryOptions{Recursive: true, DateInUTC: true},
		},
		{
			name:         "all_options",
			query:        "?view=All%20Items&rowLimit=50&folder=Shared%20Documents%2F2024&recursive=false&utc=false",
			expectedOpts: sharepoint.QueryOptions{ViewName: "All Items", RowLimit: 50, Folder: "Shared Documents/2024"},
		},
		{
			name:         "caml_query",
			query:        "?caml=" + url.QueryEscape(`<Query><Where><Eq><FieldRef Name="Status"/><Value Type="Text">Open</Value></Eq></Where></Query>`),
			expectedOpts: sharepoint.QueryOptions{Recursive: true, DateInUTC: true},
			expectsQuery: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			m := helpers.NewMockDependencies()
			items := helpers.NewTestData().Items(2)
			m.Client.On("GetListItems", mock.Anything, "Tasks", tt.expectedOpts, mock.MatchedBy(func(q spclient.QueryBuilder) bool {
				return (q != nil) == tt.expectsQuery
			})).Return(items, nil)

			// Act
			rec := serve(t, newTestRouter(m), http.MethodGet, "/api/lists/Tasks/items"+tt.query, "")

			// Assert
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body struct {
				List  string              `json:"list"`
				Count int                 `json:"count"`
				Items []map[string]string `json:"items"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Tasks", body.List)
			assert.Equal(t, 2, body.Count)
			assert.Equal(t, "Item 1", body.Items[0]["ows_Title"])
			m.AssertAllExpectations(t)
		})
	}
}

func TestListHandlers_GetItems_Errors(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMocks     func(*helpers.MockDependencies)
		expectedStatus int
		expectFault    bool
	}{
		{
			name:           "invalid_row_limit",
			query:          "?rowLimit=many",
			setupMocks:     func(m *helpers.MockDependencies) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid_recursive",
			query:          "?recursive=maybe",
			setupMocks:     func(m *helpers.MockDependencies) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "server_fault",
			query: "",
			setupMocks: func(m *helpers.MockDependencies) {
				m.ExpectListItemsError("Tasks", &spclient.FaultError{
					StatusCode:  500,
					Code:        "soap:Server",
					ErrorString: "List does not exist.",
					ErrorCode:   "0x82000006",
				})
			},
			expectedStatus: http.StatusBadGateway,
			expectFault:    true,
		},
		{
			name:  "malformed_response",
			query: "",
			setupMocks: func(m *helpers.MockDependencies) {
				m.ExpectListItemsError("Tasks", spclient.ErrMalformedResponse)
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:  "invalid_caml",
			query: "?caml=" + url.QueryEscape("<Query><Where>"),
			setupMocks: func(m *helpers.MockDependencies) {
				m.ExpectListItemsError("Tasks", spclient.ErrInvalidFragment)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "unexpected_error",
			query: "",
			setupMocks: func(m *helpers.MockDependencies) {
				m.ExpectListItemsError("Tasks", errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := helpers.NewMockDependencies()
			tt.setupMocks(m)

			rec := serve(t, newTestRouter(m), http.MethodGet, "/api/lists/Tasks/items"+tt.query, "")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedStatus, resp.Status)
			assert.NotEmpty(t, resp.Error)
			if tt.expectFault {
				require.NotNil(t, resp.Fault)
				assert.Equal(t, "0x82000006", resp.Fault.ErrorCode)
				assert.Equal(t, 500, resp.Fault.StatusCode)
			} else {
				assert.Nil(t, resp.Fault)
			}
		})
	}
}

func TestListHandlers_SubmitBatch(t *testing.T) {
	// Arrange
	m := helpers.NewMockDependencies()
	expectedMutations := []sharepoint.MutationRequest{
		{ID: "New", Command: sharepoint.CommandNew, Fields: sharepoint.FieldSet{{Name: "title", Value: "Test Task"}, {Name: "due_date", Value: "2024-01-01"}}},
		{ID: "98", Command: sharepoint.CommandDelete},
	}
	expectedOpts := sharepoint.BatchOptions{OnError: sharepoint.OnErrorReturn, ListVersion: "3"}
	m.Client.On("UpdateListItems", mock.Anything, "Tasks", expectedOpts, expectedMutations, mock.MatchedBy(func(q spclient.QueryBuilder) bool {
		return q != nil
	})).Return([]sharepoint.UpdateResult{
		{MethodID: "VP_IDX0", Command: sharepoint.CommandNew, ErrorCode: sharepoint.ErrorCodeSuccess},
		{MethodID: "VP_IDX1", Command: sharepoint.CommandDelete, ErrorCode: "0x81020016", ErrorText: "Item does not exist."},
	}, nil)

	body := `{
		"options": {"on_error": "Return", "list_version": "3"},
		"mutations": [
			{"id": "New", "command": "New", "title": "Test Task", "due_date": "2024-01-01"},
			{"id": "98", "command": "Delete"}
		],
		"raw": "<Method ID=\"custom-1\" Cmd=\"Delete\"><Field Name=\"ID\">7</Field></Method>"
	}`

	// Act
	rec := serve(t, newTestRouter(m), http.MethodPost, "/api/lists/Tasks/items/batch", body)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var outcome application.BatchOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, 1, outcome.Succeeded)
	assert.Equal(t, 1, outcome.Failed)
	assert.Equal(t, "Item does not exist.", outcome.Results[1].ErrorText)
	m.AssertAllExpectations(t)
}

func TestListHandlers_SubmitBatch_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not_json", body: "<Batch/>"},
		{name: "unknown_field", body: `{"mutationz": []}`},
		{name: "nested_field_value", body: `{"mutations": [{"id": "1", "command": "Update", "meta": {"a": 1}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := helpers.NewMockDependencies()

			rec := serve(t, newTestRouter(m), http.MethodPost, "/api/lists/Tasks/items/batch", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			m.Client.AssertNotCalled(t, "UpdateListItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestListHandlers_ListLists(t *testing.T) {
	m := helpers.NewMockDependencies()
	td := helpers.NewTestData()
	m.Client.On("GetListCollection", mock.Anything, true).Return([]*sharepoint.List{
		td.SimpleList("Tasks", false, 3),
		td.SimpleList("appdata", true, 0),
	}, nil)

	rec := serve(t, newTestRouter(m), http.MethodGet, "/api/lists?hidden=true", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body presenters.ListsVM
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalLists)
	assert.Equal(t, int64(3), body.TotalItems)
	assert.Equal(t, "Tasks", body.Lists[0].Title)
	assert.True(t, body.Lists[1].Hidden)
}

func TestListHandlers_ListLists_Search(t *testing.T) {
	m := helpers.NewMockDependencies()
	td := helpers.NewTestData()
	m.Client.On("GetListCollection", mock.Anything, false).Return([]*sharepoint.List{
		td.SimpleList("Tasks", false, 3),
		td.SimpleList("Invoices", false, 9),
	}, nil)

	rec := serve(t, newTestRouter(m), http.MethodGet, "/api/lists?q=invoice", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body presenters.ListsVM
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Lists, 1)
	assert.Equal(t, "Invoices", body.Lists[0].Title)

	rec = serve(t, newTestRouter(m), http.MethodGet, "/api/lists?hidden=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListHandlers_CreateSnapshot(t *testing.T) {
	m := helpers.NewMockDependencies()
	m.ExpectListItems("Tasks", helpers.NewTestData().Items(2))
	m.Snapshots.On("Save", mock.Anything, mock.Anything).Return(nil)

	rec := serve(t, newTestRouter(m), http.MethodPost, "/api/lists/Tasks/snapshots?view=All%20Items", "")

	require.Equal(t, http.StatusCreated, rec.Code)
	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, "Tasks", snapshot["list_name"])
	assert.Equal(t, "All Items", snapshot["view_name"])
	assert.EqualValues(t, 2, snapshot["item_count"])
	assert.Equal(t, "Today", snapshot["age"])
	assert.NotContains(t, snapshot, "items")
	m.AssertAllExpectations(t)
}

func TestListHandlers_LatestSnapshot_NotFound(t *testing.T) {
	m := helpers.NewMockDependencies()
	m.Snapshots.On("GetLatest", mock.Anything, "Tasks").Return(nil, contracts.ErrSnapshotNotFound)

	rec := serve(t, newTestRouter(m), http.MethodGet, "/api/lists/Tasks/snapshots/latest", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListHandlers_ListSnapshots(t *testing.T) {
	m := helpers.NewMockDependencies()
	m.Snapshots.On("ListByList", mock.Anything, "Tasks", 5).Return([]*sharepoint.Snapshot{{ID: "a", ListName: "Tasks"}}, nil)

	rec := serve(t, newTestRouter(m), http.MethodGet, "/api/lists/Tasks/snapshots?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"a"`)

	rec = serve(t, newTestRouter(m), http.MethodGet, "/api/lists/Tasks/snapshots?limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListHandlers_ExportXLSX(t *testing.T) {
	m := helpers.NewMockDependencies()
	items := helpers.NewTestData().Items(1)
	m.ExpectListItems("Shared Documents", items)
	m.Writer.On("Write", "Shared Documents", items).Return(bytes.NewBufferString("PK-xlsx"), nil)

	rec := serve(t, newTestRouter(m), http.MethodGet, "/api/lists/Shared%20Documents/export.xlsx", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Shared Documents.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK-xlsx", rec.Body.String())
}
