package presenters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spws/domain/sharepoint"
	"spws/test/helpers"
)

func fixedPresenter(now time.Time) *ListPresenter {
	return &ListPresenter{now: func() time.Time { return now }}
}

func TestListPresenter_ToListsViewModel_Success(t *testing.T) {
	// Arrange
	presenter := NewListPresenter()
	testData := helpers.NewTestData()

	library := testData.SimpleList("Shared Documents", false, 10)
	library.Attrs = library.Attrs.Set("ServerTemplate", "101")
	lists := []*sharepoint.List{
		library,
		testData.SimpleList("Tasks", false, 5),
	}

	// Act
	result := presenter.ToListsViewModel(lists, "")

	// Assert
	require.NotNil(t, result)
	assert.Equal(t, 2, result.TotalLists)
	assert.Equal(t, int64(15), result.TotalItems)
	assert.Equal(t, 1, result.DocumentLibraries)

	require.Len(t, result.Lists, 2)
	assert.Equal(t, "Shared Documents", result.Lists[0].Title)
	assert.True(t, result.Lists[0].DocumentLibrary)
	assert.False(t, result.Lists[1].DocumentLibrary)
}

func TestListPresenter_ToListsViewModel_SearchAffectsTotals(t *testing.T) {
	presenter := NewListPresenter()
	testData := helpers.NewTestData()
	lists := []*sharepoint.List{
		testData.SimpleList("Invoices 2023", false, 40),
		testData.SimpleList("Invoices 2024", false, 2),
		testData.SimpleList("Tasks", false, 7),
	}

	result := presenter.ToListsViewModel(lists, "invoices")

	assert.Equal(t, 2, result.TotalLists)
	assert.Equal(t, int64(42), result.TotalItems)
}

func TestListPresenter_ToListSummaries(t *testing.T) {
	presenter := NewListPresenter()

	tests := []struct {
		name     string
		attrs    sharepoint.FieldSet
		expected ListSummary
	}{
		{
			name: "full_metadata",
			attrs: sharepoint.FieldSet{
				{Name: "ID", Value: "{3F7A2B1C-0000-4000-8000-000000000009}"},
				{Name: "Title", Value: "Invoices"},
				{Name: "Name", Value: "{3F7A2B1C-0000-4000-8000-000000000009}"},
				{Name: "ItemCount", Value: "128"},
				{Name: "Hidden", Value: "False"},
				{Name: "ServerTemplate", Value: "100"},
				{Name: "Version", Value: "31"},
			},
			expected: ListSummary{
				ID:        "{3F7A2B1C-0000-4000-8000-000000000009}",
				Title:     "Invoices",
				Name:      "{3F7A2B1C-0000-4000-8000-000000000009}",
				ItemCount: 128,
				Version:   "31",
			},
		},
		{
			name: "hidden_library",
			attrs: sharepoint.FieldSet{
				{Name: "Title", Value: "Style Library"},
				{Name: "Hidden", Value: "TRUE"},
				{Name: "ServerTemplate", Value: "101"},
			},
			expected: ListSummary{Title: "Style Library", Hidden: true, DocumentLibrary: true},
		},
		{
			name: "unparseable_item_count",
			attrs: sharepoint.FieldSet{
				{Name: "Title", Value: "Broken"},
				{Name: "ItemCount", Value: "many"},
			},
			expected: ListSummary{Title: "Broken"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := presenter.ToListSummaries([]*sharepoint.List{sharepoint.NewList(tt.attrs)})

			require.Len(t, result, 1)
			assert.Equal(t, tt.expected, result[0])
		})
	}
}

func TestListPresenter_FilterListsForSearch(t *testing.T) {
	// Arrange
	presenter := NewListPresenter()

	lists := []ListSummary{
		{ID: "list-1", Title: "Important Documents", Name: "Documents"},
		{ID: "list-2", Title: "Task List", Name: "Tasks"},
		{ID: "list-3", Title: "Calendar Events", Name: "Calendar"},
	}

	tests := []struct {
		name        string
		searchQuery string
		expectedIDs []string
	}{
		{name: "empty_search", searchQuery: "", expectedIDs: []string{"list-1", "list-2", "list-3"}},
		{name: "whitespace_search", searchQuery: "   ", expectedIDs: []string{"list-1", "list-2", "list-3"}},
		{name: "title_match", searchQuery: "important", expectedIDs: []string{"list-1"}},
		{name: "name_match", searchQuery: "tasks", expectedIDs: []string{"list-2"}},
		{name: "case_insensitive", searchQuery: "CALENDAR", expectedIDs: []string{"list-3"}},
		{name: "trimmed", searchQuery: "  events  ", expectedIDs: []string{"list-3"}},
		{name: "no_matches", searchQuery: "nonexistent", expectedIDs: []string{}},
		{name: "single_word", searchQuery: "list", expectedIDs: []string{"list-2"}},
		{name: "multiple_matches", searchQuery: "a", expectedIDs: []string{"list-1", "list-2", "list-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			result := presenter.FilterListsForSearch(lists, tt.searchQuery)

			// Assert
			actualIDs := make([]string, len(result))
			for i, list := range result {
				actualIDs[i] = list.ID
			}
			assert.Equal(t, tt.expectedIDs, actualIDs)
		})
	}
}

func TestListPresenter_ToSnapshotSummaries(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	presenter := fixedPresenter(now)

	tests := []struct {
		name        string
		createdAt   time.Time
		expectedAge string
	}{
		{name: "same_day", createdAt: now.Add(-3 * time.Hour), expectedAge: "Today"},
		{name: "one_day", createdAt: now.Add(-30 * time.Hour), expectedAge: "1 day ago"},
		{name: "several_days", createdAt: now.AddDate(0, 0, -5), expectedAge: "5 days ago"},
		{name: "clock_skew", createdAt: now.Add(time.Hour), expectedAge: "Today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := &sharepoint.Snapshot{
				ID:        "snap-1",
				ListName:  "Tasks",
				ViewName:  "All Items",
				ItemCount: 3,
				CreatedAt: tt.createdAt,
				Items:     helpers.NewTestData().Items(3),
			}

			result := presenter.ToSnapshotSummaries([]*sharepoint.Snapshot{snapshot})

			require.Len(t, result, 1)
			assert.Equal(t, "snap-1", result[0].ID)
			assert.Equal(t, "All Items", result[0].ViewName)
			assert.Equal(t, 3, result[0].ItemCount)
			assert.Equal(t, tt.expectedAge, result[0].Age)
			assert.Equal(t, tt.expectedAge, presenter.ToSnapshotSummary(snapshot).Age)
		})
	}
}

// Test nil safety and error handling
func TestListPresenter_NilSafety(t *testing.T) {
	presenter := NewListPresenter()

	// Should not panic with nil input and return safe defaults
	result := presenter.ToListsViewModel(nil, "")
	require.NotNil(t, result)
	assert.Equal(t, 0, result.TotalLists)
	assert.Equal(t, int64(0), result.TotalItems)
	assert.NotNil(t, result.Lists)
	assert.Empty(t, result.Lists)

	// Nil entries are skipped
	summaries := presenter.ToListSummaries([]*sharepoint.List{nil, helpers.NewTestData().SimpleList("Tasks", false, 1)})
	require.Len(t, summaries, 1)
	assert.Equal(t, "Tasks", summaries[0].Title)

	assert.Empty(t, presenter.ToSnapshotSummaries(nil))
}

// Test business logic - verify that presenter doesn't change business data
func TestListPresenter_DoesNotModifyInput(t *testing.T) {
	presenter := NewListPresenter()
	testData := helpers.NewTestData()

	lists := []*sharepoint.List{testData.SimpleList("test", true, 5)}
	originalAttrs := append(sharepoint.FieldSet(nil), lists[0].Attrs...)

	presenter.ToListsViewModel(lists, "test")

	assert.Equal(t, originalAttrs, lists[0].Attrs)
}
