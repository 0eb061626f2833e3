package helpers

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"

	"spws/domain/sharepoint"
	"spws/test/mocks"
)

// MockDependencies holds all service dependency mocks for easy injection
type MockDependencies struct {
	Client    *mocks.MockListsClient
	Snapshots *mocks.MockSnapshotRepository
	Writer    *mocks.MockExportWriter
}

// NewMockDependencies creates a new set of dependency mocks
func NewMockDependencies() *MockDependencies {
	return &MockDependencies{
		Client:    &mocks.MockListsClient{},
		Snapshots: &mocks.MockSnapshotRepository{},
		Writer:    &mocks.MockExportWriter{},
	}
}

// ExpectListItems sets up expectations for a successful items query on list
func (m *MockDependencies) ExpectListItems(list string, items []sharepoint.ListItem) {
	m.Client.On("GetListItems", mock.Anything, list, mock.Anything, mock.Anything).Return(items, nil)
}

// ExpectListItemsError sets up expectations for a failing items query on list
func (m *MockDependencies) ExpectListItemsError(list string, err error) {
	m.Client.On("GetListItems", mock.Anything, list, mock.Anything, mock.Anything).Return(nil, err)
}

// ExpectLatestSnapshot sets up expectations for the newest snapshot lookup
func (m *MockDependencies) ExpectLatestSnapshot(list string, snapshot *sharepoint.Snapshot) {
	m.Snapshots.On("GetLatest", mock.Anything, list).Return(snapshot, nil)
}

// AssertAllExpectations verifies all mock expectations were met
func (m *MockDependencies) AssertAllExpectations(t mock.TestingT) {
	m.Client.AssertExpectations(t)
	m.Snapshots.AssertExpectations(t)
	m.Writer.AssertExpectations(t)
}

// TestData provides simple builders for test data
type TestData struct{}

// NewTestData creates a test data builder
func NewTestData() *TestData {
	return &TestData{}
}

// SimpleItem creates a rowset item with ows_ID and ows_Title
func (td *TestData) SimpleItem(id int, title string) sharepoint.ListItem {
	return sharepoint.NewListItem(sharepoint.FieldSet{
		{Name: sharepoint.FieldOwsID, Value: fmt.Sprint(id)},
		{Name: sharepoint.FieldOwsTitle, Value: title},
	})
}

// Items creates count items titled "Item N"
func (td *TestData) Items(count int) []sharepoint.ListItem {
	items := make([]sharepoint.ListItem, count)
	for i := range items {
		items[i] = td.SimpleItem(i+1, fmt.Sprintf("Item %d", i+1))
	}
	return items
}

// SimpleList creates list metadata as GetListCollection reports it
func (td *TestData) SimpleList(title string, hidden bool, itemCount int) *sharepoint.List {
	hiddenAttr := "False"
	if hidden {
		hiddenAttr = "True"
	}
	return sharepoint.NewList(sharepoint.FieldSet{
		{Name: "ID", Value: "{3F7A2B1C-0000-4000-8000-000000000001}"},
		{Name: "Title", Value: title},
		{Name: "Hidden", Value: hiddenAttr},
		{Name: "ItemCount", Value: fmt.Sprint(itemCount)},
	})
}

// SimpleSnapshot creates a stored snapshot of items
func (td *TestData) SimpleSnapshot(id, list string, items []sharepoint.ListItem) *sharepoint.Snapshot {
	return &sharepoint.Snapshot{
		ID:        id,
		ListName:  list,
		ItemCount: len(items),
		CreatedAt: *TestTime(1),
		Items:     items,
	}
}

// Helper for common test context
func TestContext() context.Context {
	return context.Background()
}

// Helper for time-based tests
func TestTime(daysAgo int) *time.Time {
	t := time.Now().AddDate(0, 0, -daysAgo)
	return &t
}
