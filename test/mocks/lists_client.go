package mocks

import (
	"bytes"
	"context"

	"github.com/stretchr/testify/mock"

	"spws/domain/sharepoint"
	"spws/infrastructure/spclient"
)

// MockListsClient implements spclient.ListsClient for testing
type MockListsClient struct {
	mock.Mock
}

func (m *MockListsClient) GetListCollection(ctx context.Context, includeHidden bool) ([]*sharepoint.List, error) {
	args := m.Called(ctx, includeHidden)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sharepoint.List), args.Error(1)
}

func (m *MockListsClient) GetList(ctx context.Context, list string) (*sharepoint.List, error) {
	args := m.Called(ctx, list)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sharepoint.List), args.Error(1)
}

func (m *MockListsClient) GetListItems(ctx context.Context, list string, opts sharepoint.QueryOptions, query spclient.QueryBuilder) ([]sharepoint.ListItem, error) {
	args := m.Called(ctx, list, opts, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sharepoint.ListItem), args.Error(1)
}

func (m *MockListsClient) UpdateListItems(ctx context.Context, list string, opts sharepoint.BatchOptions, mutations []sharepoint.MutationRequest, raw spclient.QueryBuilder) ([]sharepoint.UpdateResult, error) {
	args := m.Called(ctx, list, opts, mutations, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sharepoint.UpdateResult), args.Error(1)
}

func (m *MockListsClient) DownloadFile(ctx context.Context, fileRef string) ([]byte, error) {
	args := m.Called(ctx, fileRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockExportWriter implements export.Writer for testing
type MockExportWriter struct {
	mock.Mock
}

func (m *MockExportWriter) Write(sheet string, items []sharepoint.ListItem) (*bytes.Buffer, error) {
	args := m.Called(sheet, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bytes.Buffer), args.Error(1)
}
