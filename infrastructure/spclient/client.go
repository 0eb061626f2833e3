package spclient

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"spws/domain/sharepoint"
	"spws/logging"
)

// ListsClient abstracts the Lists web service operations.
type ListsClient interface {
	// List metadata
	GetListCollection(ctx context.Context, includeHidden bool) ([]*sharepoint.List, error)
	GetList(ctx context.Context, list string) (*sharepoint.List, error)

	// Items
	GetListItems(ctx context.Context, list string, opts sharepoint.QueryOptions, query QueryBuilder) ([]sharepoint.ListItem, error)
	UpdateListItems(ctx context.Context, list string, opts sharepoint.BatchOptions, mutations []sharepoint.MutationRequest, raw QueryBuilder) ([]sharepoint.UpdateResult, error)

	// Files
	DownloadFile(ctx context.Context, fileRef string) ([]byte, error)
}

// ListsServiceOptions configures a ListsService.
type ListsServiceOptions struct {
	SiteURL   string
	Namer     sharepoint.FieldNamer // defaults to CamelCaseNamer
	CacheSize int                   // GetList cache entries; 0 disables caching
	CacheTTL  time.Duration         // GetList cache lifetime; 0 disables caching
}

// ListsService implements ListsClient on top of a Dispatcher. Apart from
// the GetList metadata cache it keeps no state between calls.
type ListsService struct {
	dispatcher Dispatcher
	files      FileFetcher
	siteURL    string
	namer      sharepoint.FieldNamer
	listCache  *expirable.LRU[string, *sharepoint.List]
	logger     *logging.Logger
}

// NewListsService creates a Lists service client.
func NewListsService(dispatcher Dispatcher, files FileFetcher, opts ListsServiceOptions) *ListsService {
	namer := opts.Namer
	if namer == nil {
		namer = sharepoint.CamelCaseNamer{}
	}

	var cache *expirable.LRU[string, *sharepoint.List]
	if opts.CacheSize > 0 && opts.CacheTTL > 0 {
		cache = expirable.NewLRU[string, *sharepoint.List](opts.CacheSize, nil, opts.CacheTTL)
	}

	return &ListsService{
		dispatcher: dispatcher,
		files:      files,
		siteURL:    opts.SiteURL,
		namer:      namer,
		listCache:  cache,
		logger:     logging.Default().WithComponent("lists_service"),
	}
}

// GetListCollection returns the site's lists. Hidden lists are dropped
// unless includeHidden is set.
func (s *ListsService) GetListCollection(ctx context.Context, includeHidden bool) ([]*sharepoint.List, error) {
	body, err := buildListNameOperation(ActionGetListCollection, "")
	if err != nil {
		return nil, fmt.Errorf("build list collection request: %w", err)
	}
	resp, err := s.dispatcher.Dispatch(ctx, ActionGetListCollection, WrapEnvelope(body))
	if err != nil {
		return nil, fmt.Errorf("get list collection: %w", err)
	}
	all, err := parseLists(resp)
	if err != nil {
		return nil, fmt.Errorf("decode list collection: %w", err)
	}

	lists := make([]*sharepoint.List, 0, len(all))
	for _, l := range all {
		if l.Hidden() && !includeHidden {
			continue
		}
		lists = append(lists, l)
	}

	s.logger.SharePoint("Fetched list collection", "total", len(all), "returned", len(lists))
	return lists, nil
}

// GetList returns one list's metadata, served from cache when possible.
func (s *ListsService) GetList(ctx context.Context, list string) (*sharepoint.List, error) {
	if s.listCache != nil {
		if cached, ok := s.listCache.Get(list); ok {
			return cached, nil
		}
	}

	body, err := buildListNameOperation(ActionGetList, list)
	if err != nil {
		return nil, fmt.Errorf("build get list request: %w", err)
	}
	resp, err := s.dispatcher.Dispatch(ctx, ActionGetList, WrapEnvelope(body))
	if err != nil {
		return nil, fmt.Errorf("get list %q: %w", list, err)
	}
	lists, err := parseLists(resp)
	if err != nil {
		return nil, fmt.Errorf("decode list %q: %w", list, err)
	}
	if len(lists) == 0 {
		return nil, fmt.Errorf("decode list %q: %w: no List element", list, ErrMalformedResponse)
	}

	if s.listCache != nil {
		s.listCache.Add(list, lists[0])
	}
	return lists[0], nil
}

// GetListItems queries a list. A nil query uses the view's own filter.
func (s *ListsService) GetListItems(ctx context.Context, list string, opts sharepoint.QueryOptions, query QueryBuilder) ([]sharepoint.ListItem, error) {
	start := time.Now()

	body, err := BuildGetListItems(list, opts, query)
	if err != nil {
		return nil, fmt.Errorf("build get list items request: %w", err)
	}
	resp, err := s.dispatcher.Dispatch(ctx, ActionGetListItems, WrapEnvelope(body))
	if err != nil {
		return nil, fmt.Errorf("get list items %q: %w", list, err)
	}
	items, err := ParseRowset(resp)
	if err != nil {
		return nil, fmt.Errorf("decode list items %q: %w", list, err)
	}

	s.logger.SharePoint("Fetched list items",
		"list", list,
		"view", opts.ViewName,
		"custom_query", query != nil,
		"count", len(items),
		"duration_ms", time.Since(start).Milliseconds())
	return items, nil
}

// UpdateListItems submits one batch. Per-method failures reported by the
// server come back in the results, not as an error.
func (s *ListsService) UpdateListItems(ctx context.Context, list string, opts sharepoint.BatchOptions, mutations []sharepoint.MutationRequest, raw QueryBuilder) ([]sharepoint.UpdateResult, error) {
	body, err := BuildUpdateListItems(list, opts, mutations, s.namer, raw)
	if err != nil {
		return nil, fmt.Errorf("build update list items request: %w", err)
	}
	resp, err := s.dispatcher.Dispatch(ctx, ActionUpdateListItems, WrapEnvelope(body))
	if err != nil {
		return nil, fmt.Errorf("update list items %q: %w", list, err)
	}
	results, err := parseUpdateResults(resp)
	if err != nil {
		return nil, fmt.Errorf("decode update results %q: %w", list, err)
	}

	// Item counts and the list version change with a batch.
	if s.listCache != nil {
		s.listCache.Remove(list)
	}

	failed := 0
	for _, r := range results {
		if !r.Succeeded() {
			failed++
		}
	}
	s.logger.SharePoint("Submitted batch",
		"list", list,
		"mutations", len(mutations),
		"raw_methods", raw != nil,
		"results", len(results),
		"failed", failed)
	return results, nil
}

// DownloadFile fetches file content for an absolute URL, a server-relative
// path or a rowset FileRef value.
func (s *ListsService) DownloadFile(ctx context.Context, fileRef string) ([]byte, error) {
	if s.files == nil {
		return nil, fmt.Errorf("no file fetcher configured for %s", fileRef)
	}
	return s.files.Fetch(ctx, fileURL(s.siteURL, fileRef))
}
