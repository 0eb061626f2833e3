// Package presenters transforms domain data into API-ready view models.
package presenters

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"spws/domain/sharepoint"
)

// ListSummary is the compact view of a list used by the lists endpoint.
type ListSummary struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Name            string `json:"name,omitempty"`
	ItemCount       int64  `json:"item_count"`
	Hidden          bool   `json:"hidden"`
	DocumentLibrary bool   `json:"document_library"`
	Version         string `json:"version,omitempty"`
}

// ListsVM is the view model for the lists endpoint.
type ListsVM struct {
	Lists             []ListSummary `json:"lists"`
	TotalLists        int           `json:"total_lists"`
	TotalItems        int64         `json:"total_items"`
	DocumentLibraries int           `json:"document_libraries"`
}

// SnapshotSummary describes a stored snapshot without its items.
type SnapshotSummary struct {
	ID        string    `json:"id"`
	ListName  string    `json:"list_name"`
	ViewName  string    `json:"view_name,omitempty"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
	Age       string    `json:"age"`
}

// ListPresenter transforms list metadata and snapshots for API responses.
type ListPresenter struct {
	now func() time.Time
}

// NewListPresenter creates a list presenter.
func NewListPresenter() *ListPresenter {
	return &ListPresenter{now: time.Now}
}

// ToListsViewModel summarizes lists and computes totals over the lists that
// match searchQuery. Returns safe defaults for an empty input.
func (p *ListPresenter) ToListsViewModel(lists []*sharepoint.List, searchQuery string) *ListsVM {
	summaries := p.FilterListsForSearch(p.ToListSummaries(lists), searchQuery)

	vm := &ListsVM{
		Lists:      summaries,
		TotalLists: len(summaries),
	}
	for _, s := range summaries {
		vm.TotalItems += s.ItemCount
		if s.DocumentLibrary {
			vm.DocumentLibraries++
		}
	}
	return vm
}

// ToListSummaries converts domain lists to view models. An unparseable
// ItemCount is shown as zero.
func (p *ListPresenter) ToListSummaries(lists []*sharepoint.List) []ListSummary {
	summaries := make([]ListSummary, 0, len(lists))
	for _, list := range lists {
		if list == nil {
			continue
		}
		count, _ := strconv.ParseInt(list.ItemCount(), 10, 64)
		summaries = append(summaries, ListSummary{
			ID:              list.ID(),
			Title:           list.Title(),
			Name:            list.Name(),
			ItemCount:       count,
			Hidden:          list.Hidden(),
			DocumentLibrary: list.IsDocumentLibrary(),
			Version:         list.Attr("Version"),
		})
	}
	return summaries
}

// FilterListsForSearch filters lists by search query across title and name.
// Case-insensitive matching. Returns all lists if query is empty.
func (p *ListPresenter) FilterListsForSearch(lists []ListSummary, searchQuery string) []ListSummary {
	if strings.TrimSpace(searchQuery) == "" {
		return lists
	}

	filtered := []ListSummary{}
	searchLower := strings.ToLower(strings.TrimSpace(searchQuery))

	for _, list := range lists {
		titleMatch := strings.Contains(strings.ToLower(list.Title), searchLower)
		nameMatch := strings.Contains(strings.ToLower(list.Name), searchLower)

		if titleMatch || nameMatch {
			filtered = append(filtered, list)
		}
	}

	return filtered
}

// ToSnapshotSummaries converts stored snapshots to headers with a relative age.
func (p *ListPresenter) ToSnapshotSummaries(snapshots []*sharepoint.Snapshot) []SnapshotSummary {
	now := p.now()
	summaries := make([]SnapshotSummary, 0, len(snapshots))
	for _, s := range snapshots {
		summaries = append(summaries, p.toSnapshotSummary(s, now))
	}
	return summaries
}

// ToSnapshotSummary converts one snapshot to its header.
func (p *ListPresenter) ToSnapshotSummary(snapshot *sharepoint.Snapshot) SnapshotSummary {
	return p.toSnapshotSummary(snapshot, p.now())
}

func (p *ListPresenter) toSnapshotSummary(s *sharepoint.Snapshot, now time.Time) SnapshotSummary {
	return SnapshotSummary{
		ID:        s.ID,
		ListName:  s.ListName,
		ViewName:  s.ViewName,
		ItemCount: s.ItemCount,
		CreatedAt: s.CreatedAt,
		Age:       p.formatRelativeDate(daysBetween(s.CreatedAt, now)),
	}
}

// formatRelativeDate formats a day distance as relative time (e.g., "5 days ago", "Today").
func (p *ListPresenter) formatRelativeDate(daysAgo int) string {
	switch {
	case daysAgo <= 0:
		return "Today"
	case daysAgo == 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", daysAgo)
	}
}

func daysBetween(then, now time.Time) int {
	return int(now.Sub(then) / (24 * time.Hour))
}
